// This file is part of machina.
//
// Copyright 2024 The Machina Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm_test

import (
	"fmt"

	"github.com/go-machina/machina/vm"
)

// This example hand-builds the bytecode a real assembler would produce for
// the fibonacci program from the source grammar and runs it directly
// against package vm, without going through the lexer or assembler.
func Example() {
	fib := func(op vm.OpCode, operands ...vm.Operand) vm.Instruction {
		var i vm.Instruction
		i.Op = op
		for idx, o := range operands {
			i.Operands[idx] = o
		}
		return i
	}

	module := &vm.Module{Functions: []vm.Function{
		{
			Name:   "fib",
			Locals: 3,
			Instructions: []vm.Instruction{
				fib(vm.JLe, vm.PositionOperand(9), vm.RegisterOperand(0), vm.ImmediateOperand(1)),
				fib(vm.Move, vm.RegisterOperand(1), vm.RegisterOperand(0)),
				fib(vm.Sub, vm.RegisterOperand(1), vm.ImmediateOperand(1)),
				fib(vm.Call, vm.FunctionOperand(0), vm.RegisterOperand(1), vm.RegisterOperand(1), vm.RegisterOperand(1)),
				fib(vm.Move, vm.RegisterOperand(2), vm.RegisterOperand(0)),
				fib(vm.Sub, vm.RegisterOperand(2), vm.ImmediateOperand(2)),
				fib(vm.Call, vm.FunctionOperand(0), vm.RegisterOperand(2), vm.RegisterOperand(2), vm.RegisterOperand(2)),
				fib(vm.Add, vm.RegisterOperand(1), vm.RegisterOperand(2)),
				fib(vm.Move, vm.RegisterOperand(0), vm.RegisterOperand(1)),
				fib(vm.Ret, vm.RegisterOperand(0)),
			},
		},
	}}

	m := vm.NewMachine(module)
	result, err := m.Run(0, vm.Int(10))
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: 55
}
