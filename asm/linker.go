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

package asm

import (
	"math"
	"strconv"

	"github.com/go-machina/machina/vm"
)

// link converts a parsed []PreFunction into a linked vm.Module: function
// names resolve to indices, labels resolve to instruction positions within
// their own function, and literal operands resolve to either an Immediate
// or a pool-addressed Constant. See package doc for the phase split.
func link(functions []PreFunction) (*vm.Module, error) {
	var errs ErrAsm

	fnIndex := make(map[string]int, len(functions))
	for i, fn := range functions {
		if _, dup := fnIndex[fn.Name]; dup {
			errs = append(errs, Diagnostic{Line: fn.Line, Err: &DuplicateFunctionError{Name: fn.Name}})
			continue
		}
		fnIndex[fn.Name] = i
	}
	if len(errs) > 0 {
		if len(errs) > maxErrors {
			errs = errs[:maxErrors]
		}
		return nil, errs
	}

	l := &linker{fnIndex: fnIndex}
	out := make([]vm.Function, len(functions))
	for i, fn := range functions {
		built, ferrs := l.linkFunction(fn)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		out[i] = built
	}
	if len(errs) > 0 {
		if len(errs) > maxErrors {
			errs = errs[:maxErrors]
		}
		return nil, errs
	}
	return &vm.Module{Functions: out, Constants: l.constants}, nil
}

// linker accumulates the module-wide constant pool across every function it
// links, so a Number or String literal used in two different functions
// shares one pool slot.
type linker struct {
	fnIndex   map[string]int
	constants []vm.Constant
}

// linkFunction resolves one PreFunction's labels and register ids and
// flattens its blocks into a position-addressable instruction vector.
func (l *linker) linkFunction(fn PreFunction) (vm.Function, ErrAsm) {
	var errs ErrAsm

	labelPos := make(map[string]int, len(fn.Blocks))
	pos := 0
	for _, b := range fn.Blocks {
		if _, dup := labelPos[b.Label]; dup {
			errs = append(errs, Diagnostic{Line: b.Line, Err: &DuplicateLabelError{Label: b.Label}})
		} else {
			labelPos[b.Label] = pos
		}
		pos += len(b.Instructions)
	}

	registers := make(map[uint16]struct{})
	instructions := make([]vm.Instruction, 0, pos)
	for _, b := range fn.Blocks {
		for _, pi := range b.Instructions {
			instr := vm.Instruction{Op: pi.Op}
			for i, po := range pi.Operands {
				op, err := l.resolveOperand(po, registers, labelPos)
				if err != nil {
					errs = append(errs, Diagnostic{Line: po.Line, Err: err})
					continue
				}
				instr.Operands[i] = op
			}
			instructions = append(instructions, instr)
		}
	}

	if len(errs) > 0 {
		return vm.Function{}, errs
	}

	locals := len(registers)
	if locals > math.MaxUint8 {
		locals = math.MaxUint8
	}
	return vm.Function{
		Name:         fn.Name,
		Locals:       uint8(locals),
		Instructions: instructions,
	}, nil
}

// resolveOperand turns one textual PreOperand into its linked vm.Operand,
// per §4.3's step 4 table.
func (l *linker) resolveOperand(po PreOperand, registers map[uint16]struct{}, labelPos map[string]int) (vm.Operand, error) {
	switch po.Kind {
	case PreNone:
		return vm.NoOperand, nil

	case PreString:
		return vm.ConstantOperand(uint16(l.internConstant(vm.StringConstant(po.Text)))), nil

	case PreNumber:
		f, err := strconv.ParseFloat(po.Text, 64)
		if err != nil {
			return vm.Operand{}, &ExpectedError{Expected: "number", Found: po.Text}
		}
		if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return vm.ImmediateOperand(int32(f)), nil
		}
		return vm.ConstantOperand(uint16(l.internConstant(vm.NumberConstant(f)))), nil

	case PreRegister:
		r, err := strconv.ParseUint(po.Text, 10, 16)
		if err != nil {
			return vm.Operand{}, &InvalidRegisterError{Text: po.Text}
		}
		registers[uint16(r)] = struct{}{}
		return vm.RegisterOperand(uint16(r)), nil

	case PreFunctionRef:
		idx, ok := l.fnIndex[po.Text]
		if !ok {
			return vm.Operand{}, &FunctionNotFoundError{Name: po.Text}
		}
		return vm.FunctionOperand(uint16(idx)), nil

	case PreLabelRef:
		p, ok := labelPos[po.Text]
		if !ok {
			return vm.Operand{}, &TargetNotFoundError{Label: po.Text}
		}
		return vm.PositionOperand(uint16(p)), nil

	default:
		return vm.NoOperand, nil
	}
}

// internConstant returns the pool index for c, appending a new entry unless
// an equal constant is already present. De-duplication is an allowed
// optimization under §4.3: constants compare by structural equality and
// observable behavior does not depend on pool position.
func (l *linker) internConstant(c vm.Constant) int {
	for i, existing := range l.constants {
		if existing.Equal(c) {
			return i
		}
	}
	l.constants = append(l.constants, c)
	return len(l.constants) - 1
}
