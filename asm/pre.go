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

import "github.com/go-machina/machina/vm"

// mainBlockLabel is the implicit label of a function's first block.
const mainBlockLabel = "<main>"

// PreOperandKind discriminates PreOperand before link-time resolution.
type PreOperandKind uint8

const (
	PreNone PreOperandKind = iota
	PreString
	PreNumber
	PreRegister
	PreFunctionRef
	PreLabelRef
)

// PreOperand is an operand as written in source: still text, not yet
// resolved to a register id, immediate, constant index, function index, or
// jump position.
type PreOperand struct {
	Kind PreOperandKind
	Text string
	Line int
}

// PreInstruction is one parsed instruction: an opcode plus its textual
// operand list, not yet resolved.
type PreInstruction struct {
	Op       vm.OpCode
	Line     int
	Operands []PreOperand
}

// PreBlock is a labeled straight-line run of instructions.
type PreBlock struct {
	Label        string
	Line         int
	Instructions []PreInstruction
}

// PreFunction is a parsed function: its declared name and its blocks in
// source order.
type PreFunction struct {
	Name   string
	Line   int
	Blocks []PreBlock
}
