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

package vm

import "fmt"

// OpCode identifies the operation an Instruction performs.
type OpCode uint8

// The fixed opcode set. Order is not significant; it is fixed only in the
// sense that package asm and package vm must agree on the numeric value of
// each member, which they do by sharing this type.
const (
	Call OpCode = iota
	Ret
	Move
	Jmp
	Jt
	Jf
	JLt
	JLe
	JGt
	JGe
	JEq
	JNe
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	Add
	Sub
	Mul
	Div
	Mod
	Not
	And
	Or
	Xor
	Shl
	Shr
	Write
)

var opcodeNames = [...]string{
	Call: "call", Ret: "ret", Move: "move", Jmp: "jmp",
	Jt: "jt", Jf: "jf",
	JLt: "jlt", JLe: "jle", JGt: "jgt", JGe: "jge", JEq: "jeq", JNe: "jne",
	Lt: "lt", Le: "le", Gt: "gt", Ge: "ge", Eq: "eq", Ne: "ne",
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	Not: "not", And: "and", Or: "or", Xor: "xor", Shl: "shl", Shr: "shr",
	Write: "write",
}

// String returns the lower-case mnemonic for op.
func (op OpCode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// OperandKind discriminates the Operand union.
type OperandKind uint8

const (
	// OperandNone marks an unused instruction slot.
	OperandNone OperandKind = iota
	// OperandImmediate carries a signed 32-bit literal.
	OperandImmediate
	// OperandPosition carries an instruction index within the containing
	// function, the target of a jump or branch.
	OperandPosition
	// OperandRegister carries a register id, relative to the current
	// frame's base pointer.
	OperandRegister
	// OperandFunction carries an index into the module's function table.
	OperandFunction
	// OperandConstant carries an index into the module's constant pool.
	OperandConstant
)

// Operand is a fixed-size tagged union: exactly one of an immediate literal,
// a jump position, a register id, a function index, or a constant-pool
// index. The zero value is OperandNone.
type Operand struct {
	Kind  OperandKind
	Value uint32
}

// NoOperand is the zero Operand, used to pad unused instruction slots.
var NoOperand = Operand{Kind: OperandNone}

// ImmediateOperand builds an Operand carrying the signed literal i.
func ImmediateOperand(i int32) Operand {
	return Operand{Kind: OperandImmediate, Value: uint32(i)}
}

// PositionOperand builds an Operand carrying the instruction index pos.
func PositionOperand(pos uint16) Operand {
	return Operand{Kind: OperandPosition, Value: uint32(pos)}
}

// RegisterOperand builds an Operand carrying the register id reg.
func RegisterOperand(reg uint16) Operand {
	return Operand{Kind: OperandRegister, Value: uint32(reg)}
}

// FunctionOperand builds an Operand carrying the function index idx.
func FunctionOperand(idx uint16) Operand {
	return Operand{Kind: OperandFunction, Value: uint32(idx)}
}

// ConstantOperand builds an Operand carrying the constant-pool index idx.
func ConstantOperand(idx uint16) Operand {
	return Operand{Kind: OperandConstant, Value: uint32(idx)}
}

// Immediate returns the operand's signed literal payload. Panics if Kind is
// not OperandImmediate; callers that built the module through package asm
// never hit this, since the link phase only ever emits the kind it means.
func (o Operand) Immediate() int32 {
	if o.Kind != OperandImmediate {
		fault("operand is not an immediate: %v", o)
	}
	return int32(o.Value)
}

// Position returns the operand's instruction-index payload.
func (o Operand) Position() uint16 {
	if o.Kind != OperandPosition {
		fault("operand is not a position: %v", o)
	}
	return uint16(o.Value)
}

// Register returns the operand's register-id payload.
func (o Operand) Register() uint16 {
	if o.Kind != OperandRegister {
		fault("operand is not a register: %v", o)
	}
	return uint16(o.Value)
}

// FunctionIndex returns the operand's function-index payload.
func (o Operand) FunctionIndex() uint16 {
	if o.Kind != OperandFunction {
		fault("operand is not a function: %v", o)
	}
	return uint16(o.Value)
}

// ConstantIndex returns the operand's constant-pool-index payload.
func (o Operand) ConstantIndex() uint16 {
	if o.Kind != OperandConstant {
		fault("operand is not a constant: %v", o)
	}
	return uint16(o.Value)
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return "-"
	case OperandImmediate:
		return fmt.Sprintf("%d", o.Immediate())
	case OperandPosition:
		return fmt.Sprintf(".%d", o.Position())
	case OperandRegister:
		return fmt.Sprintf("%%%d", o.Register())
	case OperandFunction:
		return fmt.Sprintf("@%d", o.FunctionIndex())
	case OperandConstant:
		return fmt.Sprintf("#%d", o.ConstantIndex())
	default:
		return "?"
	}
}

// Instruction is one fixed-width bytecode instruction: an opcode and a
// four-slot operand array, unused slots holding NoOperand. The fixed width
// trades a few bytes per instruction for branch-predictable decoding and a
// value type cheap to copy.
type Instruction struct {
	Op       OpCode
	Operands [4]Operand
}

// ConstantKind discriminates the Constant union.
type ConstantKind uint8

const (
	// ConstantString holds interned text.
	ConstantString ConstantKind = iota
	// ConstantNumber holds a double not representable as an Immediate.
	ConstantNumber
)

// Constant is a pool-addressed literal: either a string or a double that did
// not fit (or was not integral) at link time.
type Constant struct {
	Kind   ConstantKind
	Text   string
	Number float64
}

// StringConstant builds a Constant holding s.
func StringConstant(s string) Constant { return Constant{Kind: ConstantString, Text: s} }

// NumberConstant builds a Constant holding f.
func NumberConstant(f float64) Constant { return Constant{Kind: ConstantNumber, Number: f} }

// Equal reports whether c and other hold the same kind and payload, the
// structural-equality relation constants are compared by when an
// implementation chooses to de-duplicate the pool.
func (c Constant) Equal(other Constant) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == ConstantString {
		return c.Text == other.Text
	}
	return c.Number == other.Number
}

// Function is one named, self-contained unit of bytecode: its flattened,
// position-addressable instruction vector and the number of distinct
// register ids its body references.
type Function struct {
	Name         string
	Locals       uint8
	Instructions []Instruction
}

// Module is the immutable result of linking: a function table and a
// de-duplication-optional constant pool. Function index 0 carries no
// special meaning at this layer; the host picks an entry point.
type Module struct {
	Functions []Function
	Constants []Constant
}
