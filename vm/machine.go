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

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/go-machina/machina/internal/machi"
)

const initialRegisters = 16

// Machine executes a linked Module. Its register file is a single flat
// Value slice shared across every call frame; frames are distinguished only
// by a base pointer (bp) and a register-pointer high-water mark (rp), never
// allocated individually. See the call method for the exact window-copy
// mechanics.
type Machine struct {
	registers []Value
	bp, rp    int
	module    *Module
	out       *machi.ErrWriter
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// Output directs WRITE output to w instead of os.Stdout.
func Output(w io.Writer) Option {
	return func(m *Machine) { m.out = machi.NewErrWriter(w) }
}

// NewMachine returns a Machine ready to run module, with a 16-slot register
// file of null values and WRITE directed at os.Stdout unless overridden by
// an Option.
func NewMachine(module *Module, opts ...Option) *Machine {
	m := &Machine{
		module:    module,
		registers: make([]Value, initialRegisters),
		out:       machi.NewErrWriter(os.Stdout),
	}
	for i := range m.registers {
		m.registers[i] = Null
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run calls function fnIdx with args placed in registers 0..len(args)-1 of
// the initial window, and runs it to completion. It recovers any Fault (or
// other panic) raised by the dispatch loop and converts it to an error, so
// the hot path never threads an error return through every instruction.
func (m *Machine) Run(fnIdx int, args ...Value) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*Fault); ok {
				err = errors.Wrap(f, "runtime fault")
			} else {
				err = errors.Errorf("%v", r)
			}
		}
	}()

	if fnIdx < 0 || fnIdx >= len(m.module.Functions) {
		return Null, errors.Errorf("function index %d out of range", fnIdx)
	}

	n := len(args)
	if n == 0 {
		n = 1
	}
	m.grow(n)
	for i, a := range args {
		m.registers[i] = a
	}
	result = m.call(fnIdx, 0, 0, n-1)
	return result, nil
}

// call implements the calling convention: it copies the caller's argument window into a fresh window
// at the current rp, grows the register file if necessary, allocates the
// callee's local registers, executes the callee to its Ret, and restores
// the caller's bp/rp before returning the callee's result.
//
// The capacity check covers both the copied argument window and the
// callee's locals in a single grow, sized to whichever is larger: a callee
// may declare more locals than the window it was called with (the @fib
// example does, at 1 argument and 3 locals), and allocating only for the
// smaller of the two would violate the invariant that bp <= rp <
// len(registers) after every instruction.
func (m *Machine) call(fnIdx, callerBp, lo, hi int) Value {
	if hi < lo {
		fault("invalid register range [%d, %d]", lo, hi)
	}
	n := hi - lo + 1

	fn := &m.module.Functions[fnIdx]
	locals := int(fn.Locals)
	if locals < 1 {
		// A function that references no registers still needs a window of
		// at least one slot to hold its Ret value computation.
		locals = 1
	}
	need := n
	if locals > need {
		need = locals
	}

	rp := m.rp
	m.grow(rp + need)
	for i := 0; i < n; i++ {
		m.registers[rp+i] = m.registers[callerBp+lo+i]
	}

	savedBp, savedRp := m.bp, m.rp
	m.bp, m.rp = rp, rp+need-1
	result := m.exec(fn)
	m.bp, m.rp = savedBp, savedRp
	return result
}

// grow ensures the register file holds at least need slots, resizing by a
// geometric ×1.5 factor (repeated as necessary) and filling new slots with
// Null. The register file never shrinks.
func (m *Machine) grow(need int) {
	if need <= len(m.registers) {
		return
	}
	size := len(m.registers)
	if size == 0 {
		size = initialRegisters
	}
	for size < need {
		grown := size + size/2
		if grown <= size {
			grown = need
		}
		size = grown
	}
	grown := make([]Value, size)
	copy(grown, m.registers)
	for i := len(m.registers); i < size; i++ {
		grown[i] = Null
	}
	m.registers = grown
}

// exec runs fn's fetch-decode-execute loop starting at instruction 0 until
// a Ret is reached, returning its value.
func (m *Machine) exec(fn *Function) Value {
	ip := 0
	for {
		if ip < 0 || ip >= len(fn.Instructions) {
			fault("instruction pointer %d out of range in function %q (%d instructions)", ip, fn.Name, len(fn.Instructions))
		}
		instr := fn.Instructions[ip]
		ip++

		switch instr.Op {
		case Move:
			m.setReg(instr.Operands[0], m.read(instr.Operands[1]))

		case Call:
			fnIdx := int(instr.Operands[0].FunctionIndex())
			if fnIdx < 0 || fnIdx >= len(m.module.Functions) {
				fault("call to undefined function %d", fnIdx)
			}
			lo := int(instr.Operands[2].Register())
			hi := int(instr.Operands[3].Register())
			result := m.call(fnIdx, m.bp, lo, hi)
			m.setReg(instr.Operands[1], result)

		case Ret:
			if instr.Operands[0].Kind == OperandNone {
				return Null
			}
			return m.read(instr.Operands[0])

		case Jmp:
			ip = int(instr.Operands[0].Position())

		case Jt:
			if m.read(instr.Operands[1]).IsTrue() {
				ip = int(instr.Operands[0].Position())
			}

		case Jf:
			if m.read(instr.Operands[1]).IsFalse() {
				ip = int(instr.Operands[0].Position())
			}

		case JLt, JLe, JGt, JGe, JEq, JNe:
			a := m.read(instr.Operands[1]).AsInt()
			b := m.read(instr.Operands[2]).AsInt()
			if compareInt(instr.Op, a, b) {
				ip = int(instr.Operands[0].Position())
			}

		case Lt, Le, Gt, Ge:
			dst := instr.Operands[0]
			a := m.read(dst).AsInt()
			b := m.read(instr.Operands[1]).AsInt()
			m.setReg(dst, Bool(compareInt(instr.Op, a, b)))

		case Eq, Ne:
			dst := instr.Operands[0]
			left := m.read(dst)
			right := m.read(instr.Operands[1])
			eq := left == right
			if instr.Op == Ne {
				eq = !eq
			}
			m.setReg(dst, Bool(eq))

		case Add, Sub, Mul, Div:
			dst := instr.Operands[0]
			left := m.read(dst)
			right := m.read(instr.Operands[1])
			m.setReg(dst, arith(instr.Op, left, right))

		case Mod:
			dst := instr.Operands[0]
			a := m.read(dst).AsInt()
			b := m.read(instr.Operands[1]).AsInt()
			if b == 0 {
				fault("integer modulo by zero")
			}
			m.setReg(dst, Int(int32(a%b)))

		case And, Or, Xor, Shl, Shr:
			dst := instr.Operands[0]
			a := m.read(dst).AsInt()
			b := m.read(instr.Operands[1]).AsInt()
			m.setReg(dst, Int(int32(bitwise(instr.Op, a, b))))

		case Not:
			dst := instr.Operands[0]
			a := m.read(dst).AsInt()
			m.setReg(dst, Int(int32(^a)))

		case Write:
			m.write(instr.Operands[0])

		default:
			fault("unimplemented opcode %s", instr.Op)
		}
	}
}

// compareInt applies op (one of Lt, Le, Gt, Ge, JLt, JLe, JGt, JGe, JEq,
// JNe) to the integer-coerced operands a and b.
func compareInt(op OpCode, a, b int64) bool {
	switch op {
	case Lt, JLt:
		return a < b
	case Le, JLe:
		return a <= b
	case Gt, JGt:
		return a > b
	case Ge, JGe:
		return a >= b
	case JEq:
		return a == b
	case JNe:
		return a != b
	default:
		fault("compareInt: not a comparison opcode %s", op)
		panic("unreachable")
	}
}

// arith applies a numeric-promoting binary operator: if either operand is a
// double, both are widened and the result is a double; otherwise both are
// treated as integers and the result is an integer. Division by zero in
// integer mode is a fatal fault; in double mode it follows IEEE-754 (yields
// +Inf/-Inf/NaN, canonicalized by Double).
func arith(op OpCode, left, right Value) Value {
	if left.IsDouble() || right.IsDouble() {
		a, b := left.AsNum(), right.AsNum()
		switch op {
		case Add:
			return Double(a + b)
		case Sub:
			return Double(a - b)
		case Mul:
			return Double(a * b)
		case Div:
			return Double(a / b)
		}
	}
	a, b := left.AsInt(), right.AsInt()
	switch op {
	case Add:
		return Int(int32(a + b))
	case Sub:
		return Int(int32(a - b))
	case Mul:
		return Int(int32(a * b))
	case Div:
		if b == 0 {
			fault("integer division by zero")
		}
		return Int(int32(a / b))
	}
	fault("arith: not an arithmetic opcode %s", op)
	panic("unreachable")
}

// bitwise applies an integer bitwise operator.
func bitwise(op OpCode, a, b int64) int64 {
	switch op {
	case And:
		return a & b
	case Or:
		return a | b
	case Xor:
		return a ^ b
	case Shl:
		return a << uint(b&63)
	case Shr:
		return a >> uint(b&63)
	default:
		fault("bitwise: not a bitwise opcode %s", op)
		panic("unreachable")
	}
}

// read produces the Value an Operand denotes in the current frame.
func (m *Machine) read(op Operand) Value {
	switch op.Kind {
	case OperandNone:
		return Null
	case OperandRegister:
		return m.registers[m.bp+int(op.Register())]
	case OperandImmediate:
		return Int(op.Immediate())
	case OperandFunction:
		return FunctionValue(uint32(op.FunctionIndex()))
	case OperandConstant:
		c := m.module.Constants[op.ConstantIndex()]
		if c.Kind == ConstantNumber {
			return Double(c.Number)
		}
		// No opcode consumes a string constant as a Value today; WRITE
		// special-cases ConstantString directly in m.write instead of
		// going through read.
		fault("constant %d is a string and has no Value representation", op.ConstantIndex())
		panic("unreachable")
	default:
		fault("operand %v cannot be read", op)
		panic("unreachable")
	}
}

// setReg writes v into the register op denotes in the current frame. op
// must be a register operand; every opcode that writes a result is
// assembled with a register destination slot.
func (m *Machine) setReg(op Operand, v Value) {
	if op.Kind != OperandRegister {
		fault("destination operand is not a register: %v", op)
	}
	m.registers[m.bp+int(op.Register())] = v
}

// write implements WRITE: a missing operand prints a blank line; a string
// constant prints its text directly (resolving the representation gap a
// string-typed Value would otherwise leave, since no opcode ever
// constructs one); anything else prints its Value.String() rendering.
func (m *Machine) write(op Operand) {
	switch {
	case op.Kind == OperandNone:
		fmt.Fprintln(m.out)
	case op.Kind == OperandConstant && m.module.Constants[op.ConstantIndex()].Kind == ConstantString:
		fmt.Fprintln(m.out, m.module.Constants[op.ConstantIndex()].Text)
	default:
		fmt.Fprintln(m.out, m.read(op).String())
	}
}
