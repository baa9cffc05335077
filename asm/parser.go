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
	"strings"

	"github.com/go-machina/machina/lexer"
	"github.com/go-machina/machina/vm"
)

var mnemonicOf = map[lexer.Kind]vm.OpCode{
	lexer.Call: vm.Call, lexer.Ret: vm.Ret, lexer.Move: vm.Move, lexer.Jmp: vm.Jmp,
	lexer.Jt: vm.Jt, lexer.Jf: vm.Jf,
	lexer.JLt: vm.JLt, lexer.JLe: vm.JLe, lexer.JGt: vm.JGt, lexer.JGe: vm.JGe,
	lexer.JEq: vm.JEq, lexer.JNe: vm.JNe,
	lexer.Lt: vm.Lt, lexer.Le: vm.Le, lexer.Gt: vm.Gt, lexer.Ge: vm.Ge,
	lexer.Eq: vm.Eq, lexer.Ne: vm.Ne,
	lexer.Add: vm.Add, lexer.Sub: vm.Sub, lexer.Mul: vm.Mul, lexer.Div: vm.Div, lexer.Mod: vm.Mod,
	lexer.Not: vm.Not, lexer.And: vm.And, lexer.Or: vm.Or, lexer.Xor: vm.Xor,
	lexer.Shl: vm.Shl, lexer.Shr: vm.Shr,
	lexer.Write: vm.Write,
}

// slotSpec describes one operand slot's acceptable PreOperandKinds.
// optional only has meaning for a signature's single slot (Ret, Write):
// the whole operand may be absent.
type slotSpec struct {
	kinds    []PreOperandKind
	optional bool
}

var (
	kRegister = []PreOperandKind{PreRegister}
	kLabel    = []PreOperandKind{PreLabelRef}
	kFunction = []PreOperandKind{PreFunctionRef}
	// kValue is what §4.2 calls "Operand": a Register, Number, or String.
	kValue = []PreOperandKind{PreRegister, PreNumber, PreString}
)

// signatures encodes the operand-count and kind table from §4.2. Write is
// widened from the table's bare "optional Register" to the full kValue set:
// this is the resolution of §9's open question about WRITE on a string
// constant — rather than leaving the case unreachable, a string literal
// operand is accepted and printed directly (see Machine.write).
var signatures = map[vm.OpCode][]slotSpec{
	vm.Call: {{kinds: kFunction}, {kinds: kRegister}, {kinds: kRegister}, {kinds: kRegister}},
	vm.Move: {{kinds: kRegister}, {kinds: kValue}},
	vm.Jmp:  {{kinds: kLabel}},
	vm.Jt:   {{kinds: kLabel}, {kinds: kRegister}},
	vm.Jf:   {{kinds: kLabel}, {kinds: kRegister}},
	vm.JLt:  {{kinds: kLabel}, {kinds: kRegister}, {kinds: kValue}},
	vm.JLe:  {{kinds: kLabel}, {kinds: kRegister}, {kinds: kValue}},
	vm.JGt:  {{kinds: kLabel}, {kinds: kRegister}, {kinds: kValue}},
	vm.JGe:  {{kinds: kLabel}, {kinds: kRegister}, {kinds: kValue}},
	vm.JEq:  {{kinds: kLabel}, {kinds: kRegister}, {kinds: kValue}},
	vm.JNe:  {{kinds: kLabel}, {kinds: kRegister}, {kinds: kValue}},
	vm.Lt:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Le:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Gt:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Ge:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Eq:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Ne:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Add:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Sub:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Mul:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Div:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Mod:  {{kinds: kRegister}, {kinds: kValue}},
	vm.And:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Or:   {{kinds: kRegister}, {kinds: kValue}},
	vm.Xor:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Shl:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Shr:  {{kinds: kRegister}, {kinds: kValue}},
	vm.Not:  {{kinds: kRegister}},
	vm.Ret:  {{kinds: kRegister, optional: true}},
	vm.Write: {{kinds: kValue, optional: true}},
}

func describeKinds(kinds []PreOperandKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		switch k {
		case PreRegister:
			names[i] = "register"
		case PreNumber:
			names[i] = "number"
		case PreString:
			names[i] = "string"
		case PreFunctionRef:
			names[i] = "function"
		case PreLabelRef:
			names[i] = "label"
		default:
			names[i] = "operand"
		}
	}
	return strings.Join(names, " or ")
}

func tokenOperandKind(kind lexer.Kind) (PreOperandKind, bool) {
	switch kind {
	case lexer.Register:
		return PreRegister, true
	case lexer.Number:
		return PreNumber, true
	case lexer.String:
		return PreString, true
	case lexer.Function:
		return PreFunctionRef, true
	case lexer.Label:
		return PreLabelRef, true
	default:
		return PreNone, false
	}
}

func containsKind(kinds []PreOperandKind, k PreOperandKind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// parser implements the assembler's parse phase: a recursive-descent walk
// over the lexer's token stream producing []PreFunction, collecting
// diagnostics (bounded at maxErrors) instead of stopping at the first one.
// After a function-level error, it skips forward to the next @ token so one
// mistake doesn't cascade past its own function.
type parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	val  string
	errs ErrAsm
}

func newParser(src string) *parser {
	p := &parser{lex: lexer.New(src)}
	p.advance()
	return p
}

func (p *parser) advance() {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			p.fail(lexErrorLine(err), err)
			continue
		}
		p.tok = tok
		p.val = p.lex.TakeValue()
		return
	}
}

func lexErrorLine(err error) int {
	switch e := err.(type) {
	case *lexer.InvalidCharacterError:
		return e.Line
	case *lexer.InvalidInstructionError:
		return e.Line
	case *lexer.UnterminatedStringError:
		return e.Line
	case *lexer.InvalidEscapeCharacterError:
		return e.Line
	default:
		return 0
	}
}

// fail records a diagnostic (dropping it silently past maxErrors) and
// returns err so callers can write `return zero, p.fail(line, err)`.
func (p *parser) fail(line int, err error) error {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Diagnostic{Line: line, Err: err})
	}
	return err
}

func (p *parser) skipEOLs() {
	for p.tok.Kind == lexer.EOL {
		p.advance()
	}
}

// recover skips tokens up to the next function start (or end of input),
// bounding how far one parse error cascades.
func (p *parser) recover() {
	for p.tok.Kind != lexer.Function && p.tok.Kind != lexer.EOF {
		p.advance()
	}
}

func (p *parser) parse() ([]PreFunction, error) {
	p.skipEOLs()
	var functions []PreFunction
	for p.tok.Kind != lexer.EOF && len(p.errs) < maxErrors {
		if p.tok.Kind != lexer.Function {
			p.fail(p.tok.Line, &ExpectedError{Expected: "function", Found: p.tok.String()})
			p.recover()
			continue
		}
		fn, err := p.parseFunction()
		if err != nil {
			p.recover()
			continue
		}
		functions = append(functions, fn)
		p.skipEOLs()
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return functions, nil
}

func (p *parser) parseFunction() (PreFunction, error) {
	line := p.tok.Line
	name := p.val
	p.advance() // consume @name

	if p.tok.Kind != lexer.EOL {
		return PreFunction{}, p.fail(line, &ExpectedError{Expected: "end of line", Found: p.tok.String()})
	}
	p.skipEOLs()

	var blocks []PreBlock
	for p.tok.Kind != lexer.Function && p.tok.Kind != lexer.EOF {
		block, err := p.parseBlock(len(blocks) == 0)
		if err != nil {
			return PreFunction{}, err
		}
		blocks = append(blocks, block)
		p.skipEOLs()
	}

	if len(blocks) == 0 {
		return PreFunction{}, p.fail(line, &ExpectedError{Expected: "function body", Found: p.tok.String()})
	}
	return PreFunction{Name: name, Line: line, Blocks: blocks}, nil
}

func (p *parser) parseBlock(first bool) (PreBlock, error) {
	label := mainBlockLabel
	line := p.tok.Line

	if p.tok.Kind == lexer.Label {
		label = p.val
		line = p.tok.Line
		p.advance()
		if p.tok.Kind != lexer.EOL {
			return PreBlock{}, p.fail(line, &ExpectedError{Expected: "end of line", Found: p.tok.String()})
		}
		p.skipEOLs()
	} else if !first {
		return PreBlock{}, p.fail(line, &ExpectedError{Expected: "label or function", Found: p.tok.String()})
	}

	var instructions []PreInstruction
	for {
		if _, ok := mnemonicOf[p.tok.Kind]; !ok {
			break
		}
		ins, err := p.parseInstruction()
		if err != nil {
			return PreBlock{}, err
		}
		instructions = append(instructions, ins)
		p.skipEOLs()
	}
	return PreBlock{Label: label, Line: line, Instructions: instructions}, nil
}

func (p *parser) parseInstruction() (PreInstruction, error) {
	op := mnemonicOf[p.tok.Kind]
	line := p.tok.Line
	p.advance()

	sig := signatures[op]
	operands := make([]PreOperand, 0, len(sig))
	for i, slot := range sig {
		if p.tok.Kind == lexer.EOL || p.tok.Kind == lexer.EOF {
			if slot.optional {
				break
			}
			return PreInstruction{}, p.fail(line, &ExpectedError{Expected: describeKinds(slot.kinds), Found: p.tok.String()})
		}

		got, ok := tokenOperandKind(p.tok.Kind)
		if !ok || !containsKind(slot.kinds, got) {
			return PreInstruction{}, p.fail(p.tok.Line, &ExpectedError{Expected: describeKinds(slot.kinds), Found: p.tok.String()})
		}
		operands = append(operands, PreOperand{Kind: got, Text: p.val, Line: p.tok.Line})
		p.advance()

		if i < len(sig)-1 {
			if p.tok.Kind != lexer.Comma {
				return PreInstruction{}, p.fail(line, &ExpectedError{Expected: ",", Found: p.tok.String()})
			}
			p.advance()
		}
	}

	if p.tok.Kind == lexer.Comma {
		return PreInstruction{}, p.fail(line, &ExpectedError{Expected: "end of line", Found: p.tok.String()})
	}
	if p.tok.Kind != lexer.EOL && p.tok.Kind != lexer.EOF {
		return PreInstruction{}, p.fail(line, &ExpectedError{Expected: "end of line", Found: p.tok.String()})
	}

	return PreInstruction{Op: op, Line: line, Operands: operands}, nil
}
