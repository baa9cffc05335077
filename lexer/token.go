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

// Package lexer turns Machina source text into a stream of Tokens,
// detaching string/number/identifier payloads so Tokens themselves stay
// small and cheap to copy. See Lexer for the take-value side channel used
// to retrieve a payload.
package lexer

import "fmt"

// Kind identifies what a Token represents.
type Kind uint8

const (
	// EOF is returned forever once the source is exhausted.
	EOF Kind = iota
	// EOL marks a newline; the lexer emits one per source line ending.
	EOL

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma

	// Label, Register, Function, String, and Number tokens carry a
	// payload retrievable exactly once via Lexer.TakeValue.
	Label
	Register
	Function
	String
	Number

	// Instruction mnemonics, one Kind per opcode.
	Call
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

var kindNames = map[Kind]string{
	EOF: "end of file", EOL: "end of line",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Comma: ",",
	Label: "label", Register: "register", Function: "function",
	String: "string", Number: "number",
	Call: "call", Ret: "ret", Move: "move", Jmp: "jmp",
	Jt: "jt", Jf: "jf",
	JLt: "jlt", JLe: "jle", JGt: "jgt", JGe: "jge", JEq: "jeq", JNe: "jne",
	Lt: "lt", Le: "le", Gt: "gt", Ge: "ge", Eq: "eq", Ne: "ne",
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	Not: "not", And: "and", Or: "or", Xor: "xor", Shl: "shl", Shr: "shr",
	Write: "write",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// mnemonics maps a lower-cased instruction word to its Kind. It is a
// literal table kept separately from kindNames; the two spell each
// instruction the same way.
var mnemonics = map[string]Kind{
	"call": Call, "ret": Ret, "move": Move, "jmp": Jmp,
	"jt": Jt, "jf": Jf,
	"jlt": JLt, "jle": JLe, "jgt": JGt, "jge": JGe, "jeq": JEq, "jne": JNe,
	"lt": Lt, "le": Le, "gt": Gt, "ge": Ge, "eq": Eq, "ne": Ne,
	"add": Add, "sub": Sub, "mul": Mul, "div": Div, "mod": Mod,
	"not": Not, "and": And, "or": Or, "xor": Xor, "shl": Shl, "shr": Shr,
	"write": Write,
}

// lookupMnemonic returns the Kind for a lower-cased instruction word and
// whether it was recognized.
func lookupMnemonic(word string) (Kind, bool) {
	k, ok := mnemonics[word]
	return k, ok
}

// Token is a single lexical unit: a Kind plus the source line it started
// on. Payload-bearing tokens (Label, Register, Function, String, Number)
// leave their text in the Lexer until TakeValue is called.
type Token struct {
	Kind Kind
	Line int
}

func (t Token) String() string {
	return t.Kind.String()
}
