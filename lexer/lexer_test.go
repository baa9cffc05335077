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

package lexer

import "testing"

func nextToken(t *testing.T, l *Lexer) (Token, string) {
	t.Helper()
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return tok, l.TakeValue()
}

func TestLexInstruction(t *testing.T) {
	l := New("CALL")
	tok, _ := nextToken(t, l)
	if tok.Kind != Call {
		t.Fatalf("Kind = %v, want Call", tok.Kind)
	}
}

func TestLexRegister(t *testing.T) {
	l := New("MOVE %0, 1")
	nextToken(t, l)
	tok, val := nextToken(t, l)
	if tok.Kind != Register || val != "0" {
		t.Fatalf("got (%v, %q), want (Register, \"0\")", tok.Kind, val)
	}
}

func TestLexLabel(t *testing.T) {
	l := New(".L0")
	tok, val := nextToken(t, l)
	if tok.Kind != Label || val != "L0" {
		t.Fatalf("got (%v, %q), want (Label, \"L0\")", tok.Kind, val)
	}
}

func TestLexFunction(t *testing.T) {
	l := New("@entrypoint")
	tok, val := nextToken(t, l)
	if tok.Kind != Function || val != "entrypoint" {
		t.Fatalf("got (%v, %q), want (Function, \"entrypoint\")", tok.Kind, val)
	}
}

func TestLexCompleteInstruction(t *testing.T) {
	l := New("ADD %0, 1")
	add, _ := nextToken(t, l)
	reg, regVal := nextToken(t, l)
	nextToken(t, l) // comma
	num, numVal := nextToken(t, l)

	if add.Kind != Add {
		t.Fatalf("add.Kind = %v, want Add", add.Kind)
	}
	if reg.Kind != Register || regVal != "0" {
		t.Fatalf("reg = (%v, %q)", reg.Kind, regVal)
	}
	if num.Kind != Number || numVal != "1" {
		t.Fatalf("num = (%v, %q)", num.Kind, numVal)
	}
}

func TestLexNumber(t *testing.T) {
	l := New("MOVE %0, 42")
	nextToken(t, l)
	nextToken(t, l)
	nextToken(t, l) // comma
	tok, val := nextToken(t, l)
	if tok.Kind != Number || val != "42" {
		t.Fatalf("got (%v, %q), want (Number, \"42\")", tok.Kind, val)
	}
}

func TestLexFloatNumber(t *testing.T) {
	l := New("MOVE %0, 3.14519")
	nextToken(t, l)
	nextToken(t, l)
	nextToken(t, l) // comma
	tok, val := nextToken(t, l)
	if tok.Kind != Number || val != "3.14519" {
		t.Fatalf("got (%v, %q), want (Number, \"3.14519\")", tok.Kind, val)
	}
}

func TestLexSignedNumber(t *testing.T) {
	l := New("MOVE %0, -7")
	nextToken(t, l)
	nextToken(t, l)
	nextToken(t, l) // comma
	tok, val := nextToken(t, l)
	if tok.Kind != Number || val != "-7" {
		t.Fatalf("got (%v, %q), want (Number, \"-7\")", tok.Kind, val)
	}
}

func TestLexSimpleString(t *testing.T) {
	l := New(`MOVE %0, "Hello, World"`)
	nextToken(t, l)
	nextToken(t, l)
	nextToken(t, l) // comma
	tok, val := nextToken(t, l)
	if tok.Kind != String || val != "Hello, World" {
		t.Fatalf("got (%v, %q), want (String, \"Hello, World\")", tok.Kind, val)
	}
}

func TestLexStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\"d"`)
	tok, val := nextToken(t, l)
	if tok.Kind != String {
		t.Fatalf("Kind = %v, want String", tok.Kind)
	}
	if want := "a\nb\tc\"d"; val != want {
		t.Fatalf("value = %q, want %q", val, want)
	}
}

func TestLexUnrecognizedEscapePassesThrough(t *testing.T) {
	l := New(`"a\zb"`)
	tok, val := nextToken(t, l)
	if tok.Kind != String {
		t.Fatalf("Kind = %v, want String", tok.Kind)
	}
	if want := `a\zb`; val != want {
		t.Fatalf("value = %q, want %q", val, want)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	_, err := l.Next()
	if _, ok := err.(*UnterminatedStringError); !ok {
		t.Fatalf("err = %v, want *UnterminatedStringError", err)
	}
}

func TestLexInvalidInstruction(t *testing.T) {
	l := New("frobnicate")
	_, err := l.Next()
	if _, ok := err.(*InvalidInstructionError); !ok {
		t.Fatalf("err = %v, want *InvalidInstructionError", err)
	}
}

func TestLexInvalidCharacter(t *testing.T) {
	l := New("$")
	_, err := l.Next()
	if _, ok := err.(*InvalidCharacterError); !ok {
		t.Fatalf("err = %v, want *InvalidCharacterError", err)
	}
}

func TestLexComplete(t *testing.T) {
	src := "\n\n  @entrypoint\n    MOVE  %0, 1\n    MOVE  %1, 2\n    ADD   %0, %1\n    RET   %0\n"
	l := New(src)

	want := []Kind{
		EOL, EOL,
		Function, EOL,
		Move, Register, Comma, Number, EOL,
		Move, Register, Comma, Number, EOL,
		Add, Register, Comma, Register, EOL,
		Ret, Register, EOL,
	}

	var got []Kind
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Kind == EOF {
			break
		}
		got = append(got, tok.Kind)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexLineTracking(t *testing.T) {
	l := New("MOVE %0, 1\nMOVE %1, 2\n")
	var eols []int
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Kind == EOF {
			break
		}
		if tok.Kind == EOL {
			eols = append(eols, tok.Line)
		}
	}
	if len(eols) != 2 || eols[0] != 1 || eols[1] != 2 {
		t.Fatalf("eols = %v, want [1 2]", eols)
	}
}
