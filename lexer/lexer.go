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

import (
	"strings"
)

// Lexer scans Machina source text into Tokens with a two-character
// lookahead, tracking line numbers for diagnostics. Payload-bearing tokens
// (Label, Register, Function, String, Number) leave their text available
// through TakeValue, which must be called before the next call to Next —
// requesting it twice, or not at all, loses the value.
type Lexer struct {
	src        []rune
	pos        int
	curr, peek rune
	line       int
	value      string
}

const eof = -1

// New returns a Lexer positioned at the start of src, line 1.
func New(src string) *Lexer {
	l := &Lexer{src: []rune(src), line: 1}
	l.advance()
	l.advance()
	return l
}

func (l *Lexer) advance() rune {
	c := l.curr
	l.curr = l.peek
	if l.pos < len(l.src) {
		l.peek = l.src[l.pos]
		l.pos++
	} else {
		l.peek = eof
	}
	return c
}

func isAlpha(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isLetter(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// Next returns the next Token. Once the source is exhausted it returns EOF
// forever.
func (l *Lexer) Next() (Token, error) {
	for {
		switch {
		case l.curr == ' ' || l.curr == '\t' || l.curr == '\r':
			l.skipSpace()
			continue
		case l.curr == ';':
			l.skipComment()
			continue
		case l.curr == '\n':
			line := l.line
			l.line++
			l.advance()
			return Token{Kind: EOL, Line: line}, nil
		case l.curr == '.':
			return l.identifier(Label)
		case l.curr == '%':
			return l.identifier(Register)
		case l.curr == '@':
			return l.identifier(Function)
		case isLetter(l.curr):
			return l.instruction()
		case isDigit(l.curr):
			return l.number(false)
		case (l.curr == '+' || l.curr == '-') && isDigit(l.peek):
			return l.number(true)
		case l.curr == '"':
			return l.string()
		case l.curr == ',':
			return l.single(Comma)
		case l.curr == '(':
			return l.single(LParen)
		case l.curr == ')':
			return l.single(RParen)
		case l.curr == '{':
			return l.single(LBrace)
		case l.curr == '}':
			return l.single(RBrace)
		case l.curr == '[':
			return l.single(LBracket)
		case l.curr == ']':
			return l.single(RBracket)
		case l.curr == eof:
			return Token{Kind: EOF, Line: l.line}, nil
		default:
			line := l.line
			c := l.curr
			l.advance()
			return Token{}, &InvalidCharacterError{Char: c, Line: line}
		}
	}
}

// TakeValue returns and clears the payload left by the most recently
// returned Label, Register, Function, String, or Number token.
func (l *Lexer) TakeValue() string {
	v := l.value
	l.value = ""
	return v
}

func (l *Lexer) single(k Kind) (Token, error) {
	line := l.line
	l.advance()
	return Token{Kind: k, Line: line}, nil
}

func (l *Lexer) skipSpace() {
	for l.curr == ' ' || l.curr == '\t' || l.curr == '\r' {
		l.advance()
	}
}

func (l *Lexer) skipComment() {
	for l.curr != '\n' && l.curr != eof {
		l.advance()
	}
}

func (l *Lexer) instruction() (Token, error) {
	line := l.line
	var b strings.Builder
	for isLetter(l.curr) {
		b.WriteRune(l.advance())
	}
	word := b.String()
	if k, ok := lookupMnemonic(strings.ToLower(word)); ok {
		return Token{Kind: k, Line: line}, nil
	}
	return Token{}, &InvalidInstructionError{Word: word, Line: line}
}

func (l *Lexer) identifier(kind Kind) (Token, error) {
	line := l.line
	l.advance() // marker: '.', '%', or '@'
	var b strings.Builder
	for isAlpha(l.curr) {
		b.WriteRune(l.advance())
	}
	l.value = b.String()
	return Token{Kind: kind, Line: line}, nil
}

func (l *Lexer) number(signed bool) (Token, error) {
	line := l.line
	var b strings.Builder
	if signed {
		b.WriteRune(l.advance())
	}
	for isDigit(l.curr) {
		b.WriteRune(l.advance())
	}
	if l.curr == '.' && isDigit(l.peek) {
		b.WriteRune(l.advance())
		for isDigit(l.curr) {
			b.WriteRune(l.advance())
		}
	}
	l.value = b.String()
	return Token{Kind: Number, Line: line}, nil
}

var escapes = map[rune]rune{
	'\\': '\\', '\'': '\'', '"': '"',
	'n': '\n', 'r': '\r', 't': '\t',
	'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
}

func (l *Lexer) string() (Token, error) {
	line := l.line
	l.advance() // opening quote
	var b strings.Builder
	for {
		switch l.curr {
		case '\\':
			l.advance()
			if r, ok := escapes[l.curr]; ok {
				b.WriteRune(r)
				l.advance()
			} else if l.curr == eof {
				b.WriteRune('\\')
			} else {
				b.WriteRune('\\')
				b.WriteRune(l.advance())
			}
		case '"':
			l.advance()
			l.value = b.String()
			return Token{Kind: String, Line: line}, nil
		case '\n', eof:
			return Token{}, &UnterminatedStringError{Line: line}
		default:
			b.WriteRune(l.advance())
		}
	}
}
