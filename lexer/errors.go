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

import "fmt"

// InvalidCharacterError reports a source byte outside the lexer's alphabet.
type InvalidCharacterError struct {
	Char rune
	Line int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q", e.Char)
}

// InvalidInstructionError reports a mnemonic not present in the opcode
// table.
type InvalidInstructionError struct {
	Word string
	Line int
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction %q", e.Word)
}

// UnterminatedStringError reports end of input or a literal newline before a
// string literal's closing quote.
type UnterminatedStringError struct {
	Line int
}

func (e *UnterminatedStringError) Error() string {
	return "unterminated string"
}

// InvalidEscapeCharacterError is part of the lex-stage error taxonomy but is
// never raised by this lexer: an unrecognized escape sequence inside a
// string literal passes through verbatim (the backslash followed by the
// literal character) per the operational scanning rule, rather than
// failing. The type is kept so callers pattern-matching on the full lex
// error taxonomy compile against a complete set.
type InvalidEscapeCharacterError struct {
	Char rune
	Line int
}

func (e *InvalidEscapeCharacterError) Error() string {
	return fmt.Sprintf("invalid escape character %q", e.Char)
}
