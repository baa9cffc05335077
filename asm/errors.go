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
	"fmt"
	"strings"
)

// maxErrors bounds how many diagnostics a single Assemble call collects
// before giving up on the source entirely, mirroring the teacher parser's
// own error-count cutoff.
const maxErrors = 10

// Diagnostic pairs an error with the source line it was raised at, or 0
// when no line applies. cmd/machina formats it as "ERROR [line]: message"
// or "ERROR: message" respectively.
type Diagnostic struct {
	Line int
	Err  error
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("ERROR [%d]: %s", d.Line, d.Err)
	}
	return fmt.Sprintf("ERROR: %s", d.Err)
}

// ErrAsm collects every Diagnostic raised while assembling one source,
// bounded at maxErrors entries. It implements error so it can be returned
// and compared against with errors.As.
type ErrAsm []Diagnostic

func (e ErrAsm) Error() string {
	lines := make([]string, len(e))
	for i, d := range e {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// ExpectedError reports that the parser needed one of a set of token kinds
// but found something else.
type ExpectedError struct {
	Expected string
	Found    string
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("expected %s, but found %s", e.Expected, e.Found)
}

// InvalidRegisterError reports a register operand whose text failed to
// parse as an unsigned 16-bit id.
type InvalidRegisterError struct {
	Text string
}

func (e *InvalidRegisterError) Error() string {
	return fmt.Sprintf("invalid register %q", e.Text)
}

// FunctionNotFoundError reports a reference to an undeclared function.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function %q not found", e.Name)
}

// TargetNotFoundError reports a jump or branch to an undeclared label.
type TargetNotFoundError struct {
	Label string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target with label %q not found", e.Label)
}

// DuplicateFunctionError reports a function name declared more than once.
// The distilled language spec leaves this an open question ("the reference
// silently overwrites... implementations should prefer an explicit
// error"); this implementation takes that suggestion.
type DuplicateFunctionError struct {
	Name string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("function %q already declared", e.Name)
}

// DuplicateLabelError reports a label declared more than once within the
// same function, for the same reason as DuplicateFunctionError.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("label %q already declared in this function", e.Label)
}

// ErrOutOfMemory reports that the assembler ran out of room while growing
// an internal table. It is never expected to be hit in practice (Go slices
// grow until the process runs out of address space) but is kept to match
// the runtime-stage OutOfMemory taxonomy entry.
var ErrOutOfMemory = fmt.Errorf("out of memory")
