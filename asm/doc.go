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

// Package asm assembles Machina source text into a linked vm.Module.
//
// Assembly happens in two phases. The parse phase (parser.go) turns a
// token stream into a per-function list of labeled blocks holding
// PreInstructions — still textual, operands not yet resolved. The link
// phase (linker.go) walks that list once, resolving labels to instruction
// positions, function names to indices, and literal operands to either
// immediates or constant-pool entries, producing the flat vm.Module the
// machine executes.
//
// Grammar:
//
//	module   := function+
//	function := @name EOL block+
//	block     := (.label EOL)? instruction+
//	ins       := mnemonic operand ("," operand)* EOL
//
// The first block of a function carries the implicit label "<main>".
//
// A parse error is not immediately fatal: the parser reports it, then skips
// tokens up to the next @ (the start of a function), bounding how far one
// mistake cascades and letting a single run surface more than one error, up
// to maxErrors. Assemble returns all collected errors as an ErrAsm if any
// function failed to parse or link cleanly.
package asm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/go-machina/machina/vm"
)

// Assemble reads Machina source from r and returns the linked Module it
// compiles to. name is used only to label errors (conventionally the
// source file's path).
func Assemble(name string, r io.Reader) (*vm.Module, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read failed", name)
	}

	p := newParser(string(src))
	functions, err := p.parse()
	if err != nil {
		return nil, err
	}

	module, err := link(functions)
	if err != nil {
		return nil, err
	}
	return module, nil
}
