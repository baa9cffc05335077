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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/go-machina/machina/asm"
	"github.com/go-machina/machina/vm"
)

const version = "0.1.0"

func usage() {
	fmt.Printf("Machina v %s\n", version)
	fmt.Println("Use 'machina <file name>' to compile and/or execute a file")
}

// atExit prints a diagnostic for a non-nil error and sets the process exit
// code, mirroring the teacher's deferred atExit: a batch of assembler
// Diagnostics prints one "ERROR [line]: message" line per entry, anything
// else prints a single "ERROR: message" line.
func atExit(err error) {
	if err == nil {
		return
	}
	if diags, ok := errors.Cause(err).(asm.ErrAsm); ok {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		return
	}

	f, openErr := os.Open(args[0])
	if openErr != nil {
		err = errors.Wrapf(openErr, "%s", args[0])
		return
	}
	defer f.Close()

	module, asmErr := asm.Assemble(args[0], f)
	if asmErr != nil {
		err = asmErr
		return
	}

	m := vm.NewMachine(module)
	if _, runErr := m.Run(0); runErr != nil {
		err = runErr
		return
	}
}
