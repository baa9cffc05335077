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

// Fault is the panic payload raised by the interpreter on a runtime
// violation: an ill-typed coercion or operand kind, an invalid call
// register range, a call to an undefined function index, an instruction
// pointer past the end of a function, or integer division or modulo by
// zero. Register and constant indices are not range-checked; an
// out-of-range one raises an ordinary Go runtime panic instead.
// Machine.Run recovers a Fault (and any other panic reaching the dispatch
// loop) exactly once, at the top, and converts it to an error.
type Fault struct {
	msg string
}

func (f *Fault) Error() string { return f.msg }

// fault panics with a Fault built from the given format string, the same
// way the teacher's interpreter favors an immediate panic over threading an
// error return through every instruction case.
func fault(format string, args ...interface{}) {
	panic(&Fault{msg: fmt.Sprintf(format, args...)})
}
