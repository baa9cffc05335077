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

// The machina command line tool assembles and runs a single Machina source
// file.
//
// Usage:
//
//	machina <file>
//
// With no arguments it prints a version banner and a one-line usage
// message and exits 0. Given a file, it reads, assembles, and runs it,
// starting from the first function declared in the source. Assembly
// errors are printed one per line as "ERROR [line]: <message>" (or "ERROR:
// <message>" when no source line applies) and abort before the module
// runs; a runtime fault is printed the same way and aborts execution at
// the offending instruction. Either case exits with a non-zero status;
// a successful run exits 0.
package main
