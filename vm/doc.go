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

// Package vm implements the Machina virtual machine: a NaN-boxed value
// representation, the bytecode types produced by package asm, and a
// register-windowed interpreter that executes a linked Module.
//
// A Module is a flat, immutable collection of Functions and a Constant pool.
// Machine.Run drives a fetch-decode-execute loop over a register file shared
// across all call frames; frames are identified only by a base pointer (bp)
// and a register-pointer high-water mark (rp), never allocated individually.
// See Machine for the calling convention.
//
// Machina has no garbage-collected heap: the pointer tag in Value is
// reserved for a future heap object system and is never produced by any
// opcode today.
package vm
