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

import (
	"fmt"
	"math"
)

// Value is a NaN-boxed 64-bit word. The high 16 bits carry a tag; anything
// whose raw bits are strictly less than nanTag is an IEEE-754 double. All
// other tags pack their payload in the low 32 or 48 bits.
type Value uint64

const (
	nanTag   Value = 0xfff8_0000_0000_0000
	intTag   Value = 0xfff9_0000_0000_0000
	charTag  Value = 0xfffa_0000_0000_0000
	ptrTag   Value = 0xfffb_0000_0000_0000
	funcTag  Value = 0xfffc_0000_0000_0000
	trueTag  Value = 0xfffd_0000_0000_0000
	falseTag Value = 0xfffe_0000_0000_0000
	nullTag  Value = 0xffff_0000_0000_0000

	tagMask    Value = 0xffff_0000_0000_0000
	payload32  Value = 0x0000_0000_ffff_ffff
	ptrPayload Value = 0x0000_ffff_ffff_ffff
)

// Null is the canonical null value.
var Null = Value(nullTag)

// True and False are the canonical boolean values.
var (
	True  = Value(trueTag)
	False = Value(falseTag)
)

// NaN is the canonical quiet-NaN sentinel; any double produced by VM
// arithmetic that happens to be NaN is canonicalized to this exact word so
// its bit pattern never collides with a tagged value.
var NaN = Value(nanTag)

// Int returns an integer-tagged Value holding i.
func Int(i int32) Value {
	return intTag | Value(uint32(i))
}

// Double returns a double-tagged Value holding f, canonicalizing any NaN
// payload to the single quiet-NaN sentinel.
func Double(f float64) Value {
	if math.IsNaN(f) {
		return NaN
	}
	return Value(math.Float64bits(f))
}

// Char returns a character-tagged Value holding the Unicode scalar r.
func Char(r rune) Value {
	return charTag | Value(uint32(r))
}

// Bool returns True or False.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Pointer returns a pointer-tagged Value holding the low 48 bits of addr.
// No opcode in this VM currently dereferences a pointer-tagged value; the
// tag is reserved for a future heap object system.
func Pointer(addr uint64) Value {
	return ptrTag | (Value(addr) & ptrPayload)
}

// FunctionValue returns a function-tagged Value holding the function index idx.
func FunctionValue(idx uint32) Value {
	return funcTag | Value(idx)
}

// IsDouble reports whether v holds an IEEE-754 double.
func (v Value) IsDouble() bool { return v < nanTag }

// IsInt reports whether v holds a 32-bit signed integer.
func (v Value) IsInt() bool { return v&tagMask == intTag }

// IsChar reports whether v holds a Unicode scalar.
func (v Value) IsChar() bool { return v&tagMask == charTag }

// IsPointer reports whether v holds a raw pointer.
func (v Value) IsPointer() bool { return v&tagMask == ptrTag }

// IsFunction reports whether v holds a function index.
func (v Value) IsFunction() bool { return v&tagMask == funcTag }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v == Null }

// IsTrue reports whether v is the tagged-true value.
func (v Value) IsTrue() bool { return v == True }

// IsFalse reports whether v is the tagged-false value.
func (v Value) IsFalse() bool { return v == False }

// AsDouble returns the double payload of v without checking its tag.
func (v Value) AsDouble() float64 { return math.Float64frombits(uint64(v)) }

// AsInt32 returns the low 32 bits of v sign-extended, without checking its
// tag.
func (v Value) AsInt32() int32 { return int32(uint32(v & payload32)) }

// AsChar returns the Unicode scalar payload of v without checking its tag.
func (v Value) AsChar() rune { return rune(uint32(v & payload32)) }

// AsPointerBits returns the low 48 bits of v without checking its tag.
func (v Value) AsPointerBits() uint64 { return uint64(v & ptrPayload) }

// AsFunctionIndex returns the function index payload of v without checking
// its tag.
func (v Value) AsFunctionIndex() uint32 { return uint32(v & payload32) }

// AsInt coerces v to an integer: an integer tag is returned as-is (sign
// extended); a double is truncated toward zero. Any other tag panics — this
// VM does not type-check statically, so ill-typed coercions are a runtime
// fault by design.
func (v Value) AsInt() int64 {
	switch {
	case v.IsInt():
		return int64(v.AsInt32())
	case v.IsDouble():
		return int64(v.AsDouble())
	default:
		fault("cannot coerce %s into an integer", v)
		panic("unreachable")
	}
}

// AsNum coerces v to a double: a double is returned as-is; an integer is
// widened. Any other tag panics.
func (v Value) AsNum() float64 {
	switch {
	case v.IsDouble():
		return v.AsDouble()
	case v.IsInt():
		return float64(v.AsInt32())
	default:
		fault("cannot coerce %s into a number", v)
		panic("unreachable")
	}
}

// IsTruthy reports whether v is the tagged-true value; every non-boolean
// value is not truthy (integers and doubles are never implicitly truthy).
func (v Value) IsTruthy() bool { return v.IsTrue() }

// String renders v using the textual format WRITE produces: integers as
// decimal, doubles in Go's default float format, booleans as true/false,
// characters as a single rune, null as "null", and pointers as 0x followed
// by the hex address.
func (v Value) String() string {
	switch {
	case v.IsDouble():
		return fmt.Sprintf("%v", v.AsDouble())
	case v.IsInt():
		return fmt.Sprintf("%d", v.AsInt32())
	case v.IsChar():
		return string(v.AsChar())
	case v.IsPointer():
		return fmt.Sprintf("0x%x", v.AsPointerBits())
	case v.IsFunction():
		return fmt.Sprintf("@%d", v.AsFunctionIndex())
	case v.IsNull():
		return "null"
	case v.IsTrue():
		return "true"
	case v.IsFalse():
		return "false"
	default:
		return "nan"
	}
}
