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
	"math"
	"testing"
)

func TestBooleans(t *testing.T) {
	if !True.IsTrue() || True.IsFalse() {
		t.Fatalf("True: IsTrue=%v IsFalse=%v", True.IsTrue(), True.IsFalse())
	}
	if !False.IsFalse() || False.IsTrue() {
		t.Fatalf("False: IsTrue=%v IsFalse=%v", False.IsTrue(), False.IsFalse())
	}
	if Bool(true) != True || Bool(false) != False {
		t.Fatalf("Bool constructor mismatch")
	}
}

func TestNumbers(t *testing.T) {
	d := Double(3.5)
	if !d.IsDouble() {
		t.Fatalf("Double(3.5) is not IsDouble")
	}
	if d.AsDouble() != 3.5 {
		t.Fatalf("AsDouble() = %v, want 3.5", d.AsDouble())
	}

	i := Int(-7)
	if !i.IsInt() {
		t.Fatalf("Int(-7) is not IsInt")
	}
	if i.AsInt32() != -7 {
		t.Fatalf("AsInt32() = %d, want -7", i.AsInt32())
	}
}

func TestNaNCanonicalization(t *testing.T) {
	n := Double(math.NaN())
	if n != NaN {
		t.Fatalf("Double(NaN) = %#x, want canonical NaN %#x", uint64(n), uint64(NaN))
	}
	if n.IsDouble() {
		t.Fatalf("canonical NaN must not satisfy IsDouble (it sits at the tag boundary)")
	}
}

func TestChar(t *testing.T) {
	c := Char('λ')
	if !c.IsChar() {
		t.Fatalf("Char('λ') is not IsChar")
	}
	if c.AsChar() != 'λ' {
		t.Fatalf("AsChar() = %q, want 'λ'", c.AsChar())
	}
}

func TestIntPositiveNegative(t *testing.T) {
	for _, v := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32} {
		got := Int(v).AsInt32()
		if got != v {
			t.Fatalf("Int(%d).AsInt32() = %d", v, got)
		}
	}
}

func TestNulls(t *testing.T) {
	if !Null.IsNull() {
		t.Fatalf("Null is not IsNull")
	}
	if Value(0).IsNull() {
		t.Fatalf("zero Value must not be Null (it is a double: +0.0)")
	}
}

func TestPointers(t *testing.T) {
	p := Pointer(0xdead_beef)
	if !p.IsPointer() {
		t.Fatalf("Pointer is not IsPointer")
	}
	if p.AsPointerBits() != 0xdead_beef {
		t.Fatalf("AsPointerBits() = %#x, want 0xdeadbeef", p.AsPointerBits())
	}
}

func TestEquality(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int", Int(5), Int(5), true},
		{"different int", Int(5), Int(6), false},
		{"same double", Double(1.5), Double(1.5), true},
		{"int vs double same magnitude", Int(1), Double(1.0), false},
		{"same char", Char('a'), Char('a'), true},
		{"same bool", True, True, true},
		{"true vs false", True, False, false},
		{"same null", Null, Null, true},
	}
	for _, c := range cases {
		if got := c.a == c.b; got != c.want {
			t.Errorf("%s: (%v == %v) = %v, want %v", c.name, c.a, c.b, got, c.want)
		}
	}
}

func TestAsIntCoercion(t *testing.T) {
	if Int(42).AsInt() != 42 {
		t.Fatalf("AsInt on integer tag failed")
	}
	if Double(42.9).AsInt() != 42 {
		t.Fatalf("AsInt on double must truncate toward zero")
	}
	if Double(-42.9).AsInt() != -42 {
		t.Fatalf("AsInt on negative double must truncate toward zero")
	}
}

func TestAsNumCoercion(t *testing.T) {
	if Double(1.25).AsNum() != 1.25 {
		t.Fatalf("AsNum on double tag failed")
	}
	if Int(3).AsNum() != 3.0 {
		t.Fatalf("AsNum on integer tag must widen")
	}
}

func TestStringRendering(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(42), "42"},
		{Int(-1), "-1"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Null, "null"},
		{Char('x'), "x"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("(%#x).String() = %q, want %q", uint64(c.v), got, c.want)
		}
	}
}
