// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bklerr

import (
	"errors"
	"testing"
)

func TestErrorStringOmitsParserErrorKindPrefix(t *testing.T) {
	e := New(ParserError, "bad thing")
	if got, want := e.Error(), "bad thing"; got != want {
		t.Errorf("Error() = %q, want %q (ParserError kind is the default, not shown)", got, want)
	}
}

func TestErrorStringIncludesOtherKinds(t *testing.T) {
	e := New(LoadError, "corrupt")
	if got, want := e.Error(), "load error: corrupt"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorStringIncludesPosition(t *testing.T) {
	e := &Error{Kind: ParserError, Pos: Pos{Filename: "a.bkl", Line: 3}, Msg: "oops"}
	if got, want := e.Error(), "a.bkl:3: oops"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPosStringVariants(t *testing.T) {
	for _, tc := range []struct {
		pos  Pos
		want string
	}{
		{Pos{}, ""},
		{Pos{Filename: "a.bkl"}, "a.bkl"},
		{Pos{Filename: "a.bkl", Line: 3}, "a.bkl:3"},
		{Pos{Filename: "a.bkl", Line: 3, Column: 4}, "a.bkl:3:4"},
		{Pos{Line: 3}, "3"},
	} {
		if got := tc.pos.String(); got != tc.want {
			t.Errorf("Pos%+v.String() = %q, want %q", tc.pos, got, tc.want)
		}
	}
}

func TestWithPosAttachesOnlyWhenMissing(t *testing.T) {
	e := New(ParserError, "oops")
	wrapped := WithPos(e, Pos{Filename: "a.bkl", Line: 1})
	be := wrapped.(*Error)
	if be.Pos.Filename != "a.bkl" {
		t.Fatalf("WithPos on a position-less error: Pos = %+v, want a.bkl:1", be.Pos)
	}

	wrappedAgain := WithPos(wrapped, Pos{Filename: "b.bkl", Line: 99})
	be2 := wrappedAgain.(*Error)
	if be2.Pos.Filename != "a.bkl" {
		t.Errorf("WithPos on an already-positioned error: Pos = %+v, want unchanged a.bkl:1", be2.Pos)
	}
}

func TestWithPosWrapsPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	wrapped := WithPos(plain, Pos{Filename: "a.bkl", Line: 1})
	be, ok := wrapped.(*Error)
	if !ok {
		t.Fatalf("WithPos(plain error) = %T, want *Error", wrapped)
	}
	if be.Kind != ParserError || be.Msg != "boom" {
		t.Errorf("WithPos(plain error) = %+v, want ParserError wrapping %q", be, "boom")
	}
	if errors.Unwrap(wrapped) != plain {
		t.Error("WithPos(plain error) does not unwrap back to the original")
	}
}

func TestWithPosNilIsNil(t *testing.T) {
	if WithPos(nil, Pos{Line: 1}) != nil {
		t.Error("WithPos(nil, ...) != nil")
	}
}

func TestAnnotatefOnlyTouchesNonNilError(t *testing.T) {
	var err error
	Annotatef(&err, "g(%s)", "arg")
	if err != nil {
		t.Errorf("Annotatef on a nil error produced one: %v", err)
	}

	err = errors.New("my error")
	Annotatef(&err, "g(%s)", "arg")
	if got, want := err.Error(), "g(arg): my error"; got != want {
		t.Errorf("Annotatef: err = %q, want %q", got, want)
	}
}
