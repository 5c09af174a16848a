// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "bakefile.org/core/internal/expr"

// Variable is a named, typed, valued slot in a scope's variable
// environment. Ported from Variable in original_source's bkl.model (used,
// not defined, by builder.py).
type Variable struct {
	Name  string
	Value expr.Expr
	Type  VarType
}

// NewVariable creates a free-assignment variable (AnyType) with the given
// value.
func NewVariable(name string, value expr.Expr) *Variable {
	return &Variable{Name: name, Value: value, Type: AnyType}
}

// NewVariableTyped creates a variable with an explicit type, used when
// seeding from a previous value or a property default.
func NewVariableTyped(name string, value expr.Expr, t VarType) *Variable {
	return &Variable{Name: name, Value: value, Type: t}
}

// FromProperty creates a variable seeded from a registered property: its
// type equals the property's type and its value is the given expression
// (property default, or Null to be overwritten on first assignment).
func FromProperty(p *Property, value expr.Expr) *Variable {
	return &Variable{Name: p.Name, Value: value, Type: p.Type}
}

// SetValue replaces the variable's value. Variables are mutated in place by
// the builder (unlike Expr nodes, which are immutable); this is the single
// point where an assignment takes effect.
func (v *Variable) SetValue(val expr.Expr) { v.Value = val }
