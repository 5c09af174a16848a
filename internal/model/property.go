// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "bakefile.org/core/internal/expr"

// Kind identifies which scope kind a Property belongs to and which kind of
// ModelPart a PropertyRegistry lookup is performed against.
type Kind int

const (
	// KindProject identifies the project-root scope.
	KindProject Kind = iota
	// KindModule identifies a per-.bkl-file module scope.
	KindModule
	// KindTarget identifies a target scope.
	KindTarget
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindModule:
		return "module"
	case KindTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Property is a registered descriptor for a built-in, typed, named slot:
// name, type, owning scope kind, readonly flag, and a default expression
// that may be constant or computed from the scope it's being applied to.
// Spec §3, §6 ("Property registry: read-only").
type Property struct {
	Name     string
	Type     VarType
	Scope    Kind
	Readonly bool
	// Default computes the property's default expression for the given
	// scope. May ignore its argument for a constant default.
	Default func(scope expr.Scope) expr.Expr
}

// DefaultExpr evaluates p's default expression against scope.
func (p *Property) DefaultExpr(scope expr.Scope) expr.Expr {
	if p.Default == nil {
		return expr.NewNull()
	}
	return p.Default(scope)
}

// PropertyRegistry is the read-only collaborator the builder queries via
// GetProp. Concrete built-in definitions live in package registry; model
// only depends on this interface, since the registry is supplied by the
// surrounding system.
type PropertyRegistry interface {
	GetProp(scope Kind, name string) (*Property, bool)
}
