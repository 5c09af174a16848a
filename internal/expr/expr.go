// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr implements Bakefile's expression algebra: an immutable tree
// representation of every value and condition, with operations to evaluate,
// simplify, split and enumerate possible values.
//
// Ported from original_source/src/bkl/expr.py, extended with the Bool/If
// variants that original_source/src/bkl/interpreter/builder.py constructs
// (BoolExpr, IfExpr) but that live in bkl.expr in the real codebase.
package expr

import (
	"fmt"
	"strings"

	"bakefile.org/core/internal/bklerr"
)

// Scope is the minimal surface a model scope must expose for a Reference to
// be resolved. It is declared here (rather than depending on package model)
// so that Reference can hold a live handle into the model without expr
// importing model — model imports expr instead. See the "cyclic ownership"
// design note: a Reference is a (scope, name) pair into mutable model state
// that expr itself never mutates.
type Scope interface {
	// ResolveVariableValue returns the value Expr of the named variable,
	// walking from this scope toward the root. ok is false if no such
	// variable exists anywhere in the chain.
	ResolveVariableValue(name string) (val Expr, ok bool)
	// ScopeName is used only for error messages and String().
	ScopeName() string
}

// Anchor identifies the symbolic root a Path is relative to.
type Anchor int

const (
	// SRCDIR anchors a path to the owning module's source directory.
	SRCDIR Anchor = iota
	// TOPSRCDIR anchors a path to the top-level project source directory.
	TOPSRCDIR
)

func (a Anchor) String() string {
	if a == TOPSRCDIR {
		return "@top_srcdir"
	}
	return "@srcdir"
}

// BoolOp identifies a boolean operator.
type BoolOp int

const (
	AND BoolOp = iota
	OR
	NOT
	EQUAL
	NOTEQUAL
)

// Context carries the information needed to evaluate an expression to a
// native value: directory separator, current (relative, forward-slash)
// output directory, and top source directory. All may be empty if unknown.
type Context struct {
	DirSep  string
	OutDir  string
	TopDir  string
}

// Expr is the immutable tagged-variant expression tree. Every concrete
// variant below implements this interface. Nodes are never mutated in
// place: any change to an expression produces a new node.
type Expr interface {
	// Pos returns the source position this node was built from, if any.
	Pos() bklerr.Pos
	// WithPos returns a copy of the expression with the given position
	// attached (used by the builder when constructing nodes from AST).
	WithPos(p bklerr.Pos) Expr
	String() string

	isExpr()
}

type base struct {
	pos bklerr.Pos
}

func (b base) Pos() bklerr.Pos { return b.pos }

// ---- Literal ----

// Literal is a terminal constant string.
type Literal struct {
	base
	Value string
}

func NewLiteral(v string) *Literal { return &Literal{Value: v} }

func (e *Literal) isExpr() {}
func (e *Literal) String() string { return e.Value }
func (e *Literal) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- BoolValue ----

// BoolValue is a terminal boolean.
type BoolValue struct {
	base
	Value bool
}

func NewBoolValue(v bool) *BoolValue { return &BoolValue{Value: v} }

func (e *BoolValue) isExpr() {}
func (e *BoolValue) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BoolValue) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- List ----

// List is a homogeneous collection. Lists are never nested: the builder is
// responsible for flattening before constructing a List.
type List struct {
	base
	Items []Expr
}

func NewList(items []Expr) *List { return &List{Items: items} }

func (e *List) isExpr() {}
func (e *List) String() string {
	parts := make([]string, len(e.Items))
	for i, it := range e.Items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (e *List) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- Concat ----

// Concat is string-level concatenation of at least one item.
type Concat struct {
	base
	Items []Expr
}

// NewConcat panics if items is empty: Concat must have at least one child.
func NewConcat(items []Expr) *Concat {
	if len(items) == 0 {
		panic("expr: Concat requires at least one item")
	}
	return &Concat{Items: items}
}

func (e *Concat) isExpr() {}
func (e *Concat) String() string {
	parts := make([]string, len(e.Items))
	for i, it := range e.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, "")
}
func (e *Concat) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- Null ----

// Null is the unset-value sentinel.
type Null struct {
	base
}

func NewNull() *Null { return &Null{} }

func (e *Null) isExpr() {}
func (e *Null) String() string { return "null" }
func (e *Null) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- Reference ----

// Reference is a late-bound lookup against a model scope.
type Reference struct {
	base
	Var   string
	Scope Scope
}

func NewReference(name string, scope Scope) *Reference {
	return &Reference{Var: name, Scope: scope}
}

func (e *Reference) isExpr() {}
func (e *Reference) String() string { return fmt.Sprintf("$(%s)", e.Var) }
func (e *Reference) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// GetValue resolves the referenced variable's value. It returns a
// *bklerr.Error of kind ParserError if the reference cannot be resolved,
// with the reference's own position attached.
func (e *Reference) GetValue() (Expr, error) {
	val, ok := e.Scope.ResolveVariableValue(e.Var)
	if !ok {
		err := bklerr.New(bklerr.ParserError, "unknown variable %q", e.Var)
		return nil, bklerr.WithPos(err, e.pos)
	}
	return val, nil
}

// ---- Path ----

// Path is a file path composed of component expressions.
type Path struct {
	base
	Components []Expr
	Anchor     Anchor
}

func NewPath(components []Expr, anchor Anchor) *Path {
	return &Path{Components: components, Anchor: anchor}
}

func (e *Path) isExpr() {}
func (e *Path) String() string {
	parts := make([]string, len(e.Components))
	for i, c := range e.Components {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s/%s", e.Anchor, strings.Join(parts, "/"))
}
func (e *Path) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- Bool ----

// Bool is a boolean operation: AND/OR/NOT/EQUAL/NOT_EQUAL. NOT is unary
// (Right is nil).
type Bool struct {
	base
	Op    BoolOp
	Left  Expr
	Right Expr // nil for NOT
}

func NewBool(op BoolOp, left, right Expr) *Bool {
	return &Bool{Op: op, Left: left, Right: right}
}

func (e *Bool) isExpr() {}
func (e *Bool) String() string {
	switch e.Op {
	case NOT:
		return fmt.Sprintf("!(%s)", e.Left)
	case AND:
		return fmt.Sprintf("(%s && %s)", e.Left, e.Right)
	case OR:
		return fmt.Sprintf("(%s || %s)", e.Left, e.Right)
	case EQUAL:
		return fmt.Sprintf("(%s == %s)", e.Left, e.Right)
	case NOTEQUAL:
		return fmt.Sprintf("(%s != %s)", e.Left, e.Right)
	default:
		return "<bad bool op>"
	}
}
func (e *Bool) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }

// ---- If ----

// If is a conditional value: cond selects between yes and no.
type If struct {
	base
	Cond Expr
	Yes  Expr
	No   Expr
}

func NewIf(cond, yes, no Expr) *If {
	return &If{Cond: cond, Yes: yes, No: no}
}

func (e *If) isExpr() {}
func (e *If) String() string {
	return fmt.Sprintf("if (%s) then %s else %s", e.Cond, e.Yes, e.No)
}
func (e *If) WithPos(p bklerr.Pos) Expr { c := *e; c.pos = p; return &c }
