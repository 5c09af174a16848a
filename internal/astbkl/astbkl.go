// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astbkl defines the AST node contract the parser (the concrete
// grammar and lexer are an external collaborator) hands to the builder.
// Node names are ported 1:1 from the `from ..parser.ast import *` surface
// that original_source/src/bkl/interpreter/builder.py consumes.
package astbkl

import "bakefile.org/core/internal/bklerr"

// Node is any AST node the builder can dispatch on.
type Node interface {
	Position() bklerr.Pos
}

type nodeBase struct {
	Pos bklerr.Pos
}

func (n nodeBase) Position() bklerr.Pos { return n.Pos }

// ---- Statement-level nodes (builder._ast_dispatch) ----

// AssignmentNode is a plain "var = value" statement.
type AssignmentNode struct {
	nodeBase
	Var   string
	Value ExprNode
}

// AppendNode is a "var += value" statement. Identical shape to
// AssignmentNode; kept as a distinct type because the builder dispatches on
// Go type, exactly mirroring Python's class-keyed dispatch table.
type AppendNode struct {
	nodeBase
	Var   string
	Value ExprNode
}

// FilesListNode is a "sources { ... }" or "headers { ... }" statement.
type FilesListNode struct {
	nodeBase
	Kind  string // "sources" or "headers"
	Files ExprNode
}

// TargetNode declares a target: `type name { ... }`.
type TargetNode struct {
	nodeBase
	Name    Ident
	Type    Ident
	Content []Node
}

// Ident is a named token carrying its own position (e.g. node.name.text /
// node.type.text in the Python AST).
type Ident struct {
	Text string
	Pos  bklerr.Pos
}

// IfNode is a conditional block: `if (cond) { ... }`.
type IfNode struct {
	nodeBase
	Cond    ExprNode
	Content []Node
}

// ConfigurationNode declares a configuration: `configuration Name : Base { ... }`.
type ConfigurationNode struct {
	nodeBase
	Name    string
	Base    string // "" if not derived
	Content []Node
}

// SubmoduleNode is a `submodule "file.bkl"` statement.
type SubmoduleNode struct {
	nodeBase
	File string
}

// SrcdirNode is a `srcdir path` statement.
type SrcdirNode struct {
	nodeBase
	Srcdir string
}

// NilNode is a no-op node (e.g. a stray comment/empty statement the parser
// chose to represent explicitly rather than omit).
type NilNode struct {
	nodeBase
}

// ---- Expression-level nodes (builder._build_expression) ----

// ExprNode is any AST node that denotes a value or condition.
type ExprNode interface {
	Node
	isExprNode()
}

type exprNodeBase struct{ nodeBase }

func (exprNodeBase) isExprNode() {}

// LiteralNode is a literal string token.
type LiteralNode struct {
	exprNodeBase
	Text string
}

// BoolvalNode is a literal boolean token.
type BoolvalNode struct {
	exprNodeBase
	Value bool
}

// VarReferenceNode is a `$(name)` reference.
type VarReferenceNode struct {
	exprNodeBase
	Var string
}

// ListNode is a `[a, b, c]`-style list literal.
type ListNode struct {
	exprNodeBase
	Values []ExprNode
}

// ConcatNode is implicit/explicit string concatenation, e.g. `foo$(bar).cpp`.
type ConcatNode struct {
	exprNodeBase
	Values []ExprNode
}

// BoolNode is the common shape of the boolean-operator nodes below.
type BoolNode interface {
	ExprNode
	isBoolNode()
}

type boolNodeBase struct{ exprNodeBase }

func (boolNodeBase) isBoolNode() {}

// NotNode is unary negation: `!left`.
type NotNode struct {
	boolNodeBase
	Left ExprNode
}

// AndNode is `left && right`.
type AndNode struct {
	boolNodeBase
	Left, Right ExprNode
}

// OrNode is `left || right`.
type OrNode struct {
	boolNodeBase
	Left, Right ExprNode
}

// EqualNode is `left == right`.
type EqualNode struct {
	boolNodeBase
	Left, Right ExprNode
}

// NotEqualNode is `left != right`.
type NotEqualNode struct {
	boolNodeBase
	Left, Right ExprNode
}

// ModuleNode is the root AST node the parser produces for one .bkl file.
type ModuleNode struct {
	nodeBase
	Children []Node
}
