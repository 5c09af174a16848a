// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"bakefile.org/core/internal/astbkl"
	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/expr"
)

// buildExpression constructs an expr.Expr from an AST expression node in the
// builder's current context. Ported from Builder._build_expression.
func (b *Builder) buildExpression(ast astbkl.ExprNode) (expr.Expr, error) {
	var e expr.Expr
	switch n := ast.(type) {
	case *astbkl.LiteralNode:
		e = expr.NewLiteral(n.Text)
	case *astbkl.BoolvalNode:
		e = expr.NewBoolValue(n.Value)
	case *astbkl.VarReferenceNode:
		e = expr.NewReference(n.Var, b.context)
	case *astbkl.ListNode:
		items, err := b.buildExpressionList(n.Values)
		if err != nil {
			return nil, err
		}
		e = expr.NewList(items)
	case *astbkl.ConcatNode:
		items, err := b.buildExpressionList(n.Values)
		if err != nil {
			return nil, err
		}
		e = expr.NewConcat(items)
	case astbkl.BoolNode:
		var err error
		e, err = b.buildBoolExpression(n)
		if err != nil {
			return nil, err
		}
	default:
		return nil, bklerr.New(bklerr.ParserError, "unrecognized AST node (%T)", ast)
	}
	return e.WithPos(ast.Position()), nil
}

func (b *Builder) buildExpressionList(nodes []astbkl.ExprNode) ([]expr.Expr, error) {
	out := make([]expr.Expr, len(nodes))
	for i, n := range nodes {
		e, err := b.buildExpression(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// buildBoolExpression constructs the Bool variants: NOT is unary, the rest
// binary. Ported from Builder._build_bool_expression.
func (b *Builder) buildBoolExpression(ast astbkl.BoolNode) (expr.Expr, error) {
	switch n := ast.(type) {
	case *astbkl.NotNode:
		left, err := b.buildExpression(n.Left)
		if err != nil {
			return nil, err
		}
		return expr.NewBool(expr.NOT, left, nil), nil
	case *astbkl.AndNode:
		return b.buildBinaryBool(expr.AND, n.Left, n.Right)
	case *astbkl.OrNode:
		return b.buildBinaryBool(expr.OR, n.Left, n.Right)
	case *astbkl.EqualNode:
		return b.buildBinaryBool(expr.EQUAL, n.Left, n.Right)
	case *astbkl.NotEqualNode:
		return b.buildBinaryBool(expr.NOTEQUAL, n.Left, n.Right)
	default:
		return nil, bklerr.New(bklerr.ParserError, "unrecognized boolean AST node (%T)", ast)
	}
}

func (b *Builder) buildBinaryBool(op expr.BoolOp, leftAST, rightAST astbkl.ExprNode) (expr.Expr, error) {
	left, err := b.buildExpression(leftAST)
	if err != nil {
		return nil, err
	}
	right, err := b.buildExpression(rightAST)
	if err != nil {
		return nil, err
	}
	return expr.NewBool(op, left, right), nil
}
