// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"strings"

	"bakefile.org/core/internal/bklerr"
)

// Native is the runtime value produced by AsNative: a string, a bool (for
// BoolValue), a []Native, or nil (for Null).
type Native any

// AsNative evaluates e to a native Go value if e is constant, i.e. does not
// depend on any late-bound Reference, Bool or If node. It fails with a
// bklerr.Error of kind NonConstant otherwise, matching Expr.as_py() in
// original_source/src/bkl/expr.py.
func AsNative(e Expr, ctx Context) (Native, error) {
	switch v := e.(type) {
	case *Literal:
		return v.Value, nil

	case *BoolValue:
		return v.Value, nil

	case *List:
		out := make([]Native, len(v.Items))
		for i, it := range v.Items {
			n, err := AsNative(it, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil

	case *Concat:
		var b strings.Builder
		for _, it := range v.Items {
			n, err := AsNative(it, ctx)
			if err != nil {
				return nil, err
			}
			s, ok := n.(string)
			if !ok {
				return nil, bklerr.WithPos(bklerr.New(bklerr.NonConstant,
					"cannot concatenate non-scalar value %q", it), e.Pos())
			}
			b.WriteString(s)
		}
		return b.String(), nil

	case *Null:
		return nil, nil

	case *Path:
		// NOTE: does not account for the @srcdir/@top_srcdir anchor; it is
		// recorded on the node but ignored here (see DESIGN.md).
		sep := ctx.DirSep
		if sep == "" {
			sep = "/"
		}
		parts := make([]string, len(v.Components))
		for i, c := range v.Components {
			n, err := AsNative(c, ctx)
			if err != nil {
				return nil, err
			}
			s, ok := n.(string)
			if !ok {
				return nil, bklerr.WithPos(bklerr.New(bklerr.NonConstant,
					"path component %q is not a scalar", c), e.Pos())
			}
			parts[i] = s
		}
		return strings.Join(parts, sep), nil

	case *Reference, *Bool, *If:
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.NonConstant, "expression %q cannot be evaluated at configure time", e),
			e.Pos())

	default:
		return nil, bklerr.WithPos(bklerr.New(bklerr.NonConstant, "cannot evaluate %q", e), e.Pos())
	}
}
