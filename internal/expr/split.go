// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"strings"

	"bakefile.org/core/internal/bklerr"
)

// Split splits e into a sequence of expressions using sep as the delimiter
// character. Works with literals, references and concatenations, re-splicing
// across Concat boundaries so that the final segment of one child and the
// first of the next merge into a single Concat. Ported from split() in
// original_source/src/bkl/expr.py.
func Split(e Expr, sep byte) ([]Expr, error) {
	switch v := e.(type) {
	case *Literal:
		parts := strings.Split(v.Value, string(sep))
		out := make([]Expr, len(parts))
		for i, p := range parts {
			out[i] = NewLiteral(p)
		}
		return out, nil

	case *Reference:
		val, err := v.GetValue()
		if err != nil {
			return nil, err
		}
		return Split(val, sep)

	case *Concat:
		var out []Expr
		for _, it := range v.Items {
			itOut, err := Split(it, sep)
			if err != nil {
				return nil, err
			}
			if len(out) > 0 {
				// Join the two lists on the concatenation boundary: the
				// last segment so far and the first segment of itOut merge.
				merged := NewConcat([]Expr{out[len(out)-1], itOut[0]})
				out = append(append([]Expr{}, out[:len(out)-1]...), merged)
				out = append(out, itOut[1:]...)
			} else {
				out = itOut
			}
		}
		return out, nil

	default:
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.CannotSplit, "don't know how to split expression %q with separator %q", e, string(sep)),
			e.Pos())
	}
}
