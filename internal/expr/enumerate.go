// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"golang.org/x/exp/slices"

	"bakefile.org/core/internal/bklerr"
)

// AllValues expands a non-constant expression into every constant form it
// might take. Ported from all_possible_values() in
// original_source/src/bkl/expr.py; note it is an error to call this on a
// List (use AllElements instead, matching the Python assertion).
func AllValues(e Expr) ([]Expr, error) {
	switch v := e.(type) {
	case *List:
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "use AllElements() with lists (%s)", e), e.Pos())

	case *Literal:
		return []Expr{v}, nil

	case *Reference:
		val, err := v.GetValue()
		if err != nil {
			return nil, err
		}
		return AllValues(val)

	case *Concat:
		possibilities := make([][]Expr, len(v.Items))
		for i, it := range v.Items {
			vals, err := AllValues(it)
			if err != nil {
				return nil, err
			}
			possibilities[i] = vals
		}
		var out []Expr
		for _, combo := range cartesianProduct(possibilities) {
			out = append(out, NewConcat(slices.Clone(combo)))
		}
		return out, nil

	case *Path:
		possibilities := make([][]Expr, len(v.Components))
		for i, c := range v.Components {
			vals, err := AllValues(c)
			if err != nil {
				return nil, err
			}
			possibilities[i] = vals
		}
		var out []Expr
		for _, combo := range cartesianProduct(possibilities) {
			out = append(out, NewPath(slices.Clone(combo), v.Anchor))
		}
		return out, nil

	default:
		return nil, bklerr.WithPos(
			bklerr.New(bklerr.ParserError, "cannot determine all possible values of expression %q", e), e.Pos())
	}
}

// cartesianProduct computes the cartesian product of the given slices,
// preserving the order in which itertools.product would yield them.
func cartesianProduct(sets [][]Expr) [][]Expr {
	if len(sets) == 0 {
		return [][]Expr{{}}
	}
	rest := cartesianProduct(sets[1:])
	var out [][]Expr
	for _, v := range sets[0] {
		for _, r := range rest {
			combo := make([]Expr, 0, 1+len(r))
			combo = append(combo, v)
			combo = append(combo, r...)
			out = append(out, combo)
		}
	}
	return out
}

// AllElements yields deduplicated (by textual representation) elements of a
// List, dereferencing References encountered directly in the list and
// asserting no nested List remains (lists must already be flattened).
// Ported from all_possible_elements() in original_source/src/bkl/expr.py.
func AllElements(list *List) ([]Expr, error) {
	seen := newStringSet()
	var out []Expr
	for _, item := range list.Items {
		it := item
		if ref, ok := it.(*Reference); ok {
			val, err := ref.GetValue()
			if err != nil {
				return nil, err
			}
			it = val
		}
		if _, ok := it.(*List); ok {
			return nil, bklerr.WithPos(
				bklerr.New(bklerr.ParserError, "nested lists are supposed to be flattened by now"), it.Pos())
		}
		vals, err := AllValues(it)
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			key := v.String()
			if seen.Add(key) {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// stringSet dedups by textual form, for AllElements' requirement that
// elements with identical rendered text collapse to one.
type stringSet map[string]struct{}

func newStringSet() stringSet { return stringSet{} }

// Add adds s to the set, returning true if it wasn't present before.
func (s stringSet) Add(str string) bool {
	if _, ok := s[str]; ok {
		return false
	}
	s[str] = struct{}{}
	return true
}
