// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import "bakefile.org/core/internal/expr"

// condValue pairs a possibly-nil per-element condition with its value.
type condValue struct {
	cond  expr.Expr
	value expr.Expr
}

// enumPossibleValues expands list into its individual elements (via
// expr.AllElements), each paired with globalCond as an outer filter — the
// active condition at the point the files-list statement appears applies
// uniformly to every element it contributes.
func enumPossibleValues(list *expr.List, globalCond expr.Expr) ([]condValue, error) {
	elements, err := expr.AllElements(list)
	if err != nil {
		return nil, err
	}
	out := make([]condValue, len(elements))
	for i, e := range elements {
		out[i] = condValue{cond: globalCond, value: e}
	}
	return out, nil
}
