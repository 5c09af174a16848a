// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "bakefile.org/core/internal/expr"

// SourceFile carries a path expression and an optional condition. One is
// appended per possible element of a `sources`/`headers` file list.
type SourceFile struct {
	Path      expr.Expr
	Condition expr.Expr // nil if unconditional
}

// NewSourceFile creates a SourceFile for the given path expression.
func NewSourceFile(path expr.Expr) *SourceFile {
	return &SourceFile{Path: path}
}

// SetCondition sets the source file's _condition expression.
func (s *SourceFile) SetCondition(c expr.Expr) { s.Condition = c }
