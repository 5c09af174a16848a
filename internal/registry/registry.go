// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry provides the built-in property definitions treated as an
// external, read-only registry by the core pipeline. Real back-ends would
// extend this table per toolset; this package supplies the small set of
// properties every scope kind needs regardless of back-end.
//
// Modeled as a static package-level table built by a var initializer.
package registry

import (
	"bakefile.org/core/internal/expr"
	"bakefile.org/core/internal/model"
)

// Default is the built-in property registry.
var Default model.PropertyRegistry = &table{props: defaultProps()}

type table struct {
	props map[model.Kind]map[string]*model.Property
}

func (t *table) GetProp(scope model.Kind, name string) (*model.Property, bool) {
	m, ok := t.props[scope]
	if !ok {
		return nil, false
	}
	p, ok := m[name]
	return p, ok
}

func defaultProps() map[model.Kind]map[string]*model.Property {
	constDefault := func(e expr.Expr) func(expr.Scope) expr.Expr {
		return func(expr.Scope) expr.Expr { return e }
	}

	props := map[model.Kind]map[string]*model.Property{
		model.KindProject: {
			"name": {
				Name: "name", Type: model.Scalar{Name: "string"}, Scope: model.KindProject,
				Default: constDefault(expr.NewLiteral("")),
			},
		},
		model.KindModule: {
			"deps": {
				Name: "deps", Type: model.ListType(model.Scalar{Name: "id"}), Scope: model.KindModule,
				Default: constDefault(expr.NewList(nil)),
			},
		},
		model.KindTarget: {
			"id": {
				Name: "id", Type: model.Scalar{Name: "id"}, Scope: model.KindTarget, Readonly: true,
			},
			"deps": {
				Name: "deps", Type: model.ListType(model.Scalar{Name: "id"}), Scope: model.KindTarget,
				Default: constDefault(expr.NewList(nil)),
			},
			"libs": {
				Name: "libs", Type: model.ListType(model.Scalar{Name: "string"}), Scope: model.KindTarget,
				Default: constDefault(expr.NewList(nil)),
			},
			"includedirs": {
				Name: "includedirs", Type: model.ListType(model.Scalar{Name: "path"}), Scope: model.KindTarget,
				Default: constDefault(expr.NewList(nil)),
			},
			"defines": {
				Name: "defines", Type: model.ListType(model.Scalar{Name: "string"}), Scope: model.KindTarget,
				Default: constDefault(expr.NewList(nil)),
			},
			"outputdir": {
				Name: "outputdir", Type: model.Scalar{Name: "path"}, Scope: model.KindTarget,
				Default: constDefault(expr.NewNull()),
			},
		},
	}
	return props
}
