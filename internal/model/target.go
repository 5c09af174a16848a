// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/expr"
)

// Target is a child scope of Module: a unique id (unique across the whole
// Project), a target-type tag, a variable environment, and an optional
// condition expression.
type Target struct {
	varEnv
	ID         string
	Type       string
	Module     *Module
	Condition  expr.Expr // nil if unconditional
	SourcePos  bklerr.Pos
}

// NewTarget creates a target with the given id and type under module.
func NewTarget(module *Module, id, targetType string, pos bklerr.Pos) *Target {
	return &Target{
		varEnv:    newVarEnv(),
		ID:        id,
		Type:      targetType,
		Module:    module,
		SourcePos: pos,
	}
}

func (t *Target) localGet(name string) (*Variable, bool) { return t.getLocal(name) }
func (t *Target) parentScope() scopeLink                  { return t.Module }

// GetVariable returns a variable local to this target only.
func (t *Target) GetVariable(name string) (*Variable, bool) { return t.getLocal(name) }

// ResolveVariable walks from this target toward the project root.
func (t *Target) ResolveVariable(name string) (*Variable, bool) { return resolveVariable(t, name) }

// ResolveVariableValue implements expr.Scope.
func (t *Target) ResolveVariableValue(name string) (expr.Expr, bool) {
	if v, ok := t.ResolveVariable(name); ok {
		return v.Value, true
	}
	return nil, false
}

// ScopeName implements expr.Scope.
func (t *Target) ScopeName() string { return fmt.Sprintf("target(%s)", t.ID) }

// GetProp looks up a property registered for target scope.
func (t *Target) GetProp(name string) (*Property, bool) {
	if t.Module == nil || t.Module.Project == nil || t.Module.Project.Registry == nil {
		return nil, false
	}
	return t.Module.Project.Registry.GetProp(KindTarget, name)
}

// AddVariable adds v to the target's variable environment.
func (t *Target) AddVariable(v *Variable) { t.add(v) }

// SetCondition sets the target's _condition expression.
func (t *Target) SetCondition(c expr.Expr) { t.Condition = c }
