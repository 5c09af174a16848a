// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"bakefile.org/core/internal/expr"
)

// Module is the scope corresponding to a single .bkl file: a child of
// Project, owning a variable environment, a source directory, source/header
// file lists and an ordered list of targets.
type Module struct {
	varEnv
	Project    *Project
	SourceFile string // path to the .bkl file this module was built from
	Srcdir     string
	Sources    []*SourceFile
	Headers    []*SourceFile
	Targets    []*Target
}

// NewModule creates an empty module under project, built from the .bkl file
// at sourceFile.
func NewModule(project *Project, sourceFile string) *Module {
	return &Module{
		varEnv:     newVarEnv(),
		Project:    project,
		SourceFile: sourceFile,
	}
}

func (m *Module) localGet(name string) (*Variable, bool) { return m.getLocal(name) }
func (m *Module) parentScope() scopeLink                  { return m.Project }

// GetVariable returns a variable local to this module only.
func (m *Module) GetVariable(name string) (*Variable, bool) { return m.getLocal(name) }

// ResolveVariable walks from this module toward the project root.
func (m *Module) ResolveVariable(name string) (*Variable, bool) { return resolveVariable(m, name) }

// ResolveVariableValue implements expr.Scope.
func (m *Module) ResolveVariableValue(name string) (expr.Expr, bool) {
	if v, ok := m.ResolveVariable(name); ok {
		return v.Value, true
	}
	return nil, false
}

// ScopeName implements expr.Scope.
func (m *Module) ScopeName() string { return fmt.Sprintf("module(%s)", m.SourceFile) }

// GetProp looks up a property registered for module scope.
func (m *Module) GetProp(name string) (*Property, bool) {
	if m.Project == nil || m.Project.Registry == nil {
		return nil, false
	}
	return m.Project.Registry.GetProp(KindModule, name)
}

// AddVariable adds v to the module's variable environment.
func (m *Module) AddVariable(v *Variable) { m.add(v) }

// AppendSource appends sf to the module's source-file list, preserving
// declaration order.
func (m *Module) AppendSource(sf *SourceFile) { m.Sources = append(m.Sources, sf) }

// AppendHeader appends sf to the module's header-file list, preserving
// declaration order.
func (m *Module) AppendHeader(sf *SourceFile) { m.Headers = append(m.Headers, sf) }

// AddTarget appends t to this module's target list (declaration order) and
// registers it project-wide. Callers must have already checked
// Project.HasTarget for uniqueness.
func (m *Module) AddTarget(t *Target) {
	m.Targets = append(m.Targets, t)
	m.Project.addTarget(t)
}
