// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dumpmodel implements the --dump-model diagnostic: it renders a
// finished *model.Project tree as a human-readable tree instead of running
// it through the generation pipeline, using
// github.com/kylelemons/godebug/pretty for structural debug output.
package dumpmodel

import (
	"github.com/kylelemons/godebug/pretty"

	"bakefile.org/core/internal/expr"
	"bakefile.org/core/internal/model"
)

// variable is a flattened, exported view of a model.Variable suitable for
// reflection-based pretty printing (model.Variable's Value field is an
// expr.Expr interface; we render it to its string form up front rather than
// make pretty.Print descend into the expression tree's unexported fields).
type variable struct {
	Name  string
	Type  string
	Value string
}

type sourceFile struct {
	Path      string
	Condition string `pretty:",omitempty"`
}

type target struct {
	ID        string
	Type      string
	Condition string `pretty:",omitempty"`
	Variables []variable
}

type module struct {
	SourceFile string
	Srcdir     string `pretty:",omitempty"`
	Variables  []variable
	Sources    []sourceFile
	Headers    []sourceFile
	Targets    []target
}

type configuration struct {
	Name string
	Base string `pretty:",omitempty"`
}

type project struct {
	Variables      []variable
	Configurations []configuration
	Modules        []module
}

func condString(c expr.Expr) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func renderVariables(vs []*model.Variable) []variable {
	out := make([]variable, len(vs))
	for i, v := range vs {
		out[i] = variable{Name: v.Name, Type: varTypeName(v.Type), Value: v.Value.String()}
	}
	return out
}

func varTypeName(t model.VarType) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func renderSourceFiles(sfs []*model.SourceFile) []sourceFile {
	out := make([]sourceFile, len(sfs))
	for i, sf := range sfs {
		out[i] = sourceFile{Path: sf.Path.String(), Condition: condString(sf.Condition)}
	}
	return out
}

func renderTarget(t *model.Target) target {
	return target{
		ID:        t.ID,
		Type:      t.Type,
		Condition: condString(t.Condition),
		Variables: renderVariables(t.Variables()),
	}
}

func renderModule(m *model.Module) module {
	targets := make([]target, len(m.Targets))
	for i, t := range m.Targets {
		targets[i] = renderTarget(t)
	}
	return module{
		SourceFile: m.SourceFile,
		Srcdir:     m.Srcdir,
		Variables:  renderVariables(m.Variables()),
		Sources:    renderSourceFiles(m.Sources),
		Headers:    renderSourceFiles(m.Headers),
		Targets:    targets,
	}
}

func renderProject(p *model.Project) project {
	cfgs := p.Configurations()
	configs := make([]configuration, len(cfgs))
	for i, c := range cfgs {
		configs[i] = configuration{Name: c.Name, Base: c.Base}
	}
	modules := make([]module, len(p.Modules))
	for i, m := range p.Modules {
		modules[i] = renderModule(m)
	}
	return project{
		Variables:      renderVariables(p.Variables()),
		Configurations: configs,
		Modules:        modules,
	}
}

// Dump renders p as a multi-line indented tree, in the style
// github.com/kylelemons/godebug/pretty produces for test diffs and debug
// logging elsewhere in the pack. Zero-valued fields (unset conditions, an
// empty Srcdir or Base) are left out.
func Dump(p *model.Project) string {
	return (&pretty.Config{SkipZeroFields: true}).Sprint(renderProject(p))
}
