// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dumpmodel

import (
	"strings"
	"testing"

	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/expr"
	"bakefile.org/core/internal/model"
)

func TestDumpIncludesModuleTargetAndVariable(t *testing.T) {
	project := model.NewProject(nil)
	project.AddVariable(model.NewVariable("TOP", expr.NewLiteral("v")))

	mod := model.NewModule(project, "a.bkl")
	mod.AddVariable(model.NewVariable("NAME", expr.NewLiteral("hello")))
	mod.AppendSource(model.NewSourceFile(expr.NewLiteral("a.c")))

	tgt := model.NewTarget(mod, "app", "program", bklerr.Pos{})
	tgt.SetCondition(expr.NewBoolValue(true))
	mod.AddTarget(tgt)
	project.AddModule(mod)

	out := Dump(project)
	for _, want := range []string{"TOP", "a.bkl", "NAME", "hello", "app", "program", "a.c"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump output missing %q:\n%s", want, out)
		}
	}
}

func TestDumpOmitsConditionWhenUnset(t *testing.T) {
	project := model.NewProject(nil)
	mod := model.NewModule(project, "a.bkl")
	tgt := model.NewTarget(mod, "app", "program", bklerr.Pos{})
	mod.AddTarget(tgt)
	project.AddModule(mod)

	out := Dump(project)
	if strings.Contains(out, "Condition") {
		t.Errorf("Dump with no conditions set rendered a Condition field:\n%s", out)
	}
}

func TestDumpIncludesConfigurations(t *testing.T) {
	project := model.NewProject(nil)
	out := Dump(project)
	if !strings.Contains(out, "Debug") || !strings.Contains(out, "Release") {
		t.Errorf("Dump of an empty project missing the predefined configurations:\n%s", out)
	}
}
