// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"context"
	"testing"

	"bakefile.org/core/internal/astbkl"
	"bakefile.org/core/internal/bklerr"
	"bakefile.org/core/internal/ignorelist"
	"bakefile.org/core/internal/model"
	"bakefile.org/core/internal/registry"
)

func lit(s string) *astbkl.LiteralNode { return &astbkl.LiteralNode{Text: s} }

func assign(name string, v astbkl.ExprNode) *astbkl.AssignmentNode {
	return &astbkl.AssignmentNode{Var: name, Value: v}
}

func appendNode(name string, v astbkl.ExprNode) *astbkl.AppendNode {
	return &astbkl.AppendNode{Var: name, Value: v}
}

func newModuleAST(children ...astbkl.Node) *astbkl.ModuleNode {
	return &astbkl.ModuleNode{Children: children}
}

type fakeLoader struct {
	calls []string
	err   error
}

func (l *fakeLoader) LoadSubmodule(ctx context.Context, fn string, pos bklerr.Pos) error {
	l.calls = append(l.calls, fn)
	return l.err
}

func buildProject(t *testing.T, loader SubmoduleLoader, ignore *ignorelist.List, ast *astbkl.ModuleNode) (*model.Project, *model.Module, error) {
	t.Helper()
	b := New(loader, ignore)
	project := model.NewProject(registry.Default)
	mod, err := b.BuildModule(context.Background(), ast, project, "test.bkl")
	return project, mod, err
}

func TestAssignmentSetsVariable(t *testing.T) {
	_, mod, err := buildProject(t, nil, nil, newModuleAST(assign("NAME", lit("hi"))))
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	v, ok := mod.GetVariable("NAME")
	if !ok || v.Value.String() != "hi" {
		t.Errorf("GetVariable(NAME) = %v, %v; want hi", v, ok)
	}
}

func TestAppendToUnknownVariableErrors(t *testing.T) {
	_, _, err := buildProject(t, nil, nil, newModuleAST(appendNode("NAME", lit("x"))))
	if err == nil {
		t.Fatal("append to unknown variable: got nil error, want ParserError")
	}
}

func TestAppendPromotesAnyToList(t *testing.T) {
	ast := newModuleAST(
		assign("NAME", lit("a")),
		appendNode("NAME", lit("b")),
	)
	_, mod, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	v, _ := mod.GetVariable("NAME")
	if !model.IsList(v.Type) {
		t.Fatalf("after append, variable type = %v, want promoted to list", v.Type)
	}
	if v.Value.String() != "[a, b]" {
		t.Errorf("NAME.Value = %q, want the combined list", v.Value.String())
	}
}

func TestAppendToNonListTypedVariableErrors(t *testing.T) {
	// outputdir is a registered scalar (path) target property; appending to
	// it seeds the variable via the property but can't be promoted to a
	// list the way a free Any assignment can.
	ast := newModuleAST(&astbkl.TargetNode{
		Name: astbkl.Ident{Text: "app"},
		Type: astbkl.Ident{Text: "program"},
		Content: []astbkl.Node{
			appendNode("outputdir", lit("build")),
		},
	})
	_, _, err := buildProject(t, nil, nil, ast)
	if err == nil {
		t.Fatal("append to scalar-typed property outputdir: got nil error, want rejection")
	}
}

func TestUnconditionalAssignmentWrapsNothing(t *testing.T) {
	_, mod, err := buildProject(t, nil, nil, newModuleAST(assign("NAME", lit("x"))))
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	v, _ := mod.GetVariable("NAME")
	if v.Value.String() != "x" {
		t.Errorf("unconditional assignment Value = %q, want plain literal %q", v.Value.String(), "x")
	}
}

func TestConditionalAssignmentWrapsInIf(t *testing.T) {
	ast := newModuleAST(&astbkl.IfNode{
		Cond:    &astbkl.BoolvalNode{Value: true},
		Content: []astbkl.Node{assign("NAME", lit("x"))},
	})
	_, mod, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	v, _ := mod.GetVariable("NAME")
	want := "if (true) then x else null"
	if v.Value.String() != want {
		t.Errorf("conditional assignment Value = %q, want %q", v.Value.String(), want)
	}
}

func TestConditionalAppendWrapsEachListItem(t *testing.T) {
	ast := newModuleAST(
		assign("NAME", &astbkl.ListNode{Values: []astbkl.ExprNode{lit("a")}}),
		&astbkl.IfNode{
			Cond: &astbkl.BoolvalNode{Value: true},
			Content: []astbkl.Node{
				appendNode("NAME", &astbkl.ListNode{Values: []astbkl.ExprNode{lit("b"), lit("c")}}),
			},
		},
	)
	_, mod, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	v, _ := mod.GetVariable("NAME")
	want := "[a, if (true) then b else null, if (true) then c else null]"
	if v.Value.String() != want {
		t.Errorf("conditional append Value = %q, want %q", v.Value.String(), want)
	}
}

func TestTargetDuplicateIDCitesExistingPosition(t *testing.T) {
	ast := newModuleAST(
		&astbkl.TargetNode{Name: astbkl.Ident{Text: "app", Pos: bklerr.Pos{Line: 1}}, Type: astbkl.Ident{Text: "program"}},
		&astbkl.TargetNode{Name: astbkl.Ident{Text: "app", Pos: bklerr.Pos{Line: 5}}, Type: astbkl.Ident{Text: "program"}},
	)
	_, _, err := buildProject(t, nil, nil, ast)
	if err == nil {
		t.Fatal("duplicate target id: got nil error, want rejection")
	}
	if got := err.Error(); got == "" {
		t.Fatal("duplicate target id: empty error message")
	}
}

func TestTargetAcquiresActiveCondition(t *testing.T) {
	ast := newModuleAST(&astbkl.IfNode{
		Cond:    &astbkl.BoolvalNode{Value: true},
		Content: []astbkl.Node{&astbkl.TargetNode{Name: astbkl.Ident{Text: "app"}, Type: astbkl.Ident{Text: "program"}}},
	})
	project, _, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	tgt, ok := project.GetTarget("app")
	if !ok {
		t.Fatal("target app not registered")
	}
	if tgt.Condition == nil || tgt.Condition.String() != "true" {
		t.Errorf("target Condition = %v, want the enclosing if's condition", tgt.Condition)
	}
}

func TestTargetBodyConditionsDoNotLeakToEnclosingStack(t *testing.T) {
	// Inside a target body, the outer if's condition is captured on the
	// target itself but the builder's running cond stack is reset, so a
	// plain (unconditional) assignment after the target must not be
	// wrapped in an If.
	ast := newModuleAST(
		&astbkl.IfNode{
			Cond: &astbkl.BoolvalNode{Value: true},
			Content: []astbkl.Node{
				&astbkl.TargetNode{
					Name: astbkl.Ident{Text: "app"},
					Type: astbkl.Ident{Text: "program"},
					Content: []astbkl.Node{
						assign("NAME", lit("inner")),
					},
				},
			},
		},
		assign("OUTER", lit("after")),
	)
	project, mod, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	tgt, _ := project.GetTarget("app")
	v, _ := tgt.GetVariable("NAME")
	if v.Value.String() != "inner" {
		t.Errorf("target-local assignment Value = %q, want plain (conditions reset inside target body)", v.Value.String())
	}
	outer, _ := mod.GetVariable("OUTER")
	if outer.Value.String() != "after" {
		t.Errorf("module assignment after target Value = %q, want plain (target's Reset/Restore must not leak)", outer.Value.String())
	}
}

func TestConfigurationInheritsBaseDefinitionAndWrapsInEquality(t *testing.T) {
	ast := newModuleAST(
		&astbkl.ConfigurationNode{
			Name: "Debug",
			Content: []astbkl.Node{
				assign("OPT", lit("-O0")),
			},
		},
		&astbkl.ConfigurationNode{
			Name: "DebugArm",
			Base: "Debug",
			Content: []astbkl.Node{
				assign("ARCH", lit("arm")),
			},
		},
	)
	project, mod, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	cfg, ok := project.GetConfiguration("DebugArm")
	if !ok || cfg.Base != "Debug" {
		t.Fatalf("GetConfiguration(DebugArm) = %v, %v; want Base=Debug", cfg, ok)
	}
	// DebugArm's config block re-ran OPT's assignment (inherited from
	// Debug) and ARCH's (its own), both wrapped in config==DebugArm.
	opt, ok := mod.GetVariable("OPT")
	if !ok {
		t.Fatal("OPT not set by configuration processing")
	}
	want := "if (($(config) == DebugArm)) then -O0 else if (($(config) == Debug)) then -O0 else null"
	if opt.Value.String() != want {
		t.Errorf("OPT.Value = %q, want %q", opt.Value.String(), want)
	}
}

func TestConfigurationRejectsBaseOnDebugOrRelease(t *testing.T) {
	ast := newModuleAST(&astbkl.ConfigurationNode{Name: "Debug", Base: "Release"})
	_, _, err := buildProject(t, nil, nil, ast)
	if err == nil {
		t.Fatal("configuration Debug with a Base: got nil error, want rejection")
	}
}

func TestSubmoduleConditionalIsRejected(t *testing.T) {
	ast := newModuleAST(&astbkl.IfNode{
		Cond:    &astbkl.BoolvalNode{Value: true},
		Content: []astbkl.Node{&astbkl.SubmoduleNode{File: "sub.bkl"}},
	})
	loader := &fakeLoader{}
	_, _, err := buildProject(t, loader, nil, ast)
	if err == nil {
		t.Fatal("conditional submodule: got nil error, want rejection")
	}
	if len(loader.calls) != 0 {
		t.Error("conditional submodule: loader was invoked despite the rejection")
	}
}

func TestSubmoduleDispatchesToLoader(t *testing.T) {
	ast := newModuleAST(&astbkl.SubmoduleNode{File: "sub.bkl"})
	loader := &fakeLoader{}
	_, _, err := buildProject(t, loader, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if len(loader.calls) != 1 || loader.calls[0] != "sub.bkl" {
		t.Errorf("loader.calls = %v, want [sub.bkl]", loader.calls)
	}
}

func TestSubmoduleSkippedWhenIgnored(t *testing.T) {
	ast := newModuleAST(&astbkl.SubmoduleNode{File: "sub.bkl"})
	loader := &fakeLoader{}
	ignore := ignorelist.New([]string{"sub.bkl"})
	_, _, err := buildProject(t, loader, ignore, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if len(loader.calls) != 0 {
		t.Errorf("loader.calls = %v, want none (sub.bkl is ignored)", loader.calls)
	}
}

func TestSrcdirSetsModuleDirectoryRelativeToSourceFile(t *testing.T) {
	ast := newModuleAST(&astbkl.SrcdirNode{Srcdir: "gen"})
	b := New(nil, nil)
	project := model.NewProject(registry.Default)
	mod, err := b.BuildModule(context.Background(), ast, project, "sub/dir/test.bkl")
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if want := "sub/dir/gen"; mod.Srcdir != want {
		t.Errorf("Srcdir = %q, want %q", mod.Srcdir, want)
	}
}

func TestSrcdirRejectedOutsideModuleScope(t *testing.T) {
	ast := newModuleAST(&astbkl.TargetNode{
		Name:    astbkl.Ident{Text: "app"},
		Type:    astbkl.Ident{Text: "program"},
		Content: []astbkl.Node{&astbkl.SrcdirNode{Srcdir: "gen"}},
	})
	_, _, err := buildProject(t, nil, nil, ast)
	if err == nil {
		t.Fatal("srcdir inside a target: got nil error, want rejection")
	}
}

func TestSrcdirRejectedWhenConditional(t *testing.T) {
	ast := newModuleAST(&astbkl.IfNode{
		Cond:    &astbkl.BoolvalNode{Value: true},
		Content: []astbkl.Node{&astbkl.SrcdirNode{Srcdir: "gen"}},
	})
	_, _, err := buildProject(t, nil, nil, ast)
	if err == nil {
		t.Fatal("conditional srcdir: got nil error, want rejection")
	}
}

func TestFilesListEnumeratesElementsWithSharedCondition(t *testing.T) {
	ast := newModuleAST(&astbkl.IfNode{
		Cond: &astbkl.BoolvalNode{Value: true},
		Content: []astbkl.Node{
			&astbkl.FilesListNode{
				Kind:  "sources",
				Files: &astbkl.ListNode{Values: []astbkl.ExprNode{lit("a.c"), lit("b.c")}},
			},
		},
	})
	_, mod, err := buildProject(t, nil, nil, ast)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if len(mod.Sources) != 2 {
		t.Fatalf("Sources = %v, want 2 entries", mod.Sources)
	}
	for _, sf := range mod.Sources {
		if sf.Condition == nil || sf.Condition.String() != "true" {
			t.Errorf("source %v: Condition = %v, want the enclosing if's condition", sf.Path, sf.Condition)
		}
	}
}

func TestFilesListRejectedOutsideModuleScope(t *testing.T) {
	ast := newModuleAST(&astbkl.TargetNode{
		Name: astbkl.Ident{Text: "app"},
		Type: astbkl.Ident{Text: "program"},
		Content: []astbkl.Node{
			&astbkl.FilesListNode{Kind: "sources", Files: lit("a.c")},
		},
	})
	_, _, err := buildProject(t, nil, nil, ast)
	if err == nil {
		t.Fatal("sources{} inside a target: got nil error, want rejection")
	}
}

func TestUnderscorePrefixedVariableWarnsButSucceeds(t *testing.T) {
	_, mod, err := buildProject(t, nil, nil, newModuleAST(assign("_internal", lit("x"))))
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if v, ok := mod.GetVariable("_internal"); !ok || v.Value.String() != "x" {
		t.Errorf("GetVariable(_internal) = %v, %v; want x (warning only, not an error)", v, ok)
	}
}
