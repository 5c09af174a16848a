// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version implements the "version" subcommand, reporting the
// running binary's module version synthesized from Go build info.
package version

import (
	"context"
	"flag"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/subcommands"

	"bakefile.org/core/internal/ledger"
)

// Cmd implements the version subcommand of the bakefile tool.
type Cmd struct{}

// Name implements subcommand.Command.
func (*Cmd) Name() string { return "version" }

// Synopsis implements subcommand.Command.
func (*Cmd) Synopsis() string { return "print tool version" }

// Usage implements subcommand.Command.
func (*Cmd) Usage() string { return `Usage: bakefile version` }

// SetFlags implements subcommand.Command.
func (*Cmd) SetFlags(*flag.FlagSet) {}

func synthesizeVersion(info *debug.BuildInfo) string {
	const fallback = "(devel)"
	settings := make(map[string]string)
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	rev, ok := settings["vcs.revision"]
	if !ok {
		return fallback
	}

	commitTime, err := time.Parse(time.RFC3339Nano, settings["vcs.time"])
	if err != nil {
		return fallback
	}

	modifiedSuffix := ""
	if settings["vcs.modified"] == "true" {
		modifiedSuffix += "+dirty"
	}

	// Go pseudo versions use 12 hex digits.
	if len(rev) > 12 {
		rev = rev[:12]
	}

	const pseudoVersionTimestampFormat = "20060102150405"

	return fmt.Sprintf("v?.?.?-%s-%s%s",
		commitTime.UTC().Format(pseudoVersionTimestampFormat),
		rev,
		modifiedSuffix)
}

// Execute implements subcommand.Command.
func (cmd *Cmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	info, ok := debug.ReadBuildInfo()
	mainVersion := "<runtime/debug.ReadBuildInfo failed>"
	if ok {
		mainVersion = info.Main.Version
		if mainVersion == "(devel)" {
			mainVersion = synthesizeVersion(info)
		}
	}
	fmt.Printf("bakefile %s (ledger format %d)\n", mainVersion, ledger.FormatVersion)
	return subcommands.ExitSuccess
}

// Command returns an initialized Cmd for registration with the subcommands
// package.
func Command() *Cmd {
	return &Cmd{}
}
