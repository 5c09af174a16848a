// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestSynthesizeVersionFallsBackWithoutRevision(t *testing.T) {
	info := &debug.BuildInfo{}
	if got, want := synthesizeVersion(info), "(devel)"; got != want {
		t.Errorf("synthesizeVersion with no vcs settings = %q, want %q", got, want)
	}
}

func TestSynthesizeVersionFallsBackOnUnparseableTime(t *testing.T) {
	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abcdef0123456789"},
		{Key: "vcs.time", Value: "not-a-timestamp"},
	}}
	if got, want := synthesizeVersion(info), "(devel)"; got != want {
		t.Errorf("synthesizeVersion with an unparseable vcs.time = %q, want %q", got, want)
	}
}

func TestSynthesizeVersionFormatsRevisionAndTimestamp(t *testing.T) {
	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abcdef0123456789"},
		{Key: "vcs.time", Value: "2024-03-04T05:06:07Z"},
	}}
	got := synthesizeVersion(info)
	if !strings.HasPrefix(got, "v?.?.?-20240304050607-abcdef012345") {
		t.Errorf("synthesizeVersion = %q, want a v?.?.?-<timestamp>-<12 hex digit rev> form", got)
	}
	if strings.HasSuffix(got, "+dirty") {
		t.Errorf("synthesizeVersion = %q, want no +dirty suffix when vcs.modified is unset", got)
	}
}

func TestSynthesizeVersionMarksDirtyBuilds(t *testing.T) {
	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abcdef0123456789"},
		{Key: "vcs.time", Value: "2024-03-04T05:06:07Z"},
		{Key: "vcs.modified", Value: "true"},
	}}
	if got := synthesizeVersion(info); !strings.HasSuffix(got, "+dirty") {
		t.Errorf("synthesizeVersion with vcs.modified=true = %q, want a +dirty suffix", got)
	}
}

func TestCommandBasics(t *testing.T) {
	cmd := Command()
	if cmd.Name() != "version" {
		t.Errorf("Name() = %q, want version", cmd.Name())
	}
	if cmd.Synopsis() == "" {
		t.Error("Synopsis() is empty")
	}
}
