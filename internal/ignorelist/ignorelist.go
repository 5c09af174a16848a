// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ignorelist implements checking whether a submodule path should be
// skipped by the build pipeline: an ignore list of exact .bkl paths and
// directory prefixes. Entries are compared literally; wildcards in an entry
// are not expanded (Glob expands a pattern only to find ignore-list files).
package ignorelist

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/golang/glog"
	"golang.org/x/exp/maps"
)

// List holds the ignored files and directory prefixes loaded via LoadFile or
// Glob, or built with New.
type List struct {
	IgnoredFiles map[string]bool
	IgnoredDirs  []string
}

// New builds a List directly from a slice of patterns (one per --ignore
// flag occurrence), without reading a file.
func New(patterns []string) *List {
	l := &List{IgnoredFiles: map[string]bool{}}
	for _, p := range patterns {
		l.Add(p)
	}
	return l
}

// Add adds path to the ignore list. A trailing "/" marks a directory prefix.
func (l *List) Add(path string) {
	if strings.HasSuffix(path, "/") {
		l.IgnoredDirs = append(l.IgnoredDirs, path)
		return
	}
	l.IgnoredFiles[path] = true
}

// Contains reports whether path is covered by the ignore list. A nil
// receiver always returns false, so callers can pass a possibly-nil *List
// without a preceding check.
func (l *List) Contains(path string) bool {
	if l == nil {
		return false
	}
	for _, dir := range l.IgnoredDirs {
		if strings.HasPrefix(path, dir) {
			return true
		}
	}
	return l.IgnoredFiles[path]
}

// LoadFile loads one pattern per line from the file at path, skipping blank
// lines and "#"-prefixed comments.
func LoadFile(path string) (*List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l := &List{IgnoredFiles: map[string]bool{}}
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.Add(line)
	}
	log.Infof("loaded ignore list from %q: %d files and %d directories", path, len(l.IgnoredFiles), len(l.IgnoredDirs))
	return l, nil
}

// Glob expands pattern (matched with path/filepath.Match semantics) into a
// combined List read from each matching file, mirroring
// internal/ignore.LoadList's glob-then-merge behavior.
func Glob(pattern string) (*List, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	l := &List{IgnoredFiles: map[string]bool{}}
	for _, f := range matches {
		sub, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		maps.Copy(l.IgnoredFiles, sub.IgnoredFiles)
		l.IgnoredDirs = append(l.IgnoredDirs, sub.IgnoredDirs...)
	}
	return l, nil
}
