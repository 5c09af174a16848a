// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bklerr provides the uniform error kind and source-position carrier
// used across the build pipeline.
package bklerr

import (
	"fmt"

	log "github.com/golang/glog"
)

// Kind identifies the category of an error raised by the pipeline.
type Kind int

const (
	// ParserError is a semantic error in user input: unknown variable,
	// duplicate target, invalid configuration base, type mismatch on
	// append, conditional submodule, unknown target type.
	ParserError Kind = iota
	// NonConstant is raised by expr.AsNative when an expression cannot be
	// reduced to a native value at configure time.
	NonConstant
	// CannotSplit is raised by expr.Split for operands that cannot be
	// decomposed by a delimiter.
	CannotSplit
	// LoadError means the ledger file is unreadable or version-mismatched.
	// Non-fatal: callers treat it as "no prior knowledge".
	LoadError
	// IOError is an output-writer failure. Fatal.
	IOError
)

func (k Kind) String() string {
	switch k {
	case ParserError:
		return "error"
	case NonConstant:
		return "not constant"
	case CannotSplit:
		return "cannot split"
	case LoadError:
		return "load error"
	case IOError:
		return "I/O error"
	default:
		return "error"
	}
}

// Pos is a source position, mirroring go/token.Position: every component is
// optional (zero value means unknown).
type Pos struct {
	Filename string
	Line     int
	Column   int
}

// IsValid reports whether any part of the position is known.
func (p Pos) IsValid() bool {
	return p.Filename != "" || p.Line != 0 || p.Column != 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return ""
	}
	s := p.Filename
	if p.Line != 0 {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d", p.Line)
		if p.Column != 0 {
			s += fmt.Sprintf(":%d", p.Column)
		}
	}
	return s
}

// Error is the error type raised throughout the pipeline. It carries a Kind
// and an optional source Pos, formatted the way tool.py's BklFormatter
// prefixes log lines: "<pos>: <kind>: <message>". The "<kind>: " part is
// omitted for ParserError, and "<pos>: " when no position is known.
type Error struct {
	Kind Kind
	Pos  Pos
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	prefix := ""
	if e.Pos.IsValid() {
		prefix = e.Pos.String() + ": "
	}
	if e.Kind != ParserError {
		prefix += e.Kind.String() + ": "
	}
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return prefix + msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind without a position.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithPos returns a copy of e with pos attached if e doesn't already carry
// one. The builder attaches a position to any error lacking one when
// crossing an AST node boundary, then re-raises.
func WithPos(err error, pos Pos) error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*Error); ok {
		if be.Pos.IsValid() {
			return be
		}
		cp := *be
		cp.Pos = pos
		return &cp
	}
	return &Error{Kind: ParserError, Pos: pos, Msg: err.Error(), Err: err}
}

// Annotatef annotates a non-nil error in place with the given message.
//
// Designed for use in a defer, ported from
// internal/o2o/errutil.Annotatef:
//
//	func g(arg string) (err error) {
//	   defer bklerr.Annotatef(&err, "g(%s)", arg)
//	   return errors.New("my error")
//	}
func Annotatef(err *error, format string, a ...any) {
	if *err != nil {
		*err = fmt.Errorf("%s: %v", fmt.Sprintf(format, a...), *err)
	}
}

// Warningf reports a non-fatal warning at the given position, matching spec
// §7: "Warnings (e.g. underscore-prefixed variable names) are reported but
// non-fatal."
func Warningf(pos Pos, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if pos.IsValid() {
		log.Warningf("%s: %s", pos, msg)
	} else {
		log.Warningf("%s", msg)
	}
}
