// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// profile gathers timing statistics across the build (a "start" event, then
// one "build-module:<file>" event per module built), attached to a
// context.Context rather than threaded as an explicit parameter.
type profile struct {
	records []profileRecord
}

type profileRecord struct {
	name string
	time time.Time
}

type profileKeyType int

const profileKey profileKeyType = 0

// NewProfileContext returns a new context carrying an empty profile,
// recording a "start" event immediately.
func NewProfileContext(parent context.Context) context.Context {
	ctx := context.WithValue(parent, profileKey, &profile{})
	ProfileAdd(ctx, "start")
	return ctx
}

// ProfileAdd records an event with the given name against ctx's profile, if
// any (a no-op if ctx wasn't created with NewProfileContext).
func ProfileAdd(ctx context.Context, name string) {
	p, ok := ctx.Value(profileKey).(*profile)
	if !ok {
		return
	}
	p.records = append(p.records, profileRecord{name: name, time: time.Now()})
}

// ProfileDump renders ctx's recorded phase timings as a single line, with
// the slowest phase called out separately since that's usually what a
// developer staring at --debug output is looking for.
func ProfileDump(ctx context.Context) string {
	p, ok := ctx.Value(profileKey).(*profile)
	if !ok {
		return "<no profile>"
	}
	if len(p.records) < 2 {
		return "<empty profile>"
	}
	var b strings.Builder
	total := p.records[len(p.records)-1].time.Sub(p.records[0].time)
	fmt.Fprintf(&b, "TOTAL: %s | %s", total, p.records[0].name)

	slowestName := p.records[1].name
	slowestDur := p.records[1].time.Sub(p.records[0].time)
	for i := 1; i < len(p.records); i++ {
		d := p.records[i].time.Sub(p.records[i-1].time)
		fmt.Fprintf(&b, " %s %s", d, p.records[i].name)
		if d > slowestDur {
			slowestDur, slowestName = d, p.records[i].name
		}
	}
	fmt.Fprintf(&b, " | slowest: %s (%s)", slowestName, slowestDur)
	return b.String()
}
