// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// https://github.com/golang/go/blob/master/src/time/zoneinfo.go

// Package rfc9636 reads TZif time zone files (RFC 9636) and answers offset
// and transition queries against them, falling back on the POSIX TZ footer
// for instants after the last recorded transition.
package rfc9636

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/tzlist/civiltime/posix/tzposix"
)

// A Location maps time instants to the zone in use at that time.
// Typically, the Location represents the collection of time offsets
// in use in a geographical area. For many Locations the time offset varies
// depending on whether daylight savings time is in use at the time instant.
type Location struct {
	name string
	zone []zone
	tx   []zoneTrans

	// The tzdata information can be followed by a string that describes
	// how to handle DST transitions not recorded in zoneTrans.
	// The format is the TZ environment variable without a colon; see
	// https://pubs.opengroup.org/onlinepubs/9699919799/basedefs/V1_chap08.html.
	// Example string, for America/Los_Angeles: PST8PDT,M3.2.0,M11.1.0
	extend string
	rule   *tzposix.Rule
}

// A zone represents a single time zone such as CET.
type zone struct {
	name   string // abbreviated name, "CET"
	offset int    // seconds east of UTC
	isDST  bool   // is this zone Daylight Savings Time?
}

// A zoneTrans represents a single time zone transition.
type zoneTrans struct {
	when         int64 // transition time, in seconds since 1970 GMT
	index        uint8 // the index of the zone that goes into effect at that time
	isstd, isutc bool  // only meaningful to POSIX TZ emulation, kept for Dump
}

// alpha and omega are the beginning and end of time for zone
// transitions.
const (
	alpha = -1 << 63  // math.MinInt64
	omega = 1<<63 - 1 // math.MaxInt64
)

// UTC represents Universal Coordinated Time (UTC).
var UTC = &Location{name: "UTC", zone: []zone{{name: "UTC"}}, tx: []zoneTrans{{when: alpha}}}

// Period is the zone in effect from Start up to, not including, End.
// Start and End are Unix seconds; they are MinInt64 and MaxInt64 when
// unbounded.
type Period struct {
	Name   string
	Offset int // seconds east of UTC
	IsDST  bool
	Start  int64
	End    int64
}

// Name returns the name the location was loaded under.
func (l *Location) Name() string { return l.name }

// Extend returns the POSIX TZ footer, or "" when the file has none.
func (l *Location) Extend() string { return l.extend }

// Rule returns the parsed footer, or nil.
func (l *Location) Rule() *tzposix.Rule { return l.rule }

// Lookup returns the zone in use at the Unix second sec.
func (l *Location) Lookup(sec int64) Period {
	if len(l.tx) == 0 || sec < l.tx[0].when {
		z := &l.zone[l.lookupFirstZone()]
		end := int64(omega)
		if len(l.tx) > 0 {
			end = l.tx[0].when
		}
		return Period{Name: z.name, Offset: z.offset, IsDST: z.isDST, Start: alpha, End: end}
	}

	// Binary search for entry with largest time <= sec.
	tx := l.tx
	end := int64(omega)
	lo := 0
	hi := len(tx)
	for hi-lo > 1 {
		m := int(uint(lo+hi) >> 1)
		lim := tx[m].when
		if sec < lim {
			end = lim
			hi = m
		} else {
			lo = m
		}
	}
	z := &l.zone[tx[lo].index]
	p := Period{Name: z.name, Offset: z.offset, IsDST: z.isDST, Start: tx[lo].when, End: end}

	// If we're at the end of the known zone transitions,
	// try the extend string.
	if lo == len(tx)-1 && l.rule != nil {
		ez := l.rule.Lookup(sec)
		p.Name, p.Offset, p.IsDST = ez.Name, ez.Offset, ez.IsDST
		if c, ok := l.rule.Previous(sec + 1); ok && c.At > p.Start {
			p.Start = c.At
		}
		if c, ok := l.rule.Next(sec); ok {
			p.End = c.At
		}
	}
	return p
}

// lookupFirstZone returns the index of the time zone to use for times
// before the first transition time, or when there are no transition
// times.
//
// The reference implementation in localtime.c from
// https://www.iana.org/time-zones/repository/releases/tzcode2013g.tar.gz
// implements the following algorithm for these cases:
//  1. If the first zone is unused by the transitions, use it.
//  2. Otherwise, if there are transition times, and the first
//     transition is to a zone in daylight time, find the first
//     non-daylight-time zone before and closest to the first transition
//     zone.
//  3. Otherwise, use the first zone that is not daylight time, if
//     there is one.
//  4. Otherwise, use the first zone.
func (l *Location) lookupFirstZone() int {
	// Case 1.
	if !l.firstZoneUsed() {
		return 0
	}

	// Case 2.
	if len(l.tx) > 0 && l.zone[l.tx[0].index].isDST {
		for zi := int(l.tx[0].index) - 1; zi >= 0; zi-- {
			if !l.zone[zi].isDST {
				return zi
			}
		}
	}

	// Case 3.
	for zi := range l.zone {
		if !l.zone[zi].isDST {
			return zi
		}
	}

	// Case 4.
	return 0
}

// firstZoneUsed reports whether the first zone is used by some
// transition.
func (l *Location) firstZoneUsed() bool {
	for _, tx := range l.tx {
		if tx.index == 0 {
			return true
		}
	}
	return false
}

// offsetBefore returns the offset in effect just before transition i.
func (l *Location) offsetBefore(i int) int {
	if i == 0 {
		return l.zone[l.lookupFirstZone()].offset
	}
	return l.zone[l.tx[i-1].index].offset
}

// NextTransition returns the first instant after sec at which the UTC
// offset changes. Transitions that only rename the zone are skipped.
func (l *Location) NextTransition(sec int64) (int64, bool) {
	i := sort.Search(len(l.tx), func(i int) bool { return l.tx[i].when > sec })
	for ; i < len(l.tx); i++ {
		if l.tx[i].when != alpha && l.zone[l.tx[i].index].offset != l.offsetBefore(i) {
			return l.tx[i].when, true
		}
	}
	if l.rule == nil {
		return 0, false
	}
	from := sec
	if n := len(l.tx); n > 0 && l.tx[n-1].when > from {
		from = l.tx[n-1].when
	}
	if c, ok := l.rule.Next(from); ok {
		return c.At, true
	}
	return 0, false
}

// PreviousTransition returns the last instant before sec at which the UTC
// offset changed.
func (l *Location) PreviousTransition(sec int64) (int64, bool) {
	n := len(l.tx)
	if l.rule != nil && (n == 0 || sec > l.tx[n-1].when) {
		if c, ok := l.rule.Previous(sec); ok && (n == 0 || c.At > l.tx[n-1].when) {
			return c.At, true
		}
	}
	i := sort.Search(n, func(i int) bool { return l.tx[i].when >= sec }) - 1
	for ; i >= 0; i-- {
		if l.tx[i].when != alpha && l.zone[l.tx[i].index].offset != l.offsetBefore(i) {
			return l.tx[i].when, true
		}
	}
	return 0, false
}

// Dump writes the zones, transitions and footer of l to w.
func (l *Location) Dump(w io.Writer) {
	fmt.Fprintln(w, "Name:", l.name)
	fmt.Fprintln(w, "Zone[", len(l.zone), "]")
	for i, z := range l.zone {
		fmt.Fprintf(w, "  [%d]: %+v\n", i, z)
	}
	fmt.Fprintln(w, "Transition[", len(l.tx), "]")
	for i, tx := range l.tx {
		fmt.Fprintf(w, "  [%d]: %+v\n", i, tx)
	}
	fmt.Fprintln(w, "Extend:", l.extend)
}

// parseExtend parses the footer. A footer the rule parser cannot read is
// logged and ignored, so the recorded transitions remain usable.
func (l *Location) parseExtend() {
	if l.extend == "" {
		return
	}
	r, err := tzposix.Parse(l.extend)
	if err != nil {
		slog.Warn("ignoring TZif footer", "zone", l.name, "extend", l.extend, "err", err)
		return
	}
	l.rule = r
}
