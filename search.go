package hellman

import (
	"bytes"
	"context"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Candidate is a preimage reconstructed from a table. It is only a guess until Verify agrees.
type Candidate struct {
	Preimage []byte /* start-derived chain value ‖ mask */
	Depth    int    /* steps walked from the target before an endpoint matched */
}

// Result is the outcome of attacking one target. Neither a miss nor a false alarm is an error.
type Result struct {
	Preimage    []byte /* verified preimage; nil unless Found */
	Candidate   []byte /* the reconstructed candidate, verified or not */
	Found       bool
	FalseAlarm  bool /* some endpoint matched but its chain did not lead to the target */
	FalseAlarms int  /* matches that failed verification, summed over every table searched */
	Table       int  /* index of the table that produced Preimage, or -1 */
	Depth       int
}

var miss = Result{Table: -1, Depth: -1}

// Lookup walks target forward at most Length steps looking for a stored endpoint. On a match at
// depth j the stored start is replayed Length-j-1 steps, which lands on the chain value one step
// short of the endpoint the target hashed into, and that value is returned joined to the mask and
// not hashed again. A match at j = Length-1 therefore replays nothing and returns start ‖ mask.
//
// The first endpoint met is the only one tried. A target of the wrong width never matches.
func (t *Table) Lookup(target []byte) (Candidate, bool) {
	if len(target) != t.nBytes {
		return Candidate{}, false
	}
	s := newStepper(t.hash, t.mask, t.nBytes)
	y, found := append([]byte(nil), target...), -1

	for j := 0; j < t.length; j++ {
		if _, ok := t.ends[string(y)]; ok {
			found = j
			break
		}
		s.step(y)
	}
	if found == -1 {
		return Candidate{}, false
	}

	x := append([]byte(nil), t.ends[string(y)]...)
	s.walk(x, t.length-found-1)
	return Candidate{Combine(x, t.mask), found}, true
}

// Verify reports whether candidate hashes under h to a digest ending in target.
func Verify(h Hash, candidate, target []byte) bool {
	sum := h.Sum(nil, candidate)
	if len(target) > len(sum) {
		return false
	}
	return bytes.Equal(Truncate(sum, len(target)), target)
}

// Attack looks target up in t and verifies whatever comes back.
func (t *Table) Attack(target []byte) Result {
	c, ok := t.Lookup(target)
	if !ok {
		return miss
	}
	if !Verify(t.hash, c.Preimage, target) {
		r := miss
		r.Candidate, r.FalseAlarm, r.FalseAlarms, r.Depth = c.Preimage, true, 1, c.Depth
		return r
	}
	return Result{Preimage: c.Preimage, Candidate: c.Preimage, Found: true, Table: 0, Depth: c.Depth}
}

// AttackAll attacks target against every table at once, one pool job per table, and after all of
// them finish returns the verified result of the lowest-indexed table that has one. False alarms
// are summed over all tables. The only error is ctx ending before every table was searched.
func AttackAll(ctx context.Context, tables []*Table, target []byte) (Result, error) {
	results := make([]Result, len(tables))
	err := fanOut(ctx, len(tables), func(i int) error {
		results[i] = tables[i].Attack(target)
		return nil
	})
	if err != nil {
		return miss, err
	}

	out, alarms := miss, 0
	for i, r := range results {
		alarms += r.FalseAlarms
		switch {
		case r.Found && !out.Found:
			out = r
			out.Table = i
		case r.FalseAlarm && out.Candidate == nil:
			out.Candidate, out.Depth = r.Candidate, r.Depth
		}
	}
	out.FalseAlarms = alarms
	out.FalseAlarm = !out.Found && alarms > 0
	return out, nil
}
