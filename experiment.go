package hellman

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Experiments: build tables, hash random plaintexts, try to invert the truncated digests, and count
// how often it works. The resulting tallies are the tradeoff curve this package exists to measure.

// PlaintextBits is the width of the random messages whose digests are attacked.
const PlaintextBits = 256

// Trial is one attacked target together with everything needed to report on it.
type Trial struct {
	Plaintext       []byte
	Digest          []byte /* full digest of Plaintext */
	Target          []byte /* its last NBytes bytes */
	CandidateDigest []byte /* full digest of Result.Candidate, if there is one */
	Result
	Precompute, Search time.Duration
}

// Stats tallies the trials of one (K, L) configuration. Success + Failure == Trials.
type Stats struct {
	Chains      int           `json:"chains"`
	Length      int           `json:"length"`
	Tables      int           `json:"tables"`
	Entries     int           `json:"entries"` /* endpoints kept over all tables */
	Trials      int           `json:"trials"`
	Success     int           `json:"success"`
	Failure     int           `json:"failure"`
	FalseAlarms int           `json:"false_alarms"` /* failed trials that met a false alarm */
	Coverage    float64       `json:"coverage"`     /* theoretical bound, see Coverage */
	Precompute  time.Duration `json:"precompute_ns"`
	Search      time.Duration `json:"search_ns"`
}

// SuccessPercent is the share of successful trials, in [0, 100].
func (s Stats) SuccessPercent() float64 { return percent(s.Success, s.Trials) }

// FailurePercent is the share of failed trials, in [0, 100].
func (s Stats) FailurePercent() float64 { return percent(s.Failure, s.Trials) }

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Coverage is the share of the 2^Bits truncated digests that Tables·Chains·Length chain values
// could cover if no two chains ever merged, capped at 1. Real tables fall short of it.
func Coverage(p Params) float64 {
	points := float64(p.Tables) * float64(p.Chains) * float64(p.Length)
	return math.Min(1, points/math.Ldexp(1, p.Bits))
}

// target draws a plaintext from src and returns it with its digest and truncated digest.
func target(h Hash, nBytes int, src io.Reader) (plaintext, digest, trunc []byte, err error) {
	if plaintext, err = Bits(src, PlaintextBits); err != nil {
		return nil, nil, nil, err
	}
	digest = h.Sum(nil, plaintext)
	return plaintext, digest, Truncate(digest, nBytes), nil
}

// attack searches one table inline and several on the pool.
func attack(ctx context.Context, tables []*Table, trunc []byte) (Result, error) {
	if len(tables) == 1 {
		return tables[0].Attack(trunc), nil
	}
	return AttackAll(ctx, tables, trunc)
}

// Once precomputes p.Tables tables and attacks the digest of a single random plaintext with them.
func Once(ctx context.Context, p Params, h Hash, src io.Reader) (Trial, error) {
	if err := p.Validate(h); err != nil {
		return Trial{}, err
	}
	var tr Trial
	var err error
	if tr.Plaintext, tr.Digest, tr.Target, err = target(h, p.NBytes(), src); err != nil {
		return Trial{}, err
	}

	start := time.Now()
	tables, err := BuildTables(ctx, p, h, src)
	if err != nil {
		return Trial{}, err
	}
	tr.Precompute, start = time.Since(start), time.Now()

	if tr.Result, err = attack(ctx, tables, tr.Target); err != nil {
		return Trial{}, err
	}
	tr.Search = time.Since(start)
	if tr.Candidate != nil {
		tr.CandidateDigest = h.Sum(nil, tr.Candidate)
	}
	return tr, nil
}

// Sweep runs g.Trials trials for every (K, L) of g, each configuration on its own freshly built
// tables, and passes each finished configuration to report if it is not nil. Every configuration
// is validated before the first table is built. If ctx ends midway the configurations already
// finished are returned along with the error.
func Sweep(ctx context.Context, p Params, g Grid, h Hash, src io.Reader, report func(Stats)) ([]Stats, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	configs := make([]Params, 0, len(g.Chains)*len(g.Lengths))
	for _, k := range g.Chains {
		for _, l := range g.Lengths {
			q := p
			q.Chains, q.Length = k, l
			if err := q.Validate(h); err != nil {
				return nil, err
			}
			configs = append(configs, q)
		}
	}

	out := make([]Stats, 0, len(configs))
	for _, q := range configs {
		s, err := run(ctx, q, g.Trials, h, src)
		if err != nil {
			return out, fmt.Errorf("hellman: K=%d L=%d: %w", q.Chains, q.Length, err)
		}
		if report != nil {
			report(s)
		}
		out = append(out, s)
	}
	return out, nil
}

// run measures a single configuration.
func run(ctx context.Context, p Params, trials int, h Hash, src io.Reader) (Stats, error) {
	s := Stats{Chains: p.Chains, Length: p.Length, Tables: p.Tables, Coverage: Coverage(p)}

	start := time.Now()
	tables, err := BuildTables(ctx, p, h, src)
	if err != nil {
		return s, err
	}
	s.Precompute, start = time.Since(start), time.Now()
	for _, t := range tables {
		s.Entries += t.Len()
	}

	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		_, _, trunc, err := target(h, p.NBytes(), src)
		if err != nil {
			return s, err
		}
		r, err := attack(ctx, tables, trunc)
		if err != nil {
			return s, err
		}
		s.Trials++
		switch {
		case r.Found:
			s.Success++
		case r.FalseAlarm:
			s.FalseAlarms++
			fallthrough
		default:
			s.Failure++
		}
	}
	s.Search = time.Since(start)
	return s, nil
}
