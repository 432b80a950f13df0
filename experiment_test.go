package hellman

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// ceiling is the most successes n trials can plausibly reach when no trial can succeed with
// probability above bound: the mean plus five standard deviations, plus one.
func ceiling(bound float64, n int) int {
	mean := bound * float64(n)
	return int(mean+5*math.Sqrt(mean)) + 1
}

func checkStats(t *testing.T, s Stats, trials int) {
	t.Helper()
	if s.Trials != trials || s.Success+s.Failure != trials {
		t.Errorf("K=%d L=%d: %d + %d of %d trials", s.Chains, s.Length, s.Success, s.Failure, s.Trials)
	}
	if sp, fp := s.SuccessPercent(), s.FailurePercent(); sp < 0 || sp > 100 || math.Abs(sp+fp-100) > 1e-9 {
		t.Errorf("K=%d L=%d: success %v%%, failure %v%%", s.Chains, s.Length, sp, fp)
	}
	if s.FalseAlarms > s.Failure {
		t.Errorf("K=%d L=%d: %d false alarms among %d failures", s.Chains, s.Length, s.FalseAlarms, s.Failure)
	}
	if s.Success > ceiling(s.Coverage, trials) {
		t.Errorf("K=%d L=%d: %d successes exceed the coverage bound %v", s.Chains, s.Length, s.Success,
			s.Coverage)
	}
}

func TestSweepBounds(t *testing.T) {
	t.Parallel()
	p := Params{Bits: 16, Width: 64, Tables: 1}
	g := Grid{Chains: []int{16, 64}, Lengths: []int{8, 32}, Trials: 500}

	var reported []Stats
	stats, err := Sweep(context.Background(), p, g, mustHash(t, DefaultHash), seedSrc(20),
		func(s Stats) { reported = append(reported, s) })
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 4 || len(reported) != 4 {
		t.Fatalf("got %d stats, %d reports, want 4 of each", len(stats), len(reported))
	}
	i := 0
	for _, k := range g.Chains {
		for _, l := range g.Lengths {
			if stats[i].Chains != k || stats[i].Length != l {
				t.Errorf("stats[%d] is K=%d L=%d, want K=%d L=%d", i, stats[i].Chains, stats[i].Length, k, l)
			}
			checkStats(t, stats[i], g.Trials)
			i++
		}
	}
}

func TestSweepTradeoff(t *testing.T) {
	t.Parallel()
	p := Params{Bits: 16, Width: 128, Tables: 1}
	g := Grid{Chains: []int{64}, Lengths: []int{32}, Trials: 2000}

	stats, err := Sweep(context.Background(), p, g, mustHash(t, DefaultHash), seedSrc(21), nil)
	if err != nil {
		t.Fatal(err)
	}
	s := stats[0]
	checkStats(t, s, g.Trials)
	if want := 64.0 * 32 / 65536; s.Coverage != want {
		t.Errorf("coverage = %v, want %v", s.Coverage, want)
	}
	if s.Success == 0 {
		t.Errorf("no successes against an expected %.0f", s.Coverage*float64(g.Trials))
	}
}

func TestSweepMultiTable(t *testing.T) {
	t.Parallel()
	p := Params{Bits: 16, Width: 128, Tables: 4, SharedMask: true}
	g := Grid{Chains: []int{32}, Lengths: []int{16}, Trials: 500}

	stats, err := Sweep(context.Background(), p, g, mustHash(t, "blake3-512"), seedSrc(22), nil)
	if err != nil {
		t.Fatal(err)
	}
	checkStats(t, stats[0], g.Trials)
	if stats[0].Tables != 4 || stats[0].Entries > 4*32 {
		t.Errorf("tables = %d, entries = %d", stats[0].Tables, stats[0].Entries)
	}
}

// The K=1024, L=128, n=32 configuration covers about 2^-15 of the digest space, so nearly every
// trial fails and none may push the rate past the bound.
func TestSweepScenario(t *testing.T) {
	t.Parallel()
	trials := 10000
	if testing.Short() {
		trials = 1000
	}
	g := Grid{Chains: []int{1024}, Lengths: []int{128}, Trials: trials}

	stats, err := Sweep(context.Background(), DefaultParams, g, mustHash(t, DefaultHash), seedSrc(23), nil)
	if err != nil {
		t.Fatal(err)
	}
	checkStats(t, stats[0], trials)
	if stats[0].Coverage != Coverage(DefaultParams) {
		t.Errorf("coverage = %v, want %v", stats[0].Coverage, Coverage(DefaultParams))
	}
}

func TestSweepInvalid(t *testing.T) {
	t.Parallel()
	h := mustHash(t, DefaultHash)
	for _, g := range []Grid{
		{Chains: nil, Lengths: []int{1}, Trials: 1},
		{Chains: []int{1}, Lengths: []int{0}, Trials: 1},
		{Chains: []int{-1}, Lengths: []int{1}, Trials: 1},
		{Chains: []int{1}, Lengths: []int{1}, Trials: 0},
	} {
		if _, err := Sweep(context.Background(), DefaultParams, g, h, seedSrc(24), nil); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("Sweep(%+v) err = %v, want ErrInvalidParams", g, err)
		}
	}

	/* Truncating to the whole digest is rejected before any table is built. */
	reported := 0
	p := Params{Bits: 256, Width: 512, Tables: 1}
	_, err := Sweep(context.Background(), p, Grid{Chains: []int{4}, Lengths: []int{4}, Trials: 1},
		mustHash(t, "sha256"), seedSrc(25), func(Stats) { reported++ })
	if !errors.Is(err, ErrInvalidParams) || reported != 0 {
		t.Errorf("err = %v after %d reports, want ErrInvalidParams after none", err, reported)
	}
}

func TestSweepCancelled(t *testing.T) {
	t.Parallel()
	p := Params{Bits: 16, Width: 128, Tables: 1}
	g := Grid{Chains: []int{8, 8}, Lengths: []int{4}, Trials: 1 << 30}
	h := mustHash(t, DefaultHash)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := Sweep(ctx, p, g, h, seedSrc(26), nil)
	if !errors.Is(err, context.Canceled) || len(stats) != 0 {
		t.Errorf("Sweep = %d stats, %v; want none and context.Canceled", len(stats), err)
	}

	/* A budget far too small for 2^30 trials ends the first configuration early. */
	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	stats, err = Sweep(ctx, p, g, h, seedSrc(26), nil)
	if !errors.Is(err, context.DeadlineExceeded) || len(stats) != 0 {
		t.Errorf("Sweep = %d stats, %v; want none and context.DeadlineExceeded", len(stats), err)
	}
}

func TestOnce(t *testing.T) {
	t.Parallel()
	h := mustHash(t, DefaultHash)
	for _, tables := range []int{1, 4} {
		p := Params{Bits: 16, Width: 128, Chains: 256, Length: 64, Tables: tables, SharedMask: true}
		tr, err := Once(context.Background(), p, h, seedSrc(27))
		if err != nil {
			t.Fatal(err)
		}
		if len(tr.Plaintext) != PlaintextBits/8 {
			t.Errorf("plaintext is %d bytes", len(tr.Plaintext))
		}
		if !bytes.Equal(tr.Digest, h.Sum(nil, tr.Plaintext)) || !bytes.Equal(tr.Target, Truncate(tr.Digest, 2)) {
			t.Error("digest or target does not match the plaintext")
		}
		if tr.Found && !Verify(h, tr.Preimage, tr.Target) || !tr.Found && tr.Preimage != nil {
			t.Errorf("Found = %v disagrees with preimage %x", tr.Found, tr.Preimage)
		}
		if tr.Candidate != nil && !bytes.Equal(tr.CandidateDigest, h.Sum(nil, tr.Candidate)) {
			t.Error("candidate digest does not match the candidate")
		}
	}

	if _, err := Once(context.Background(), Params{}, h, seedSrc(28)); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Once(zero params) err = %v, want ErrInvalidParams", err)
	}
}

func TestCoverage(t *testing.T) {
	t.Parallel()
	for _, c := range []struct {
		p    Params
		want float64
	}{
		{Params{Bits: 16, Chains: 64, Length: 32, Tables: 1}, 1.0 / 32},
		{Params{Bits: 16, Chains: 64, Length: 32, Tables: 4}, 1.0 / 8},
		{Params{Bits: 8, Chains: 64, Length: 32, Tables: 1}, 1},
		{DefaultParams, math.Ldexp(1, -15)},
	} {
		if got := Coverage(c.p); got != c.want {
			t.Errorf("Coverage(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}
