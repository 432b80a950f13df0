package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	. "fmt"
	"github.com/p7r0x7/hellman"
	"github.com/p7r0x7/vainpath"
	. "github.com/spf13/pflag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"unicode/utf8"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure, invalid = 0, 1, 2

const (
	modeOnce = iota + 1
	modeSweep
	modeBatchOnce
	modeBatchSweep
)

var warnings = 0

func main() {
	Parse()
	pStrict = pStrict || pDebug
	os.Exit(program())
}

// help prints a usage menu. To consistently correctly render this menu in most terminal windows,
// its content should be no wider than 80 columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "hellman" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "Hellman time-memory tradeoff against truncated hashes.", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-b] [-H <hash>] [-n <bits>] [-w <bits>] [-K <int>] [-L <int>] 1|3"+n,
		spaces, "[-T <int>] [-N <int>] [-K <int,...>] [-L <int,...>] 2|4"+n+n+
			"Modes:"+n+
			"  1  precompute one table and attack one random digest"+n+
			"  2  attack N digests with one table per (K, L) and tally results"+n+
			"  3  precompute T tables in parallel and attack one random digest"+n+
			"  4  attack N digests with T tables per (K, L) and tally results"+n+n+
			"Options:"+n)
	PrintDefaults()
	name = vainpath.Trim(origin, "…", 15)
	Fprint(os.Stderr, n+"Without a mode argument `", name, "` asks for one on ", os.Stdin.Name(), "."+n)
}

// This program is a command-line interface for hellman: it builds tables and attacks digests in
// whichever of the four modes the operator selects, then reports on what it found.
func program() int {
	if pDebug {
		defer profile()()
	}
	if pHelp {
		help()
		return success
	}

	mode, err := selectMode(Args(), os.Stdin)
	if err != nil {
		Fprint(os.Stderr, purp, err, zero, n)
		return invalid
	}
	h, err := hellman.LookupHash(pHash)
	if err != nil {
		Fprint(os.Stderr, purp, err, zero, n)
		return invalid
	}
	src, err := source()
	if err != nil {
		Fprint(os.Stderr, purp, err, zero, n)
		return invalid
	}

	p := hellman.Params{
		Bits:       pBits,
		Width:      pWidth,
		Tables:     1,
		SharedMask: !pFresh,
	}
	if mode == modeBatchOnce || mode == modeBatchSweep {
		p.Tables = pTables
	}
	if len(pChains) > 0 && len(pLengths) > 0 {
		p.Chains, p.Length = pChains[0], pLengths[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if pBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pBudget)
		defer cancel()
	}

	rep := report{Mode: mode, Hash: h.Name(), Bits: p.Bits, Width: p.Width, Tables: p.Tables,
		SharedMask: p.SharedMask}
	switch mode {
	case modeOnce, modeBatchOnce:
		if err = p.Validate(h); err != nil {
			Fprint(os.Stderr, purp, err, zero, n)
			return invalid
		}
		if !pQuiet {
			Print("Precomputing ", p.Tables, " table(s) of K=", p.Chains, ", L=", p.Length, " on ",
				h.Name(), "…", n)
		}
		var tr hellman.Trial
		if tr, err = hellman.Once(ctx, p, h, src); err != nil {
			Fprint(os.Stderr, purp, err, zero, n)
			return failure
		}
		rep.Trial = printTrial(tr, p)
	default:
		g := hellman.Grid{Chains: pChains, Lengths: pLengths, Trials: pTrials}
		if err = g.Validate(); err != nil {
			Fprint(os.Stderr, purp, err, zero, n)
			return invalid
		}
		rep.Stats, err = hellman.Sweep(ctx, p, g, h, src, printStats)
		if err != nil {
			Fprint(os.Stderr, purp, err, zero, n)
			if len(rep.Stats) == 0 {
				return failure
			}
			warn(err)
		}
	}

	if pJSON || pQuiet {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			warn(err)
		}
	}
	if pOutput != "" {
		if err := rep.write(pOutput); err != nil {
			warn(err)
		} else if !pQuiet {
			Print("Report written to ", und, vainpath.Simplify(pOutput), zero, n)
		}
	}

	if warnings > 0 {
		if !pQuiet {
			Fprint(os.Stderr, warnings, " ", purp, "problem(s) occurred; the report may be incomplete.",
				zero, n)
		}
		return failure
	}
	return success
}

// selectMode reads the mode from the first argument or, failing that, from a prompt answered on in.
func selectMode(args []string, in io.Reader) (int, error) {
	var choice string
	if len(args) > 0 {
		choice = args[0]
	} else {
		Fprint(os.Stderr, "Choose attack:"+n+
			"\t1. single table, once"+n+
			"\t2. single table, sweep"+n+
			"\t3. parallel tables, once"+n+
			"\t4. parallel tables, sweep"+n)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return 0, Errorf("no mode selected: %v", err)
		}
		choice = strings.TrimSpace(line)
	}
	switch choice {
	case "1":
		return modeOnce, nil
	case "2":
		return modeSweep, nil
	case "3":
		return modeBatchOnce, nil
	case "4":
		return modeBatchSweep, nil
	}
	return 0, Errorf("invalid mode %q: choose 1, 2, 3 or 4", choice)
}

// source returns the seeded stream requested by --seed, or the system CSPRNG.
func source() (io.Reader, error) {
	if pSeed == "" {
		return hellman.Rand, nil
	}
	raw, err := hex.DecodeString(pSeed)
	if err != nil || len(raw) != hellman.SeedSize {
		return nil, Errorf("seed must be %d hex-encoded bytes", hellman.SeedSize)
	}
	var seed [hellman.SeedSize]byte
	copy(seed[:], raw)
	return hellman.NewSeededSource(seed), nil
}

func encode(b []byte) string {
	if pBase64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

// split renders a digest as its untouched prefix and attacked suffix.
func split(digest []byte, nBytes int) string {
	cut := len(digest) - nBytes
	return encode(digest[:cut]) + " " + yell + encode(digest[cut:]) + zero
}

func printTrial(tr hellman.Trial, p hellman.Params) *trialReport {
	r := &trialReport{
		Plaintext: encode(tr.Plaintext),
		Digest:    encode(tr.Digest),
		Found:     tr.Found,
		Table:     tr.Table,
		Depth:     tr.Depth,
		Alarms:    tr.FalseAlarms,
		Precomp:   tr.Precompute.String(),
		Search:    tr.Search.String(),
	}
	if tr.Candidate != nil {
		r.Candidate, r.CandidateDigest = encode(tr.Candidate), encode(tr.CandidateDigest)
	}
	if pQuiet {
		return r
	}

	Print("Generated vector: ", encode(tr.Plaintext), n)
	Print("Original hash value: ", split(tr.Digest, p.NBytes()), n)
	if tr.Candidate != nil {
		Print("Preimage: ", und, encode(tr.Candidate), zero, n)
		Print("Preimage hash: ", split(tr.CandidateDigest, p.NBytes()), n)
	}
	switch {
	case tr.Found:
		Print(yell, "Preimage successfully found!", zero, " (table ", tr.Table, ", depth ", tr.Depth,
			", ", tr.Precompute, " + ", tr.Search, ")", n)
	case tr.FalseAlarm:
		Print(purp, "Preimage not found!", zero, " (", tr.FalseAlarms, " false alarm(s))", n)
	default:
		Print(purp, "Preimage not found!", zero, n)
	}
	return r
}

func printStats(s hellman.Stats) {
	if pQuiet {
		return
	}
	Printf("K: %d, L: %d => success: %d, fail: %d, Percent of success found preimage: %s%.2f%%%s, "+
		"Percent of not found preimage: %.2f%% (bound %.2f%%, %d false alarms, %d endpoints)\n",
		s.Chains, s.Length, s.Success, s.Failure, yell, s.SuccessPercent(), zero, s.FailurePercent(),
		s.Coverage*100, s.FalseAlarms, s.Entries)
}

// profile starts the CPU profile and returns the function that stops it and writes the others.
func profile() func() {
	cf, err := os.Create("cpu.prof")
	if err != nil {
		panic(err)
	}
	_ = pprof.StartCPUProfile(cf)
	return func() {
		pprof.StopCPUProfile()
		cf.Close()
		for _, name := range [...]string{"goroutine", "block", "allocs", "mutex"} {
			f, err := os.Create(name + ".prof")
			if err != nil {
				panic(err)
			}
			_ = pprof.Lookup(name).WriteTo(f, 0)
			f.Close()
		}
	}
}

func warn(err ...interface{}) {
	if pStrict {
		panic(err)
	}
	warnings++
}
