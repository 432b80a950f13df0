package main

import (
	"github.com/p7r0x7/hellman"
	. "github.com/spf13/pflag"
	"os"
	"strings"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var pBits, pWidth, pTables, pTrials int
var pChains, pLengths = []int(nil), []int(nil)
var pHash, pSeed, pOutput, pBudget = "", "", "", time.Duration(0)
var pHelp, pBase64, pFresh, pJSON, pNoCodes, pQuiet, pStrict, pDebug, pNoCodesDefault bool
var yell, purp, und, zero = "\033[33m", "\033[35m", "\033[4m", "\033[0m"

func init() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-codes=false":
			pNoCodes = false
		case "--quiet", "--quiet=true":
			pNoCodes, pQuiet = true, true
		case "--no-codes", "--no-codes=true":
			pNoCodes = true
		}
	}
	if pNoCodes {
		yell, purp, und, zero = "", "", "", ""
	}

	BoolVarP(&pHelp, "help", "h", false,
		purp+"print this help menu"+zero+n)

	BoolVarP(&pBase64, "base64", "b", false,
		purp+"render vectors and digests in base64"+zero+" (default hex)")

	IntVarP(&pBits, "bits", "n", hellman.DefaultParams.Bits,
		purp+"attacked digest width in bits (multiple of 8)"+zero)

	DurationVar(&pBudget, "budget", 0,
		purp+"wall-clock budget; unfinished precomputes are abandoned"+zero+
			n+"(0 disables)")

	IntSliceVarP(&pChains, "chains", "K", []int{1 << 10, 1 << 12, 1 << 14},
		purp+"chains per table; sweeps pair every value with every"+zero+
			n+purp+"length, single runs use the first"+zero)

	BoolVar(&pDebug, "debug", false, "")
	CommandLine.MarkHidden("debug")

	BoolVar(&pFresh, "fresh-masks", false,
		purp+"give every table of a multi-table batch its own mask"+zero+
			n+"(default one mask shared by the batch)")

	StringVarP(&pHash, "hash", "H", hellman.DefaultHash,
		purp+"hash under attack, one of"+zero+n+purp+strings.Join(hellman.HashNames(), ", ")+zero)

	BoolVar(&pJSON, "json", false,
		purp+"print the report as JSON"+zero)

	IntSliceVarP(&pLengths, "length", "L", []int{1 << 5, 1 << 6, 1 << 7},
		purp+"chain lengths; sweeps pair every value with every chain"+zero+
			n+purp+"count, single runs use the first"+zero)

	Bool("no-codes", pNoCodesDefault,
		purp+"print to console w/o formatting codes or simplified"+zero+
			n+purp+"filepaths"+zero)

	StringVarP(&pOutput, "output", "o", "",
		purp+"also write the JSON report to this file"+zero)

	Bool("quiet", false,
		purp+"suppress everything but the JSON report"+zero+
			n+"(enables --json and --no-codes)")

	StringVar(&pSeed, "seed", "",
		purp+"hex-encoded 32-byte seed for a reproducible run"+zero+
			n+"(default crypto/rand)")

	BoolVar(&pStrict, "strict", false,
		purp+"cause hellman to panic on any error"+zero)

	IntVarP(&pTables, "tables", "T", 16,
		purp+"tables per batch in modes 3 and 4"+zero)

	IntVarP(&pTrials, "trials", "N", 10000,
		purp+"targets attacked per configuration in modes 2 and 4"+zero)

	IntVarP(&pWidth, "width", "w", hellman.DefaultParams.Width,
		purp+"chain input width in bits; the mask fills the rest"+zero+
			n+purp+"after the chain value"+zero)

	/* Order flags alphabetically except for help, which is hoisted to the top. */
	CommandLine.SortFlags = false
}
