package hellman

import (
	"errors"
	"fmt"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// ErrInvalidParams wraps every configuration error. Only configuration is ever an error: misses
// and false alarms are ordinary outcomes of a search.
var ErrInvalidParams = errors.New("hellman: invalid parameters")

// Params describes one table configuration. Chains and Tables are deliberately separate fields:
// the first sizes a single table, the second counts the tables of a multi-table batch.
type Params struct {
	Bits       int  /* n: attacked digest width and chain value width, in bits */
	Width      int  /* total chain input width in bits; the mask fills Width-Bits */
	Chains     int  /* K: chains drawn per table */
	Length     int  /* L: steps per chain */
	Tables     int  /* tables per batch; 1 for the single-table modes */
	SharedMask bool /* one mask for every table of a batch */
}

// DefaultParams is the K=1024, L=128, n=32 configuration.
var DefaultParams = Params{
	Bits:       32,
	Width:      128,
	Chains:     1 << 10,
	Length:     1 << 7,
	Tables:     1,
	SharedMask: true,
}

// NBytes is the truncated digest length in bytes.
func (p Params) NBytes() int { return p.Bits >> 3 }

// Padding is the mask length in bytes.
func (p Params) Padding() int { return (p.Width - p.Bits) >> 3 }

// Validate reports the first nonsensical field of p for a table built on h.
func (p Params) Validate(h Hash) error {
	switch {
	case p.Bits <= 0 || p.Bits&7 != 0:
		return fmt.Errorf("%w: bits %d must be a positive multiple of 8", ErrInvalidParams, p.Bits)
	case p.Width <= p.Bits || p.Width&7 != 0:
		return fmt.Errorf("%w: width %d must be a multiple of 8 greater than bits %d",
			ErrInvalidParams, p.Width, p.Bits)
	case p.Chains <= 0:
		return fmt.Errorf("%w: chain count %d must be positive", ErrInvalidParams, p.Chains)
	case p.Length <= 0:
		return fmt.Errorf("%w: chain length %d must be positive", ErrInvalidParams, p.Length)
	case p.Tables <= 0:
		return fmt.Errorf("%w: table count %d must be positive", ErrInvalidParams, p.Tables)
	case h == nil:
		return fmt.Errorf("%w: no hash", ErrInvalidParams)
	case p.NBytes() >= h.Size():
		return fmt.Errorf("%w: %d-byte truncation leaves nothing of the %d-byte %s digest",
			ErrInvalidParams, p.NBytes(), h.Size(), h.Name())
	}
	return nil
}

// Grid is the (K, L) parameter grid of a sweep; every chain count is paired with every length.
type Grid struct {
	Chains  []int
	Lengths []int
	Trials  int /* N: targets attacked per configuration */
}

// Validate reports the first nonsensical field of g.
func (g Grid) Validate() error {
	if len(g.Chains) == 0 || len(g.Lengths) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidParams)
	}
	if g.Trials <= 0 {
		return fmt.Errorf("%w: trial count %d must be positive", ErrInvalidParams, g.Trials)
	}
	for _, k := range g.Chains {
		if k <= 0 {
			return fmt.Errorf("%w: chain count %d must be positive", ErrInvalidParams, k)
		}
	}
	for _, l := range g.Lengths {
		if l <= 0 {
			return fmt.Errorf("%w: chain length %d must be positive", ErrInvalidParams, l)
		}
	}
	return nil
}
