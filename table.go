package hellman

import (
	"context"
	"fmt"
	"github.com/zeebo/xxh3"
	"io"
	"sort"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Table is one precomputed Hellman table: chain endpoints mapped back to the starts that reached
// them after Length steps under mask. A Table never changes after it is built, so any number of
// goroutines may search it at once.
type Table struct {
	hash   Hash
	mask   []byte
	nBytes int
	length int
	ends   map[string][]byte /* endpoint -> start */
}

// pollEvery is how many chains a build computes between looks at its context.
const pollEvery = 256

// BuildTable draws p.Chains starts of p.Bits bits from src and walks each p.Length steps under
// mask. Endpoints are inserted in draw order and an insert always replaces what was there: when
// two chains merge into one endpoint the table keeps the later start and forgets the earlier one.
// That loss is part of the construction and is reflected in the expected success rates.
//
// A nil mask draws a fresh one of p.Padding() bytes from src first.
func BuildTable(ctx context.Context, p Params, h Hash, mask []byte, src io.Reader) (*Table, error) {
	if err := p.Validate(h); err != nil {
		return nil, err
	}
	if mask == nil {
		var err error
		if mask, err = Bits(src, p.Width-p.Bits); err != nil {
			return nil, err
		}
	} else if len(mask) != p.Padding() {
		return nil, fmt.Errorf("%w: mask is %d bytes, want %d", ErrInvalidParams, len(mask), p.Padding())
	}

	t := &Table{
		hash:   h,
		mask:   append([]byte(nil), mask...),
		nBytes: p.NBytes(),
		length: p.Length,
		ends:   make(map[string][]byte, p.Chains),
	}
	s := newStepper(h, t.mask, t.nBytes)
	end := make([]byte, t.nBytes)

	for i := 0; i < p.Chains; i++ {
		if i%pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("hellman: building table: %w", err)
			}
		}
		start, err := Bits(src, p.Bits)
		if err != nil {
			return nil, err
		}
		copy(end, start)
		s.walk(end, t.length)
		t.ends[string(end)] = start /* Overwrite on insert. */
	}
	return t, nil
}

// BuildTables builds p.Tables independent tables of p.Chains chains each on the worker pool.
// With p.SharedMask a single mask is drawn up front and every table is built on it; otherwise each
// table draws its own. Every table reads its starts from a private ChaCha20 stream keyed from src
// before any work is handed out, so a seeded src reproduces the same batch on every run.
func BuildTables(ctx context.Context, p Params, h Hash, src io.Reader) ([]*Table, error) {
	if err := p.Validate(h); err != nil {
		return nil, err
	}
	var mask []byte
	if p.SharedMask {
		var err error
		if mask, err = Bits(src, p.Width-p.Bits); err != nil {
			return nil, err
		}
	}
	streams := make([]io.Reader, p.Tables)
	for i := range streams {
		var err error
		if streams[i], err = substream(src); err != nil {
			return nil, err
		}
	}

	tables := make([]*Table, p.Tables)
	err := fanOut(ctx, p.Tables, func(i int) (err error) {
		tables[i], err = BuildTable(ctx, p, h, mask, streams[i])
		return err
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// Len is the number of distinct endpoints kept.
func (t *Table) Len() int { return len(t.ends) }

// Length is the number of steps every chain of t was walked.
func (t *Table) Length() int { return t.length }

// Mask returns a copy of the mask t was built on.
func (t *Table) Mask() []byte { return append([]byte(nil), t.mask...) }

// Hash returns the hash t was built on.
func (t *Table) Hash() Hash { return t.hash }

// Start returns the start stored for endpoint, if any.
func (t *Table) Start(endpoint []byte) ([]byte, bool) {
	start, ok := t.ends[string(endpoint)]
	return start, ok
}

// Fingerprint condenses the mask and every (endpoint, start) pair, in endpoint order, into one
// XXH3 value. Equal fingerprints mean equal tables for all practical purposes.
func (t *Table) Fingerprint() uint64 {
	keys := make([]string, 0, len(t.ends))
	for k := range t.ends {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := xxh3.New()
	d.Write(t.mask)
	for _, k := range keys {
		d.Write([]byte(k))
		d.Write(t.ends[k])
	}
	return d.Sum64()
}
