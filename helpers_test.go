package hellman

import (
	"io"
	"testing"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

func seedSrc(b byte) io.Reader {
	var seed [SeedSize]byte
	for i := range seed {
		seed[i] = b + byte(i)
	}
	return NewSeededSource(seed)
}

func mustHash(t testing.TB, name string) Hash {
	t.Helper()
	h, err := LookupHash(name)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

// constHash sends every input to the same digest, so every chain merges after one step.
type constHash struct{}

func (constHash) Name() string               { return "const" }
func (constHash) Size() int                  { return 8 }
func (constHash) Sum(dst, msg []byte) []byte { return append(dst, 1, 2, 3, 4, 5, 6, 7, 8) }

// only returns the single (endpoint, start) pair of a one-chain table.
func only(t *testing.T, tbl *Table) (endpoint, start []byte) {
	t.Helper()
	if tbl.Len() != 1 {
		t.Fatalf("table has %d entries, want 1", tbl.Len())
	}
	for k, v := range tbl.ends {
		return []byte(k), v
	}
	return nil, nil
}
