package hellman

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The chaining function: a chain value is widened by the table's mask, hashed, and cut back down
// to the attacked width. All randomness lives in the mask and in the chain's start.

// Combine appends mask to value. This is the whole input to the hash for one step, and also the
// shape of every preimage Lookup returns.
func Combine(value, mask []byte) []byte {
	out := make([]byte, 0, len(value)+len(mask))
	return append(append(out, value...), mask...)
}

// Truncate returns the last nBytes bytes of digest.
func Truncate(digest []byte, nBytes int) []byte {
	return digest[len(digest)-nBytes:]
}

// Step computes Truncate(h(value ‖ mask), nBytes) into a fresh slice.
func Step(h Hash, value, mask []byte, nBytes int) []byte {
	out := make([]byte, nBytes)
	copy(out, Truncate(h.Sum(nil, Combine(value, mask)), nBytes))
	return out
}

// stepper is Step without the allocations. One belongs to exactly one goroutine: value is
// rewritten in place and the input and digest buffers are reused between calls.
type stepper struct {
	h      Hash
	nBytes int
	in     []byte /* value ‖ mask */
	sum    []byte
}

func newStepper(h Hash, mask []byte, nBytes int) *stepper {
	s := &stepper{h: h, nBytes: nBytes, in: make([]byte, nBytes+len(mask))}
	copy(s.in[nBytes:], mask)
	s.sum = make([]byte, 0, h.Size())
	return s
}

// step advances value by one link of the chain.
func (s *stepper) step(value []byte) {
	copy(s.in, value)
	s.sum = s.h.Sum(s.sum[:0], s.in)
	copy(value, Truncate(s.sum, s.nBytes))
}

// walk advances value by n links.
func (s *stepper) walk(value []byte, n int) {
	for ; n > 0; n-- {
		s.step(value)
	}
}
