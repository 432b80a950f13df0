package hellman

import (
	"crypto/rand"
	"fmt"
	"github.com/aead/chacha20/chacha"
	"io"
	"sync"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Rand is the source used when a caller does not supply one.
var Rand io.Reader = rand.Reader

// SeedSize is the length in bytes of a NewSeededSource seed.
const SeedSize = chacha.KeySize

// Bits draws bits/8 bytes from src.
func Bits(src io.Reader, bits int) ([]byte, error) {
	buf := make([]byte, bits>>3)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("hellman: drawing %d random bits: %w", bits, err)
	}
	return buf, nil
}

// seeded is a ChaCha20 keystream read as a byte source. It is safe for concurrent use, though
// concurrent readers see the stream in whatever order they win the lock.
type seeded struct {
	mu     sync.Mutex
	stream *chacha.Cipher
}

// NewSeededSource returns a deterministic source keyed by seed. Equal seeds yield equal
// streams, which is what reproducible sweeps and tests rely on.
func NewSeededSource(seed [SeedSize]byte) io.Reader {
	var nonce [chacha.NonceSize]byte
	stream, err := chacha.NewCipher(nonce[:], seed[:], 20)
	if err != nil {
		panic(err) /* Key and nonce sizes are fixed above. */
	}
	return &seeded{stream: stream}
}

func (s *seeded) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.mu.Lock()
	s.stream.XORKeyStream(p, p)
	s.mu.Unlock()
	return len(p), nil
}

// substream keys a fresh ChaCha20 stream from src. Each unit of parallel work gets its own, so
// the draws of one table never depend on how the scheduler interleaved the others.
func substream(src io.Reader) (io.Reader, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(src, seed[:]); err != nil {
		return nil, fmt.Errorf("hellman: seeding substream: %w", err)
	}
	return NewSeededSource(seed), nil
}
