package hellman

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"github.com/dchest/blake512"
	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"sort"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// This file contains the hash functions a chain can be built on. Every one of them has a fixed
// digest size; truncation to the attacked width happens in Step, never here.

// Hash is the primitive under attack. Sum appends the digest of msg to dst and returns the
// extended slice, like hash.Hash.Sum, so hot loops can reuse one buffer per goroutine.
type Hash interface {
	Name() string
	Size() int
	Sum(dst, msg []byte) []byte
}

// ErrUnknownHash is returned by LookupHash for names missing from the registry.
var ErrUnknownHash = errors.New("hellman: unknown hash")

// DefaultHash is the hash used when none is configured.
const DefaultHash = "sha512"

type fixed struct {
	name string
	size int
	sum  func(dst, msg []byte) []byte
}

func (f fixed) Name() string               { return f.name }
func (f fixed) Size() int                  { return f.size }
func (f fixed) Sum(dst, msg []byte) []byte { return f.sum(dst, msg) }

var hashes = map[string]Hash{
	"sha512": fixed{"sha512", sha512.Size, func(dst, msg []byte) []byte {
		sum := sha512.Sum512(msg)
		return append(dst, sum[:]...)
	}},
	"sha3-512": fixed{"sha3-512", 64, func(dst, msg []byte) []byte {
		sum := sha3.Sum512(msg)
		return append(dst, sum[:]...)
	}},
	"blake2b-512": fixed{"blake2b-512", blake2b.Size, func(dst, msg []byte) []byte {
		sum := blake2b.Sum512(msg)
		return append(dst, sum[:]...)
	}},
	"blake3-512": fixed{"blake3-512", 64, func(dst, msg []byte) []byte {
		sum := blake3.Sum512(msg)
		return append(dst, sum[:]...)
	}},
	"blake512": fixed{"blake512", blake512.Size, func(dst, msg []byte) []byte {
		/* BLAKE-512 only exposes the streaming interface. */
		d := blake512.New()
		d.Write(msg)
		return d.Sum(dst)
	}},
	"sha256": fixed{"sha256", sha256.Size, func(dst, msg []byte) []byte {
		sum := sha256.Sum256(msg)
		return append(dst, sum[:]...)
	}},
}

// LookupHash returns the registered hash called name.
func LookupHash(name string) (Hash, error) {
	if h, ok := hashes[name]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownHash, name, HashNames())
}

// HashNames lists the registry in alphabetical order.
func HashNames() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
