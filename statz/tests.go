package main

import (
	"encoding/binary"
	. "fmt"
	"github.com/p7r0x7/hellman"
	"math/big"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const ints = uint32(5e4)

// meanBias returns how far, on average over every bit position, the share of set bits among
// outputs strays from one half, as a percentage of one half.
func meanBias(outputs map[uint32]*big.Int, ln int) float64 {
	tally := make([]int32, ln)
	for i := range outputs {
		for i2 := ln - 1; i2 >= 0; i2-- {
			if outputs[i].Bit(i2) == 1 {
				tally[i2]++
			}
		}
	}
	var total int32
	for i := range tally {
		tally[i] = tally[i] - int32(ints>>1)
		if tally[i] < 0 {
			total += tally[i] * -1
		} else {
			total += tally[i]
		}
	}
	return (float64(total) / float64(ln)) / float64(ints>>1) * 100
}

// biasTest runs the monobit test over truncated chain steps, once on sequential chain values and
// once on chain values drawn from the system CSPRNG. Only the attacked bits are examined: a
// chain is exactly as good as the uniformity of those.
func biasTest() {
	mask, err := hellman.Bits(hellman.Rand, 128-bits)
	if err != nil {
		panic("failed to generate random mask")
	}
	for _, name := range hellman.HashNames() {
		h, _ := hellman.LookupHash(name)
		integers, random := map[uint32]*big.Int{}, map[uint32]*big.Int{}
		iBytes := make([]byte, bits>>3)
		for i := ints; i > 0; i-- {
			binary.BigEndian.PutUint32(iBytes, i)
			integers[i] = new(big.Int).SetBytes(hellman.Step(h, iBytes, mask, bits>>3))
			rBytes, err := hellman.Bits(hellman.Rand, bits)
			if err != nil {
				panic("failed to generate random data")
			}
			random[i] = new(big.Int).SetBytes(hellman.Step(h, rBytes, mask, bits>>3))
		}
		Printf("%-12s integer input monobit: %5.3f%%   random input monobit: %5.3f%%\n", name,
			meanBias(integers, bits), meanBias(random, bits))
	}
}
