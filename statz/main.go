package main

import (
	. "fmt"
	"github.com/dterei/gotsc"
	"github.com/p7r0x7/hellman"
	"golang.org/x/sys/cpu"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Statz measures the one operation every table build and every lookup is made of, a single chain
// step, on each registered hash and at several chain input widths.

const bits = 32

var widths = [...]int{128, 256, 512, 1024} /* chain input width in bits */
var calltime = gotsc.TSCOverhead()

// stepBench walks a chain of width-bit inputs on h for b.N steps.
func stepBench(h hellman.Hash, width int) func(b *testing.B) {
	return func(b *testing.B) {
		mask := make([]byte, (width-bits)>>3)
		value := make([]byte, bits>>3)
		b.SetBytes(int64(width >> 3))
		b.ReportAllocs()
		b.ResetTimer()
		for i := b.N; i > 0; i-- {
			value = hellman.Step(h, value, mask, bits>>3)
		}
	}
}

func benchAlg(h hellman.Hash) {
	const s = len(widths)
	throughputs, speeds, steps := make([]float64, s), make([]float64, s), make([]float64, s)

	for i, w := range widths {
		totalHz, polls, mut, done := uint64(0), uint64(0), &sync.Mutex{}, make(chan struct{})
		if calltime > 0 {
			go func() {
				for {
					select {
					case <-done:
						return
					default:
					}
					tsc1 := gotsc.BenchStart()
					time.Sleep(time.Millisecond)
					tsc2 := gotsc.BenchEnd()

					mut.Lock()
					totalHz += tsc2 - tsc1 - calltime
					polls++
					mut.Unlock()

					time.Sleep(time.Millisecond * 9)
				}
			}()
		}
		r := testing.Benchmark(stepBench(h, w))
		close(done)
		mut.Lock()
		totalHz *= 1000

		throughputs[i] = float64(r.Bytes*int64(r.N)) / r.T.Seconds() /* B/s */
		if polls > 0 {
			speeds[i] = float64(totalHz) / float64(polls) / throughputs[i]
		}
		throughputs[i] /= 1e6 /* MB/s */
		steps[i] = float64(r.N) / r.T.Seconds()
		mut.Unlock()
	}

	Println("Speed " + fmtFloats(throughputs...) + "   MB/s")
	if calltime > 0 {
		Println("      " + fmtFloats(speeds...) + "   cpb")
	}
	Println("Steps " + fmtFloats(steps...) + "   /s\n")
}

func fmtFloats(f ...float64) string {
	var str, style string
	for _, v := range f {
		switch whole := float64(int64(v)) == v; {
		case v > 1e8 || (v < 1e-6 && !whole):
			style = "%8.3g"
		case v <= 1e1 && !whole:
			style = "%8.6f"
		case v <= 1e2 && !whole:
			style = "%8.5f"
		case v <= 1e3 && !whole:
			style = "%8.4f"
		case v <= 1e4 && !whole:
			style = "%8.3f"
		case v <= 1e5 && !whole:
			style = "%8.2f"
		case v <= 1e6 && !whole:
			style = "%8.1f"
		default:
			style = "%8.f"
		}
		str += "  " + Sprintf(style, v)
	}
	return str
}

// features lists the CPU extensions the hash backends can take advantage of.
func features() string {
	var have []string
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"avx2", cpu.X86.HasAVX2},
		{"avx512f", cpu.X86.HasAVX512F},
		{"bmi2", cpu.X86.HasBMI2},
		{"ssse3", cpu.X86.HasSSSE3},
		{"sha2(arm64)", cpu.ARM64.HasSHA2},
		{"sha512(arm64)", cpu.ARM64.HasSHA512},
		{"sha3(arm64)", cpu.ARM64.HasSHA3},
	} {
		if f.ok {
			have = append(have, f.name)
		}
	}
	if len(have) == 0 {
		return "none detected"
	}
	return strings.Join(have, " ")
}

func main() {
	Printf("Running Statz on %d CPUs!\n%s/%s, %s\n\n", runtime.NumCPU(), runtime.GOOS,
		runtime.GOARCH, features())
	t := time.Now()

	biasTest()
	Println(" ============================================= ")
	Println("chain input      128b      256b      512b     1024b")
	for _, name := range hellman.HashNames() {
		h, _ := hellman.LookupHash(name)
		Println(name)
		benchAlg(h)
	}

	Println("Finished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
