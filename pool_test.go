package hellman

import (
	"context"
	"errors"
	"testing"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

func TestFanOut(t *testing.T) {
	t.Parallel()
	out := make([]int, 1000)
	err := fanOut(context.Background(), len(out), func(i int) error {
		out[i] = i * i
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("job %d wrote %d", i, v)
		}
	}

	if err := fanOut(context.Background(), 0, nil); err != nil {
		t.Errorf("empty fan-out: %v", err)
	}
}

func TestFanOutErrors(t *testing.T) {
	t.Parallel()
	errA, errB := errors.New("a"), errors.New("b")
	err := fanOut(context.Background(), 10, func(i int) error {
		switch i {
		case 3:
			return errA
		case 7:
			return errB
		}
		return nil
	})
	if err != errA {
		t.Errorf("err = %v, want the lowest-indexed failure", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := make([]bool, 1<<16)
	if err := fanOut(ctx, len(ran), func(i int) error { ran[i] = true; return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled fan-out: err = %v", err)
	}
}
