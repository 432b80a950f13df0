package hellman

import (
	"bytes"
	"testing"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

func TestCombine(t *testing.T) {
	t.Parallel()
	value, mask := []byte{1, 2}, []byte{3, 4, 5}
	got := Combine(value, mask)
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("Combine = %v", got)
	}
	got[0] = 9
	if value[0] != 1 {
		t.Error("Combine aliases value")
	}
}

func TestStep(t *testing.T) {
	t.Parallel()
	h := mustHash(t, DefaultHash)
	value, mask := []byte{0xde, 0xad, 0xbe, 0xef}, []byte("twelve bytes")

	want := Truncate(h.Sum(nil, append([]byte{0xde, 0xad, 0xbe, 0xef}, mask...)), 4)
	if got := Step(h, value, mask, 4); !bytes.Equal(got, want) {
		t.Fatalf("Step = %x, want %x", got, want)
	}
	if !bytes.Equal(Step(h, value, mask, 4), Step(h, value, mask, 4)) {
		t.Error("Step is not deterministic")
	}
	if bytes.Equal(Step(h, value, mask, 4), Step(h, value, []byte("twelve bytez"), 4)) {
		t.Error("Step ignores the mask")
	}
}

func TestStepperMatchesStep(t *testing.T) {
	t.Parallel()
	for _, name := range HashNames() {
		h := mustHash(t, name)
		mask := []byte{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}
		want, got := []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}
		for i := 0; i < 10; i++ {
			want = Step(h, want, mask, 4)
		}
		newStepper(h, mask, 4).walk(got, 10)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: stepper walked to %x, Step to %x", name, got, want)
		}
	}
}
