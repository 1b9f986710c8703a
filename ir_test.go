package irtx

import (
	"math"
	"slices"
	"testing"
	"time"
)

func TestTicks(t *testing.T) {
	tests := []struct {
		d    time.Duration
		freq uint32
		want uint32
	}{
		{9 * time.Millisecond, 1_000_000, 9000},
		{562500 * time.Nanosecond, 1_000_000, 563},
		{562500 * time.Nanosecond, 38_000, 21},
		{time.Millisecond, 20_000, 20},
		{time.Nanosecond, 1000, 1},
		{0, 1000, 0},
		{-time.Second, 1000, 0},
		{time.Second, 0, 0},
		{time.Duration(math.MaxInt64), math.MaxUint32, math.MaxUint32},
	}
	for _, tt := range tests {
		if got := Ticks(tt.d, tt.freq); got != tt.want {
			t.Fatalf("Ticks(%v, %d) = %d, want %d", tt.d, tt.freq, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(9000, 1_000_000); d != 9*time.Millisecond {
		t.Fatalf("Duration = %v", d)
	}
	if d := Duration(5, 0); d != 0 {
		t.Fatalf("Duration with zero freq = %v", d)
	}
}

func TestPulseWriterPolarity(t *testing.T) {
	var buf [8]uint32
	w := NewPulseWriter(1_000_000, buf[:])

	w.Space(100 * time.Microsecond) // leading space dropped
	w.Mark(10 * time.Microsecond)
	w.Mark(5 * time.Microsecond) // merged
	w.Space(20 * time.Microsecond)
	w.Space(1 * time.Microsecond) // merged
	w.Pair(TimePair{30 * time.Microsecond, 40 * time.Microsecond})
	w.Mark(0) // ignored

	want := []uint32{15, 21, 30, 40}
	if !slices.Equal(buf[:w.Len()], want) {
		t.Fatalf("wrote %v, want %v", buf[:w.Len()], want)
	}
}

func TestPulseWriterTruncatesToPrefix(t *testing.T) {
	var buf [3]uint32
	w := NewPulseWriter(1_000_000, buf[:])

	w.Mark(1 * time.Microsecond)
	w.Space(2 * time.Microsecond)
	w.Mark(3 * time.Microsecond)
	w.Space(4 * time.Microsecond) // doesn't fit
	w.Space(5 * time.Microsecond) // would merge, but the train is already cut
	w.Mark(6 * time.Microsecond)
	w.Put(7)

	if w.Len() != 3 {
		t.Fatalf("len = %d", w.Len())
	}
	if !slices.Equal(buf[:], []uint32{1, 2, 3}) {
		t.Fatalf("wrote %v", buf)
	}
}

func TestPulseWriterMergeSaturates(t *testing.T) {
	var buf [2]uint32
	w := NewPulseWriter(1_000_000, buf[:])
	w.Put(math.MaxUint32 - 1)
	w.Mark(5 * time.Microsecond)
	if w.Len() != 1 || buf[0] != math.MaxUint32 {
		t.Fatalf("merge did not saturate: %v", buf[:w.Len()])
	}
}

func TestRawEncode(t *testing.T) {
	var buf [2]uint32
	if n := (Raw{1, 2, 3}).Encode(0, buf[:]); n != 2 || buf != [2]uint32{1, 2} {
		t.Fatalf("Raw wrote %d %v", n, buf)
	}
}

func TestDurationsEncode(t *testing.T) {
	var buf [4]uint32
	ds := Durations{time.Millisecond, 500 * time.Microsecond, 0}
	n := ds.Encode(10_000, buf[:])
	if n != 3 || !slices.Equal(buf[:n], []uint32{10, 5, 0}) {
		t.Fatalf("Durations wrote %v", buf[:n])
	}
}
