package ppm

import (
	"testing"
	"time"
)

func TestFrameEncode(t *testing.T) {
	f := SafeChannelsMid
	f[0] = 1000 * time.Microsecond
	f[1] = 2000 * time.Microsecond
	f[2] = 5 * time.Millisecond // clamped
	f[3] = 0                    // clamped

	var buf [FrameLen]uint32
	if n := f.Encode(1_000_000, buf[:]); n != FrameLen {
		t.Fatalf("encoded %d, want %d", n, FrameLen)
	}
	if buf[0] != 6500 || buf[1] != 300 {
		t.Fatalf("sync = %d/%d", buf[0], buf[1])
	}

	want := []uint32{1000, 2000, 2000, 1000, 1500}
	for ch, w := range want {
		mark, space := buf[2+2*ch], buf[3+2*ch]
		if space != 300 || mark+space != w {
			t.Fatalf("channel %d = %d+%d, want total %d", ch, mark, space, w)
		}
	}
}

func TestFloat32Conversions(t *testing.T) {
	tests := []struct {
		x float32
		d time.Duration
	}{
		{-1, 1000 * time.Microsecond},
		{0, 1500 * time.Microsecond},
		{1, 2000 * time.Microsecond},
	}
	for _, tt := range tests {
		if got := Float32ToDuration(tt.x); got != tt.d {
			t.Fatalf("Float32ToDuration(%v) = %v, want %v", tt.x, got, tt.d)
		}
		if got := DurationToFloat32(tt.d); got != tt.x {
			t.Fatalf("DurationToFloat32(%v) = %v, want %v", tt.d, got, tt.x)
		}
	}
	if got := Float32ToDuration(3); got != ChannelMax {
		t.Fatalf("out of range input not clamped: %v", got)
	}
}

func TestFrameEncodeTruncates(t *testing.T) {
	var full [FrameLen]uint32
	SafeChannelsBottom.Encode(1_000_000, full[:])

	var buf [7]uint32
	if n := SafeChannelsBottom.Encode(1_000_000, buf[:]); n != len(buf) {
		t.Fatalf("encoded %d into a window of %d", n, len(buf))
	}
	for i := range buf {
		if buf[i] != full[i] {
			t.Fatalf("duration %d = %d, want %d", i, buf[i], full[i])
		}
	}
}
