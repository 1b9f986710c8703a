package irtx

import (
	"math"
	"time"
)

const (
	// Freq38Khz is the most commonly used carrier frequency for IR remotes
	Freq38Khz = 38000
)

// TimePair encodes a mark (carrier on) duration followed by a space (carrier off) duration.
type TimePair [2]time.Duration

// Encoder is implemented by protocol command types.
//
// Encode writes the pulse train for the command into buf, starting at buf[0],
// and returns the number of durations written. Durations are expressed in
// ticks of freq (Hz), the rate at which the transmitter is ticked. Even
// positions are marks, odd positions are spaces.
//
// An Encoder must never write past len(buf) and must return
// min(len(buf), durations needed); a command that doesn't fit is truncated.
type Encoder interface {
	Encode(freq uint32, buf []uint32) int
}

// Ticks converts d into a count of freq ticks, rounding to the nearest tick.
// Positive durations always yield at least one tick; the result saturates at
// math.MaxUint32.
func Ticks(d time.Duration, freq uint32) uint32 {
	if d <= 0 || freq == 0 {
		return 0
	}
	ns := uint64(d)
	if ns > (math.MaxUint64-uint64(time.Second/2))/uint64(freq) {
		return math.MaxUint32
	}
	t := (ns*uint64(freq) + uint64(time.Second/2)) / uint64(time.Second)
	switch {
	case t == 0:
		return 1
	case t > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(t)
}

// Duration is the inverse of Ticks, give or take rounding.
func Duration(ticks, freq uint32) time.Duration {
	if freq == 0 {
		return 0
	}
	return time.Duration(uint64(ticks) * uint64(time.Second) / uint64(freq))
}

// PulseWriter fills an encoder's output window. It tracks polarity by
// position so that encoders can describe a frame as a series of marks and
// spaces: a space at the very start is dropped (the carrier is already off)
// and consecutive segments of the same polarity are merged.
//
// Once a segment doesn't fit, everything after it is dropped too, so the
// window always holds a prefix of the full train.
type PulseWriter struct {
	buf  []uint32
	n    int
	freq uint32
	full bool
}

// NewPulseWriter returns a writer over buf whose durations are in ticks of freq.
func NewPulseWriter(freq uint32, buf []uint32) PulseWriter {
	return PulseWriter{buf: buf, freq: freq}
}

// Mark appends a carrier-on segment.
func (w *PulseWriter) Mark(d time.Duration) {
	w.segment(true, Ticks(d, w.freq))
}

// Space appends a carrier-off segment.
func (w *PulseWriter) Space(d time.Duration) {
	w.segment(false, Ticks(d, w.freq))
}

// Pair appends p's mark and then its space.
func (w *PulseWriter) Pair(p TimePair) {
	w.Mark(p[0])
	w.Space(p[1])
}

// Put appends a duration already expressed in ticks, with no polarity
// bookkeeping: its position decides whether it is a mark or a space.
func (w *PulseWriter) Put(ticks uint32) {
	if w.full {
		return
	}
	if w.n == len(w.buf) {
		w.full = true
		return
	}
	w.buf[w.n] = ticks
	w.n++
}

// Len returns the number of durations written so far.
func (w *PulseWriter) Len() int {
	return w.n
}

func (w *PulseWriter) segment(mark bool, ticks uint32) {
	if w.full || ticks == 0 {
		return
	}
	if !mark && w.n == 0 {
		return
	}
	// the next slot is a mark when n is even
	if w.n > 0 && (w.n%2 == 0) != mark {
		last := &w.buf[w.n-1]
		if uint64(*last)+uint64(ticks) > math.MaxUint32 {
			*last = math.MaxUint32
		} else {
			*last += ticks
		}
		return
	}
	w.Put(ticks)
}

// Raw is a pulse train already expressed in ticks. It ignores freq.
type Raw []uint32

// Encode implements Encoder.
func (r Raw) Encode(_ uint32, buf []uint32) int {
	return copy(buf, r)
}

// Durations is a pulse train of alternating mark and space durations.
type Durations []time.Duration

// Encode implements Encoder.
func (ds Durations) Encode(freq uint32, buf []uint32) int {
	w := NewPulseWriter(freq, buf)
	for _, d := range ds {
		w.Put(Ticks(d, freq))
	}
	return w.Len()
}
