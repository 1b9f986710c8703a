// Package rc5 implements an irtx.Encoder for the Philips RC5 protocol,
// including the RC5X extension for commands 64-127.
package rc5

import (
	"time"

	"github.com/sparques/irtx"
)

const (
	// RC5 is modulated at 36 kHz
	ModulationFrequency = 36_000

	// HalfBit is half of a Manchester coded bit.
	HalfBit = 889 * time.Microsecond

	// Bits is the number of bits in a frame, start bits included.
	Bits = 14

	FramePeriod = 114 * time.Millisecond
)

// MaxFrameLen bounds the number of durations in an encoded Command.
const MaxFrameLen = 2 * Bits

// Command is an RC5 frame. Address is 5 bits and Command is 7 bits; the
// seventh command bit travels inverted in the second start bit. Toggle
// should flip every time a new key press is sent.
type Command struct {
	Address uint8
	Command uint8
	Toggle  bool
}

// Frame returns the 14 frame bits, first bit sent in bit 13.
func (c Command) Frame() uint16 {
	frame := uint16(1) << 13
	if c.Command&0x40 == 0 {
		frame |= 1 << 12
	}
	if c.Toggle {
		frame |= 1 << 11
	}
	frame |= uint16(c.Address&0x1F) << 6
	frame |= uint16(c.Command & 0x3F)
	return frame
}

// Encode implements irtx.Encoder.
func (c Command) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	frame := c.Frame()
	for bit := Bits - 1; bit >= 0; bit-- {
		// a one is a rising edge, a zero a falling one
		if (frame>>bit)&1 == 1 {
			w.Space(HalfBit)
			w.Mark(HalfBit)
		} else {
			w.Mark(HalfBit)
			w.Space(HalfBit)
		}
	}
	return w.Len()
}
