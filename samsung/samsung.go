// samsung implements an irtx.Encoder for Samsung IR commands.
package samsung

import (
	"time"

	"github.com/sparques/irtx"
)

// Frame is a Samsung command: a 16-bit address and a 16-bit command.
type Frame struct {
	Addr uint16
	Cmd  uint16
}

// A one has a long space, a zero a short one. Receivers key a frame start
// on a mark and space both over 3ms.
var (
	StartPair = irtx.TimePair{4500 * time.Microsecond, 4500 * time.Microsecond}
	ZeroPair  = irtx.TimePair{560 * time.Microsecond, 560 * time.Microsecond}
	OnePair   = irtx.TimePair{560 * time.Microsecond, 1690 * time.Microsecond}
)

// FrameLen is the number of durations in an encoded Frame.
const FrameLen = 2 * 34

// Encode implements irtx.Encoder.
func (f Frame) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)

	// start of frame
	w.Pair(StartPair)

	data := uint32(f.Cmd)<<16 | uint32(f.Addr)

	for bit := 0; bit < 32; bit++ {
		if (data>>bit)&1 == 1 {
			w.Pair(OnePair)
		} else {
			w.Pair(ZeroPair)
		}
	}

	// Stop Bit is a Zero
	w.Pair(ZeroPair)

	return w.Len()
}

// Raw returns the 32 bits sent on the wire, LSB first.
func (f Frame) Raw() uint32 {
	return uint32(f.Cmd)<<16 | uint32(f.Addr)
}

// FromRaw splits 32 bits of wire data back into a Frame.
func FromRaw(data uint32) Frame {
	return Frame{
		Addr: uint16(data & 0xFFFF),
		Cmd:  uint16((data >> 16) & 0xFFFF),
	}
}
