package cheapo

// cheapo package implements an irtx.Encoder for cheap, unknown brand IR remote controls,
// the kind that come with LED light strips.
// The button codes are usually in order, starting from zero and increasing, left to right, top to bottom.
// A frame is a 9ms start mark, a 4.5ms space and 10 bits, LSB first, where the length of the space
// after each bit mark tells a one from a zero.

import (
	"time"

	"github.com/sparques/irtx"
)

// Bits is the number of bits in a command.
const Bits = 10

// FrameLen is the number of durations in an encoded Cmd.
const FrameLen = 2 + 2*Bits + 1

var (
	startPair = irtx.TimePair{9 * time.Millisecond, 4500 * time.Microsecond}
	zeroPair  = irtx.TimePair{560 * time.Microsecond, 560 * time.Microsecond}
	onePair   = irtx.TimePair{560 * time.Microsecond, 1690 * time.Microsecond}
	trailMark = 560 * time.Microsecond
)

// Cmd is a button code. Only the low Bits bits are sent.
type Cmd uint16

// Encode implements irtx.Encoder.
func (c Cmd) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	w.Pair(startPair)
	for bit := 0; bit < Bits; bit++ {
		if (c>>bit)&1 == 1 {
			w.Pair(onePair)
		} else {
			w.Pair(zeroPair)
		}
	}
	// terminate the last space
	w.Mark(trailMark)
	return w.Len()
}
