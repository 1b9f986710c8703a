// Package sirc implements an irtx.Encoder for the Sony SIRC protocol in its
// 12, 15 and 20 bit variants.
package sirc

import (
	"time"

	"github.com/sparques/irtx"
)

const (
	// SIRC is modulated at 40 kHz
	ModulationFrequency = 40_000

	Unit        = 600 * time.Microsecond
	HeaderMark  = 4 * Unit
	Bit0Mark    = Unit
	Bit1Mark    = 2 * Unit
	BitSpace    = Unit
	FramePeriod = 45 * time.Millisecond
)

// MaxFrameLen is the number of durations in an encoded 20 bit Command.
const MaxFrameLen = 2 + 2*20

// Command is a SIRC command. Bits selects the variant: 12 (5 bit address),
// 15 (8 bit address) or 20 (5 bit address plus 8 bit extended). Any other
// value is treated as 12.
//
// For the 20 bit variant the address is sent as its low 5 bits followed by
// the 8 bits above them.
type Command struct {
	Command uint8
	Address uint16
	Bits    int
}

func (c Command) addressBits() int {
	switch c.Bits {
	case 15:
		return 8
	case 20:
		return 13
	}
	return 5
}

// Len returns the number of durations c encodes to.
func (c Command) Len() int {
	return 2 + 2*(7+c.addressBits())
}

// Encode implements irtx.Encoder.
func (c Command) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	w.Mark(HeaderMark)
	w.Space(BitSpace)

	data := uint32(c.Command&0x7F) | uint32(c.Address)<<7
	for bit := 0; bit < 7+c.addressBits(); bit++ {
		if (data>>bit)&1 == 1 {
			w.Mark(Bit1Mark)
		} else {
			w.Mark(Bit0Mark)
		}
		w.Space(BitSpace)
	}
	return w.Len()
}
