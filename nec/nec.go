// Package nec implements irtx.Encoders for the NEC consumer IR protocol.
//
// References:
// https://www.sbprojects.net/knowledge/ir/nec.php
// https://techdocs.altium.com/display/FPGA/NEC+Infrared+Transmission+Protocol
package nec

import (
	"time"

	"github.com/sparques/irtx"
)

const (
	// NEC Consumer IR is modulated at 38 kHz
	ModulationFrequency = irtx.Freq38Khz

	Unit         = time.Nanosecond * 562_500 // 562.5 us
	LeadMark     = Unit * 16                 // 9 ms
	LeadSpace    = Unit * 8                  // 4.5 ms
	RepeatSpace  = Unit * 4                  // 2.25 ms
	BitMark      = Unit                      // 562.5 us
	Bit0Space    = Unit                      // 562.5 us
	Bit1Space    = Unit * 3                  // 1.687 ms
	TrailMark    = Unit                      // 562.5 us
	RepeatPeriod = Unit * 192                // 108 ms
)

const (
	// FrameLen is the number of durations in an encoded Command.
	FrameLen = 2 + 2*32 + 1
	// RepeatLen is the number of durations in an encoded Repeat.
	RepeatLen = 3
)

// Command is an NEC address/command pair. Addresses below 0x100 are sent
// with an inverted copy of the low byte; anything larger uses extended NEC.
type Command struct {
	Address uint16
	Command byte
}

// Encode implements irtx.Encoder.
func (c Command) Encode(freq uint32, buf []uint32) int {
	return RawCode(MakeRawData(c.Address, c.Command)).Encode(freq, buf)
}

// RawCode is 32 bits of NEC data sent as is, LSB first:
// { address (Low), address (High), cmd, ^cmd }.
// It's the caller's job to make sure the data is correctly assembled.
type RawCode uint32

// Encode implements irtx.Encoder.
func (r RawCode) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	w.Mark(LeadMark)
	w.Space(LeadSpace)
	for bit := 0; bit < 32; bit++ {
		w.Mark(BitMark)
		if (r>>bit)&1 == 0 {
			w.Space(Bit0Space)
		} else {
			w.Space(Bit1Space)
		}
	}
	// tail marker to indicate end of data
	w.Mark(TrailMark)
	return w.Len()
}

// Repeat is the code sent every RepeatPeriod while a button is held.
// The receiver interprets it as a repeat of the last command.
type Repeat struct{}

// Encode implements irtx.Encoder.
func (Repeat) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	w.Mark(LeadMark)
	w.Space(RepeatSpace)
	w.Mark(TrailMark)
	return w.Len()
}

// Duration returns how long r takes to transmit.
func (r RawCode) Duration() time.Duration {
	d := LeadMark + LeadSpace + 32*BitMark + TrailMark
	for bit := 0; bit < 32; bit++ {
		if (r>>bit)&1 == 0 {
			d += Bit0Space
		} else {
			d += Bit1Space
		}
	}
	return d
}

// SplitRawData breaks a raw NEC code into its parts. valid is false when
// the command and its inverse don't match.
func SplitRawData(data uint32) (valid bool, address uint16, command byte) {
	addrLow := byte(data & 0xff)
	addrHigh := byte((data & 0xff00) >> 8)
	command = byte((data & 0xff0000) >> 16)
	invCmd := byte((data & 0xff000000) >> 24)
	address = MakeAddress(addrLow, addrHigh)
	return command == ^invCmd, address, command
}

// MakeRawData assembles a raw NEC code from an address and command.
func MakeRawData(address uint16, command byte) uint32 {
	addrLow, addrHigh := SplitAddress(address)
	return (uint32(^command) << 24) | (uint32(command) << 16) | (uint32(addrHigh) << 8) | uint32(addrLow)
}

// SplitAddress splits an NEC address into low and high bytes.
func SplitAddress(address uint16) (addrLow, addrHigh byte) {
	addrLow = byte(address & 0xff)
	addrHigh = byte((address & 0xff00) >> 8)
	if addrHigh == 0 {
		// 8-bit addresses use the inverse as the high byte
		addrHigh = ^addrLow
	}
	return addrLow, addrHigh
}

// MakeAddress assembles an NEC address from low and high bytes.
func MakeAddress(addrLow, addrHigh byte) uint16 {
	if addrHigh == ^addrLow {
		// indistinguishable from an 8-bit address with its inverse
		return uint16(addrLow)
	}
	return (uint16(addrHigh) << 8) | uint16(addrLow)
}
