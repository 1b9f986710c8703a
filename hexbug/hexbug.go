/*
# hexbug.go

hexbug.go implements an irtx.Encoder that speaks the protocol of a 6-button, 4-channel
HEXBUG BattleBots remote control, so a ~$3 MCU and an IR LED can stand in for the remote.

## Protocol

Each byte starts with a flag of about 1.75ms followed by 9 bits. The receiver only looks at
the long segments: a start flag is anything over 1.4ms, a one is between 750us and 1.3ms and a
zero is anything shorter (typically around 350us). Bits are sent LSB first.

The first 6 bits are the buttons:

	| Button  | Val |  Hex |
	|^^^^^^^^^|^^^^^|^^^^^^|
	|      Fwd|   1 | 0x01 |
	|     Back|   2 | 0x02 |
	|     Left|   4 | 0x04 |
	|    Right|   8 | 0x08 |
	| LeftWeap|  16 | 0x10 |
	|RightWeap|  32 | 0x20 |

The next two bits are the channel:

	| Ch |  Hex | 2-bit Val |
	^^^^^^^^^^^^^^^^^^^^^^^^^
	|  1 | 0x00 | 0         |
	|  2 | 0x40 | 1         |
	|  3 | 0xC0 | 3         |
	|  4 | 0x80 | 2         |

Yes, channel 3 and 4 seem like they've been swapped.

The ninth bit is an odd parity bit: the total number of ones sent is always odd.

	PCCUDRLBF

	P - Parity
	C - Channel bit
	U - Right Weapon button
	D - Left Weapon Button
	R - Right button
	L - Left Button
	B - Back Button
	F - Forward Button

## What to Send

The real transmitter sends each byte twice about 6ms apart and repeats it while a button is
held. On release it sends 10 stop bytes (all button bits zero) about 200ms apart. Scheduling
those repeats is up to the application; Cmd only encodes a single byte.

## Example

	var storage [2 * hexbug.FrameLen]uint32
	tx := irtx.NewTxDevice(pin, 20_000, storage[:])
	tx.Load(hexbug.Cmd(hexbug.CH2 | hexbug.CmdFwdMask))
	// call tx.Tick() at 20kHz until it returns irtx.Idle
*/
package hexbug

import (
	"time"

	"github.com/sparques/irtx"
)

const (
	CmdStop          = 0
	CmdFwdMask       = 0b000000001
	CmdBackMask      = 0b000000010
	CmdLeftMask      = 0b000000100
	CmdRightMask     = 0b000001000
	CmdRightWeapMask = 0b000010000
	CmdLeftWeapMask  = 0b000100000
	CmdButtonMask    = 0b000111111

	CmdChannelMask = 0b011000000
)

const (
	//Hexbug Channel ids; suitable for or'ing with button masks: Cmd(CH2 | CmdFwdMask)
	CH1 = 0b000000000
	CH2 = 0b001000000
	CH3 = 0b011000000 // not a mistake, go figure
	CH4 = 0b010000000
)

// FrameLen is the number of durations in an encoded Cmd.
const FrameLen = 2 * 10

// Cmd is a button/channel byte as described in the package documentation.
// Only the low 8 bits are sent; parity is computed by Encode.
type Cmd int16

var (
	hbStart = irtx.TimePair{1750 * time.Microsecond, 350 * time.Microsecond}
	hbZero  = irtx.TimePair{350 * time.Microsecond, 350 * time.Microsecond}
	hbOne   = irtx.TimePair{1000 * time.Microsecond, 350 * time.Microsecond}
)

// Encode implements irtx.Encoder.
func (c Cmd) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	w.Pair(hbStart)

	var parity bool = true
	for i := 0; i < 8; i++ {
		if c&1 == 1 {
			w.Pair(hbOne)
			parity = !parity
		} else {
			w.Pair(hbZero)
		}
		c >>= 1
	}

	if parity {
		w.Pair(hbOne)
	} else {
		w.Pair(hbZero)
	}

	return w.Len()
}

// Channel returns the 1-based channel c is addressed to.
func (c Cmd) Channel() int {
	switch c & CmdChannelMask {
	case CH2:
		return 2
	case CH3:
		return 3
	case CH4:
		return 4
	}
	return 1
}
