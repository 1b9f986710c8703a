package ppm

/*
ppm.go - PPM over IR

Sends up to 16 servo channels the way a PPM radio transmitter would, but with the IR carrier.
Each channel is a mark followed by a space whose total length is the channel value, 1ms to 2ms.
A frame starts with a sync mark longer than any channel so the receiver can find channel 0.

Note, with a carrier of 38kHz, the most graduations you get per channel is 38, slightly
more than 5 bits worth. This is because ppm uses a 1ms to 2ms pulse per channel and
1ms * 38kHz = 38.

If driving a 180 degree servo, that means each graduation is 4.7 degrees (180/38).


## Example

    var storage [ppm.FrameLen]uint32
    tx := irtx.NewTxDevice(pin, 20_000, storage[:])

    frame := ppm.SafeChannelsMid
    for {
        frame[0] = ppm.Float32ToDuration(joystickX())
        tx.Load(frame)
        // tick tx at 20kHz until idle
    }

*/

import (
	"time"

	"github.com/sparques/irtx"
)

const (
	// Channels is the number of channels in a Frame.
	Channels = 16

	// FrameLen is the number of durations in an encoded Frame.
	FrameLen = 2 * (Channels + 1)

	// MinimumTimeBetweenFrames is the sync mark length; receivers treat
	// anything longer as the start of a frame.
	MinimumTimeBetweenFrames = 6 * time.Millisecond

	ChannelMin = 1000 * time.Microsecond
	ChannelMax = 2000 * time.Microsecond

	syncMark     = MinimumTimeBetweenFrames + 500*time.Microsecond
	channelSpace = 300 * time.Microsecond
)

var (
	SafeChannelsMid    = Frame{1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond, 1500 * time.Microsecond}
	SafeChannelsBottom = Frame{1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond, 1000 * time.Microsecond}
)

// Frame holds the pulse length of every channel. Values outside
// ChannelMin..ChannelMax are clamped when encoded.
type Frame [Channels]time.Duration

// Encode implements irtx.Encoder.
func (f Frame) Encode(freq uint32, buf []uint32) int {
	w := irtx.NewPulseWriter(freq, buf)
	w.Pair(irtx.TimePair{syncMark, channelSpace})
	for _, ch := range f {
		ch = clamp(ch)
		w.Pair(irtx.TimePair{ch - channelSpace, channelSpace})
	}
	return w.Len()
}

func clamp(d time.Duration) time.Duration {
	switch {
	case d < ChannelMin:
		return ChannelMin
	case d > ChannelMax:
		return ChannelMax
	}
	return d
}

// DurationToFloat32 maps a channel value onto -1..1.
func DurationToFloat32(d time.Duration) float32 {
	return float32(2*d-3*time.Millisecond) / float32(time.Millisecond)
}

// Float32ToDuration maps -1..1 onto a channel value, clamping out of range input.
func Float32ToDuration(x float32) time.Duration {
	return clamp(time.Duration((x*float32(time.Millisecond) + float32(3*time.Millisecond)) / 2))
}
