package irtx

import "math"

// Status is the output of a transmitter tick.
type Status uint8

const (
	// Idle means nothing is being transmitted.
	Idle Status = iota
	// TransmitSpace means a transmission is in progress with the carrier off.
	TransmitSpace
	// TransmitMark means a transmission is in progress with the carrier on.
	TransmitMark
	// Error means the loaded pulse train can't be transmitted.
	Error
)

// Transmit returns TransmitMark if carrierOn, TransmitSpace otherwise.
func Transmit(carrierOn bool) Status {
	if carrierOn {
		return TransmitMark
	}
	return TransmitSpace
}

// Transmitting reports whether s is TransmitMark or TransmitSpace.
func (s Status) Transmitting() bool {
	return s == TransmitMark || s == TransmitSpace
}

// CarrierOn reports whether the carrier should be on.
func (s Status) CarrierOn() bool {
	return s == TransmitMark
}

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case TransmitSpace:
		return "transmit(off)"
	case TransmitMark:
		return "transmit(on)"
	case Error:
		return "error"
	}
	return "unknown"
}

// PulseStatus maps elapsed ticks onto pulses and reports where in the train
// that lands. Segment i spans [sum(pulses[:i]), sum(pulses[:i+1])); even
// segments are marks.
//
// A train with a zero-length segment, or one too long to finish before a
// uint32 tick counter wraps, is reported as Error on every tick, including
// the first.
func PulseStatus(pulses []uint32, elapsed uint32) Status {
	if len(pulses) == 0 {
		return Idle
	}

	status := Idle
	var end uint64
	for i, d := range pulses {
		if d == 0 {
			return Error
		}
		end += uint64(d)
		if status == Idle && uint64(elapsed) < end {
			status = Transmit(i%2 == 0)
		}
	}
	if end > math.MaxUint32 {
		return Error
	}
	return status
}

// PulseSender is the transmit state machine: a Buffer plus the status of
// the last tick.
type PulseSender struct {
	buf    Buffer
	status Status
}

// NewPulseSender returns an idle PulseSender over storage.
func NewPulseSender(storage []uint32) PulseSender {
	return PulseSender{buf: NewBuffer(storage)}
}

// LoadCommand replaces the buffer contents with cmd encoded at freq and
// returns the number of durations written. Callers must only load while
// not transmitting; TxDevice enforces that.
func (ps *PulseSender) LoadCommand(freq uint32, cmd Encoder) int {
	ps.buf.Reset()
	n := ps.buf.Load(freq, cmd)
	ps.status = PulseStatus(ps.buf.Pulses(), 0)
	return n
}

// Tick returns the status elapsed ticks after the command was loaded.
// When the train has been fully sent the buffer is cleared, so a wrapped
// counter can't replay it.
func (ps *PulseSender) Tick(elapsed uint32) Status {
	ps.status = PulseStatus(ps.buf.Pulses(), elapsed)
	if ps.status == Idle {
		ps.buf.Reset()
	}
	return ps.status
}

// Status returns the status of the last Tick or LoadCommand.
func (ps *PulseSender) Status() Status {
	return ps.status
}

// Buffer returns the pulse train currently loaded.
func (ps *PulseSender) Buffer() []uint32 {
	return ps.buf.Pulses()
}

// Reset drops the loaded train and returns to Idle.
func (ps *PulseSender) Reset() {
	ps.buf.Reset()
	ps.status = Idle
}
