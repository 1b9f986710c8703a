package irtx

// PWMPin gates the IR carrier. Enable turns the carrier on, Disable turns it off.
type PWMPin interface {
	Enable()
	Disable()
}

// TxDevice drives a PWMPin from a PulseSender. Tick must be called at freq,
// from a timer interrupt or a polling loop; one command is in flight at a time.
type TxDevice struct {
	pin     PWMPin
	freq    uint32
	counter uint32
	sender  PulseSender
}

// NewTxDevice returns a TxDevice ticking at freq Hz that keeps its pulse
// train in storage. The pin is disabled.
func NewTxDevice(pin PWMPin, freq uint32, storage []uint32) *TxDevice {
	pin.Disable()
	return &TxDevice{
		pin:    pin,
		freq:   freq,
		sender: NewPulseSender(storage),
	}
}

// Load encodes cmd for transmission starting at the next Tick. It does
// nothing and returns false while a previous command is still being sent.
// Loading after an Error replaces the bad train.
func (tx *TxDevice) Load(cmd Encoder) bool {
	if tx.sender.Status().Transmitting() {
		return false
	}
	tx.sender.LoadCommand(tx.freq, cmd)
	tx.counter = 0
	return true
}

// Tick advances the transmission by one tick and sets the pin accordingly.
// Anything other than TransmitMark leaves the carrier off.
func (tx *TxDevice) Tick() Status {
	status := tx.sender.Tick(tx.counter)
	tx.counter++

	if status == TransmitMark {
		tx.pin.Enable()
	} else {
		tx.pin.Disable()
	}

	return status
}

// Buffer returns the pulse train in flight.
func (tx *TxDevice) Buffer() []uint32 {
	return tx.sender.Buffer()
}

// Status returns the current status: that of the last Tick, or of the
// command just loaded.
func (tx *TxDevice) Status() Status {
	return tx.sender.Status()
}

// Frequency returns the tick rate the device encodes for.
func (tx *TxDevice) Frequency() uint32 {
	return tx.freq
}
