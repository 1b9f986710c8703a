//go:build tinygo

package irtx

import (
	"machine"

	"github.com/sparques/pwm"
)

// CarrierPin is a PWMPin backed by a hardware PWM channel running at the
// carrier frequency. Enable sets a 50% duty cycle, Disable sets it to zero.
type CarrierPin struct {
	pgroup pwm.Group
	ch     uint8
	duty   uint32
}

// NewCarrierPin configures pin for PWM output at carrier Hz, e.g. Freq38Khz.
// The carrier starts off.
func NewCarrierPin(pin machine.Pin, carrier uint64) (*CarrierPin, error) {
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(machine.PWMConfig{Period: uint64(1e9) / carrier})
	ch, err := pgroup.Channel(pin)
	if err != nil {
		return nil, err
	}
	pgroup.Set(ch, 0)
	return &CarrierPin{
		pgroup: pgroup,
		ch:     ch,
		duty:   pgroup.Top() / 2,
	}, nil
}

// Enable implements PWMPin.
func (c *CarrierPin) Enable() {
	c.pgroup.Set(c.ch, c.duty)
}

// Disable implements PWMPin.
func (c *CarrierPin) Disable() {
	c.pgroup.Set(c.ch, 0)
}
