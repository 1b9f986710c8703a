package irtx

import (
	"slices"
	"testing"
)

type fakePin struct {
	on      bool
	enables int
	events  []bool
}

func (p *fakePin) Enable() {
	p.on = true
	p.enables++
	p.events = append(p.events, true)
}

func (p *fakePin) Disable() {
	p.on = false
	p.events = append(p.events, false)
}

func TestTxDeviceDrivesPin(t *testing.T) {
	pin := &fakePin{}
	var storage [8]uint32
	tx := NewTxDevice(pin, 1000, storage[:])
	if pin.on || len(pin.events) != 1 {
		t.Fatalf("new device should disable the pin once, events=%v", pin.events)
	}
	pin.events = nil

	if !tx.Load(Raw{2, 1, 2}) {
		t.Fatalf("idle device refused load")
	}

	var statuses []Status
	for i := 0; i < 7; i++ {
		statuses = append(statuses, tx.Tick())
	}
	want := []Status{TransmitMark, TransmitMark, TransmitSpace, TransmitMark, TransmitMark, Idle, Idle}
	if !slices.Equal(statuses, want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	if !slices.Equal(pin.events, []bool{true, true, false, true, true, false, false}) {
		t.Fatalf("pin events = %v", pin.events)
	}
	if pin.on {
		t.Fatalf("pin left on after completion")
	}
}

func TestTxDeviceIgnoresLoadWhileBusy(t *testing.T) {
	pin := &fakePin{}
	tx := NewTxDevice(pin, 1000, make([]uint32, 8))

	tx.Load(Raw{3, 3})
	tx.Tick()
	tx.Tick()
	if !tx.Status().Transmitting() {
		t.Fatalf("status = %v", tx.Status())
	}

	if tx.Load(Raw{9, 9, 9}) {
		t.Fatalf("busy device accepted a load")
	}
	if !slices.Equal(tx.Buffer(), []uint32{3, 3}) {
		t.Fatalf("busy load changed buffer to %v", tx.Buffer())
	}

	// counter was not reset: tick 2 and onwards
	want := []Status{TransmitMark, TransmitSpace, TransmitSpace, TransmitSpace, Idle}
	for i, w := range want {
		if got := tx.Tick(); got != w {
			t.Fatalf("tick %d = %v, want %v", i+2, got, w)
		}
	}

	if !tx.Load(Raw{1}) {
		t.Fatalf("idle device refused load")
	}
	if got := tx.Tick(); got != TransmitMark {
		t.Fatalf("first tick of reload = %v", got)
	}
}

func TestTxDeviceLoadBeforeFirstTickIsBusy(t *testing.T) {
	tx := NewTxDevice(&fakePin{}, 1000, make([]uint32, 8))
	tx.Load(Raw{1, 1})
	if tx.Load(Raw{5}) {
		t.Fatalf("second load before first tick was accepted")
	}
}

func TestTxDeviceErrorIsFailSafe(t *testing.T) {
	pin := &fakePin{}
	tx := NewTxDevice(pin, 1000, make([]uint32, 8))

	if !tx.Load(Raw{4, 0, 4}) {
		t.Fatalf("idle device refused load")
	}
	for i := 0; i < 5; i++ {
		if got := tx.Tick(); got != Error {
			t.Fatalf("tick %d = %v", i, got)
		}
	}
	if pin.enables != 0 || pin.on {
		t.Fatalf("carrier enabled for malformed train")
	}

	// a fresh load recovers
	if !tx.Load(Raw{1}) {
		t.Fatalf("device in error refused load")
	}
	if got := tx.Tick(); got != TransmitMark {
		t.Fatalf("tick after recovery = %v", got)
	}
	if got := tx.Tick(); got != Idle {
		t.Fatalf("second tick after recovery = %v", got)
	}
}

func TestTxDeviceTruncatedCommand(t *testing.T) {
	pin := &fakePin{}
	tx := NewTxDevice(pin, 1000, make([]uint32, 2))
	tx.Load(Raw{1, 1, 1, 1})
	if !slices.Equal(tx.Buffer(), []uint32{1, 1}) {
		t.Fatalf("buffer = %v", tx.Buffer())
	}
	if tx.Tick() != TransmitMark || tx.Tick() != TransmitSpace || tx.Tick() != Idle {
		t.Fatalf("truncated train didn't run to completion")
	}
}

func TestTxDeviceCounterWraps(t *testing.T) {
	tx := NewTxDevice(&fakePin{}, 1000, make([]uint32, 2))
	tx.counter = ^uint32(0)
	if got := tx.Tick(); got != Idle {
		t.Fatalf("idle tick = %v", got)
	}
	if tx.counter != 0 {
		t.Fatalf("counter did not wrap: %d", tx.counter)
	}
}

func TestTxDeviceFrequency(t *testing.T) {
	tx := NewTxDevice(&fakePin{}, 20_000, make([]uint32, 4))
	if tx.Frequency() != 20_000 {
		t.Fatalf("frequency = %d", tx.Frequency())
	}
	tx.Load(Durations{100 * 1000, 50 * 1000})
	// 100us and 50us at 20kHz
	if !slices.Equal(tx.Buffer(), []uint32{2, 1}) {
		t.Fatalf("buffer = %v", tx.Buffer())
	}
}
