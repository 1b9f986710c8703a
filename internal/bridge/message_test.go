package bridge

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/sparques/irtx"
)

func TestMessageRoundTrip(t *testing.T) {
	msgs := []Message{
		Transmit{Frequency: 20000, Pulses: []uint32{180, 90, 11, 11, 11, 34}},
		Ack{Accepted: true, Status: irtx.TransmitMark, Loaded: 6},
		ErrorReply{Message: "busy"},
	}
	for _, msg := range msgs {
		data, err := Marshal(msg)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", msg, err)
		}
		got, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(%+v): %v", msg, err)
		}
		if !reflect.DeepEqual(got, msg) {
			t.Fatalf("round trip = %+v, want %+v", got, msg)
		}
	}
}

func TestMessageWireShape(t *testing.T) {
	data, err := Marshal(Transmit{Frequency: 38000, Pulses: []uint32{1, 2}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw []interface{}
	if err := cbor.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode as array: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2-element array, got %d", len(raw))
	}
	if raw[0] != uint64(MsgTransmit) {
		t.Fatalf("message type = %v", raw[0])
	}
	payload, ok := raw[1].(map[interface{}]interface{})
	if !ok {
		t.Fatalf("payload is %T", raw[1])
	}
	if payload[uint64(0)] != uint64(38000) {
		t.Fatalf("frequency key = %v", payload[uint64(0)])
	}
}

func TestUnmarshalErrors(t *testing.T) {
	if _, err := Unmarshal(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := Unmarshal([]byte{0xFF, 0x00}); err == nil {
		t.Fatalf("expected error for garbage")
	}

	data, _ := cbor.Marshal([]interface{}{0x42, map[int]int{}})
	if _, err := Unmarshal(data); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

type nopPin struct{}

func (nopPin) Enable()  {}
func (nopPin) Disable() {}

func TestHandle(t *testing.T) {
	dev := irtx.NewTxDevice(nopPin{}, 20000, make([]uint32, 4))

	reply := Handle(Transmit{Frequency: 20000, Pulses: []uint32{2, 1, 2, 1, 2}}, dev)
	ack, ok := reply.(Ack)
	if !ok {
		t.Fatalf("reply = %+v", reply)
	}
	if !ack.Accepted || ack.Loaded != 4 || ack.Status != irtx.TransmitMark {
		t.Fatalf("ack = %+v", ack)
	}

	// busy
	dev.Tick()
	reply = Handle(Transmit{Frequency: 20000, Pulses: []uint32{9}}, dev)
	if ack := reply.(Ack); ack.Accepted || ack.Loaded != 0 {
		t.Fatalf("busy ack = %+v", ack)
	}

	if _, ok := Handle(Transmit{Frequency: 38000, Pulses: []uint32{9}}, dev).(ErrorReply); !ok {
		t.Fatalf("frequency mismatch accepted")
	}
	if _, ok := Handle(Ack{}, dev).(ErrorReply); !ok {
		t.Fatalf("ack accepted as a request")
	}
	if _, ok := Handle(nil, dev).(ErrorReply); !ok {
		t.Fatalf("nil message accepted")
	}
}
