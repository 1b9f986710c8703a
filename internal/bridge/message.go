// Package bridge carries pulse trains from a host to an IR blaster that
// runs an irtx.TxDevice, over a serial port or a WebSocket.
//
// Every frame holds one CBOR encoded message: [msg_type, payload_map],
// with small integer map keys.
package bridge

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/sparques/irtx"
)

// Message types
const (
	MsgTransmit = 0x01
	MsgAck      = 0x81
	MsgError    = 0xE0
)

var ErrUnknownMessage = errors.New("unknown message type")

// Message is one of Transmit, Ack or ErrorReply.
type Message interface {
	msgType() uint8
}

// Transmit asks the blaster to send a pulse train. Pulses are in ticks of
// Frequency, which must match the blaster's tick rate.
type Transmit struct {
	Frequency uint32   `cbor:"0,keyasint"`
	Pulses    []uint32 `cbor:"1,keyasint"`
}

// Ack answers a Transmit. Loaded is how many pulses fit the blaster's buffer.
type Ack struct {
	Accepted bool        `cbor:"0,keyasint"`
	Status   irtx.Status `cbor:"1,keyasint"`
	Loaded   int         `cbor:"2,keyasint"`
}

// ErrorReply reports a request the blaster couldn't act on.
type ErrorReply struct {
	Message string `cbor:"0,keyasint"`
}

func (Transmit) msgType() uint8   { return MsgTransmit }
func (Ack) msgType() uint8        { return MsgAck }
func (ErrorReply) msgType() uint8 { return MsgError }

func (e ErrorReply) Error() string {
	return "bridge: " + e.Message
}

type envelope struct {
	_       struct{} `cbor:",toarray"`
	Type    uint8
	Payload cbor.RawMessage
}

// Marshal encodes msg as [msg_type, payload_map].
func Marshal(msg Message) ([]byte, error) {
	payload, err := cbor.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	data, err := cbor.Marshal(envelope{Type: msg.msgType(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a message produced by Marshal.
func Unmarshal(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty CBOR payload")
	}

	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR: %w", err)
	}

	var (
		msg Message
		err error
	)
	switch env.Type {
	case MsgTransmit:
		var m Transmit
		err = cbor.Unmarshal(env.Payload, &m)
		msg = m
	case MsgAck:
		var m Ack
		err = cbor.Unmarshal(env.Payload, &m)
		msg = m
	case MsgError:
		var m ErrorReply
		err = cbor.Unmarshal(env.Payload, &m)
		msg = m
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownMessage, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode 0x%02X payload: %w", env.Type, err)
	}
	return msg, nil
}

// Handle is the blaster side of the protocol: it loads a Transmit into dev
// and describes the outcome.
func Handle(msg Message, dev *irtx.TxDevice) Message {
	t, ok := msg.(Transmit)
	if !ok {
		if msg == nil {
			return ErrorReply{Message: "empty message"}
		}
		return ErrorReply{Message: fmt.Sprintf("unexpected message type 0x%02X", msg.msgType())}
	}
	if t.Frequency != dev.Frequency() {
		return ErrorReply{Message: fmt.Sprintf("frequency %d Hz, blaster ticks at %d Hz", t.Frequency, dev.Frequency())}
	}
	accepted := dev.Load(irtx.Raw(t.Pulses))
	ack := Ack{Accepted: accepted, Status: dev.Status()}
	if accepted {
		ack.Loaded = len(dev.Buffer())
	}
	return ack
}
