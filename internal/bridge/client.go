package bridge

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Client talks to a blaster over a Connection.
type Client struct {
	conn Connection
	log  zerolog.Logger
}

// NewClient returns a Client over conn. The Client owns conn from then on.
func NewClient(conn Connection, log zerolog.Logger) *Client {
	return &Client{conn: conn, log: log}
}

// Send writes msg as one frame.
func (c *Client) Send(msg Message) error {
	data, err := Marshal(msg)
	if err != nil {
		return err
	}
	if err := WriteFrame(c.conn, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	c.log.Debug().Uint8("type", msg.msgType()).Int("bytes", len(data)).Msg("frame sent")
	return nil
}

type received struct {
	msg Message
	err error
}

// Receive waits for the next message. If ctx ends first the pending read is
// abandoned and the Client must be closed.
func (c *Client) Receive(ctx context.Context) (Message, error) {
	ch := make(chan received, 1)
	go func() {
		payload, err := ReadFrame(c.conn)
		if err != nil {
			ch <- received{err: fmt.Errorf("read frame: %w", err)}
			return
		}
		msg, err := Unmarshal(payload)
		ch <- received{msg: msg, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		c.log.Debug().Uint8("type", r.msg.msgType()).Msg("frame received")
		return r.msg, nil
	}
}

// Transmit sends pulses, in ticks of freq, and waits for the blaster's Ack.
// An ErrorReply comes back as the error.
func (c *Client) Transmit(ctx context.Context, freq uint32, pulses []uint32) (Ack, error) {
	if err := c.Send(Transmit{Frequency: freq, Pulses: pulses}); err != nil {
		return Ack{}, err
	}
	msg, err := c.Receive(ctx)
	if err != nil {
		return Ack{}, err
	}
	switch m := msg.(type) {
	case Ack:
		return m, nil
	case ErrorReply:
		return Ack{}, m
	}
	return Ack{}, fmt.Errorf("%w: 0x%02X in reply to transmit", ErrUnknownMessage, msg.msgType())
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
