package bridge

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sparques/irtx"
)

// Blaster is a TxDevice shared between the frames arriving on a bridge and
// the loop ticking it.
type Blaster struct {
	mu  sync.Mutex
	dev *irtx.TxDevice
	log zerolog.Logger
}

// NewBlaster wraps dev. Nothing else may touch dev afterwards.
func NewBlaster(dev *irtx.TxDevice, log zerolog.Logger) *Blaster {
	return &Blaster{dev: dev, log: log}
}

// Handle answers one message.
func (b *Blaster) Handle(msg Message) Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Handle(msg, b.dev)
}

// Advance ticks the device up to n times, stopping early once it is no
// longer transmitting. It returns the status after the last tick.
func (b *Blaster) Advance(n uint64) irtx.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.dev.Status()
	for ; n > 0 && st.Transmitting(); n-- {
		st = b.dev.Tick()
	}
	return st
}

// Status reports the device status.
func (b *Blaster) Status() irtx.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev.Status()
}

// Pulses returns a copy of the loaded train.
func (b *Blaster) Pulses() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.dev.Buffer())
}

// Run ticks the device in software until ctx ends, catching up every period
// on the ticks owed at the device frequency.
func (b *Blaster) Run(ctx context.Context, period time.Duration) error {
	freq := uint64(b.dev.Frequency())
	t := time.NewTicker(period)
	defer t.Stop()

	last := time.Now()
	var owed time.Duration
	busy := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			owed += now.Sub(last)
			last = now
			n := uint64(owed) * freq / uint64(time.Second)
			owed -= time.Duration(n * uint64(time.Second) / freq)

			st := b.Advance(n)
			switch {
			case st.Transmitting():
				busy = true
			case busy:
				busy = false
				b.log.Info().Stringer("status", st).Msg("transmission finished")
			}
		}
	}
}

// Serve answers frames on conn until the peer hangs up or ctx ends. A frame
// that fails its CRC or does not decode gets an error reply; the stream is
// resynchronised on the next START byte. Serve closes conn when it returns.
func Serve(ctx context.Context, conn Connection, b *Blaster) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		payload, err := ReadFrame(conn)
		var reply Message
		switch {
		case err == nil:
			msg, err := Unmarshal(payload)
			if err != nil {
				reply = ErrorReply{Message: err.Error()}
				break
			}
			reply = b.Handle(msg)
			if ack, ok := reply.(Ack); ok {
				b.log.Debug().Bool("accepted", ack.Accepted).Int("loaded", ack.Loaded).Msg("transmit")
			}
		case errors.Is(err, ErrFrameCRC), errors.Is(err, ErrFrameTooLarge):
			b.log.Warn().Err(err).Msg("bad frame")
			reply = ErrorReply{Message: err.Error()}
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe), errors.Is(err, ErrConnectionClosed):
			return nil
		default:
			return err
		}

		data, err := Marshal(reply)
		if err != nil {
			return err
		}
		if err := WriteFrame(conn, data); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// WebSocketHandler upgrades requests and serves each socket with b. When
// username is set the request must carry matching Basic auth.
func WebSocketHandler(b *Blaster, username, password string) http.Handler {
	var upgrader websocket.Upgrader
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if username != "" {
			user, pass, ok := r.BasicAuth()
			if !ok || user != username || pass != password {
				w.Header().Set("WWW-Authenticate", `Basic realm="irtx"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("upgrade failed")
			return
		}
		b.log.Info().Str("remote", r.RemoteAddr).Msg("host connected")
		if err := Serve(r.Context(), NewWebSocketConnection(ws), b); err != nil {
			b.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("connection ended")
			return
		}
		b.log.Info().Str("remote", r.RemoteAddr).Msg("host disconnected")
	})
}
