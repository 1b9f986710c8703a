package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sparques/irtx"
	"github.com/sparques/irtx/internal/bridge"
)

// tracePin logs the carrier edges of the emulated blaster.
type tracePin struct {
	log zerolog.Logger
	on  bool
}

func (p *tracePin) Enable() {
	if !p.on {
		p.log.Trace().Msg("carrier on")
	}
	p.on = true
}

func (p *tracePin) Disable() {
	if p.on {
		p.log.Trace().Msg("carrier off")
	}
	p.on = false
}

func newServeCmd(a *app) *cobra.Command {
	var (
		listen string
		period time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Emulate an IR blaster in software",
		Long: `Run a software blaster that accepts pulse trains over a WebSocket (--listen)
or a serial port (--port) and ticks them out at --freq on an emulated pin.
Carrier edges are logged at trace level. With --username, hosts must
authenticate with the password from IRTX_BRIDGE_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			b := a.newBlaster()
			go b.Run(ctx, period)

			switch {
			case listen != "":
				password, err := a.servePassword()
				if err != nil {
					return err
				}
				ln, err := net.Listen("tcp", listen)
				if err != nil {
					return err
				}
				return a.serveWebSocket(ctx, ln, b, password)

			case a.cfg.Port != "":
				conn, err := bridge.OpenSerialConnection(a.cfg.Port, a.cfg.Baud)
				if err != nil {
					return err
				}
				a.log.Info().Str("port", a.cfg.Port).Int("baud", a.cfg.Baud).Msg("serving")
				return bridge.Serve(ctx, conn, b)
			}
			return errors.New("serve needs --listen or --port")
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to accept WebSocket hosts on, e.g. :8080")
	cmd.Flags().DurationVar(&period, "tick-period", time.Millisecond, "How often the emulated blaster catches up on its ticks")
	return cmd
}

func (a *app) newBlaster() *bridge.Blaster {
	pin := &tracePin{log: a.log}
	dev := irtx.NewTxDevice(pin, a.cfg.Frequency, make([]uint32, a.cfg.Capacity))
	return bridge.NewBlaster(dev, a.log)
}

func (a *app) servePassword() (string, error) {
	if a.cfg.Username == "" {
		return "", nil
	}
	return bridge.GetPassword()
}

// serveWebSocket accepts hosts on ln until ctx ends.
func (a *app) serveWebSocket(ctx context.Context, ln net.Listener, b *bridge.Blaster, password string) error {
	mux := http.NewServeMux()
	mux.Handle("/", bridge.WebSocketHandler(b, a.cfg.Username, password))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.log.Info().Str("addr", ln.Addr().String()).Uint32("freq", a.cfg.Frequency).Int("capacity", a.cfg.Capacity).Msg("serving")
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
