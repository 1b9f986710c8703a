package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sparques/irtx/internal/config"
	"github.com/sparques/irtx/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	flags      config.Config

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{flags: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "irtx",
		Short: "IR remote command encoder and transmitter",
		Long: `irtx - encode IR remote commands into pulse trains and send them.

Pulse durations are counted in ticks of the transmitter frequency (--freq),
the rate at which the blaster's firmware ticks its transmitter.

Connection modes for send (serve takes --listen instead of --url):
  Serial:    --port /dev/ttyACM0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the
IRTX_BRIDGE_PASSWORD environment variable, or prompted interactively.`,
		Version:           "0.2.0",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := rootCmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "TOML config file")
	f.Uint32VarP(&a.flags.Frequency, "freq", "f", a.flags.Frequency, "Transmitter tick frequency in Hz")
	f.IntVar(&a.flags.Capacity, "capacity", a.flags.Capacity, "Pulse buffer capacity")
	f.StringVar(&a.flags.LogLevel, "log-level", a.flags.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVarP(&a.flags.Port, "port", "p", "", "Serial port of the blaster")
	f.IntVarP(&a.flags.Baud, "baud", "b", a.flags.Baud, "Baud rate (serial only)")
	f.StringVarP(&a.flags.URL, "url", "u", "", "WebSocket URL of the blaster (ws:// or wss://)")
	f.StringVar(&a.flags.Username, "username", "", "Username for HTTP Basic auth")
	f.BoolVar(&a.flags.NoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
	f.DurationVar(&a.flags.AckTimeout, "ack-timeout", a.flags.AckTimeout, "How long to wait for the blaster to acknowledge")

	rootCmd.AddCommand(
		newProtocolsCmd(),
		newEncodeCmd(a),
		newSimulateCmd(a),
		newSendCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// setup merges config file and flags, flags winning, and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}

	f := cmd.Flags()
	if f.Changed("freq") {
		cfg.Frequency = a.flags.Frequency
	}
	if f.Changed("capacity") {
		cfg.Capacity = a.flags.Capacity
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if f.Changed("port") {
		cfg.Port = a.flags.Port
	}
	if f.Changed("baud") {
		cfg.Baud = a.flags.Baud
	}
	if f.Changed("url") {
		cfg.URL = a.flags.URL
	}
	if f.Changed("username") {
		cfg.Username = a.flags.Username
	}
	if f.Changed("no-ssl-verify") {
		cfg.NoSSLVerify = a.flags.NoSSLVerify
	}
	if f.Changed("ack-timeout") {
		cfg.AckTimeout = a.flags.AckTimeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New("irtx", cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	return nil
}
