package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sparques/irtx"
	"github.com/sparques/irtx/internal/bridge"
)

func newProtocolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "protocols",
		Short: "List the supported protocols and their arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("protocol", "arguments").
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, name := range protocolNames() {
				t.Row(name, protocols[name].usage)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}

// encodeTrain encodes the command named by args into a fresh buffer.
func (a *app) encodeTrain(args []string) (string, irtx.Buffer, error) {
	name, enc, err := lookupEncoder(args)
	if err != nil {
		return "", irtx.Buffer{}, err
	}
	buf := irtx.NewBuffer(make([]uint32, a.cfg.Capacity))
	n := buf.Load(a.cfg.Frequency, enc)
	a.log.Debug().Str("protocol", name).Int("pulses", n).Uint32("freq", a.cfg.Frequency).Msg("encoded")
	return name, buf, nil
}

func newEncodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <protocol> [args...]",
		Short: "Print the pulse train for a command",
		Long: `Encode a command and print its pulse train: one row per mark or space,
with its start offset and length in ticks and its length in microseconds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, buf, err := a.encodeTrain(args)
			if err != nil {
				return err
			}
			printTrain(cmd.OutOrStdout(), name, buf.Pulses(), a.cfg.Frequency, buf.Cap())
			return nil
		},
	}
}

// edgePin records the tick of every carrier change.
type edgePin struct {
	tick  uint64
	on    bool
	edges []edge
}

type edge struct {
	tick uint64
	on   bool
}

func (p *edgePin) set(on bool) {
	if on != p.on || len(p.edges) == 0 {
		p.edges = append(p.edges, edge{tick: p.tick, on: on})
	}
	p.on = on
}

func (p *edgePin) Enable()  { p.set(true) }
func (p *edgePin) Disable() { p.set(false) }

// simulation is the result of ticking a TxDevice until it stops transmitting.
type simulation struct {
	segments []uint32
	ticks    uint64
	status   irtx.Status
}

// simulate loads enc into a TxDevice and ticks it to completion, measuring
// the segments the pin actually produced.
func simulate(enc irtx.Encoder, freq uint32, capacity int, maxTicks uint64) (simulation, error) {
	pin := &edgePin{}
	tx := irtx.NewTxDevice(pin, freq, make([]uint32, capacity))
	if !tx.Load(enc) {
		return simulation{}, fmt.Errorf("device refused the command")
	}
	// only count edges from the transmission itself
	pin.edges = pin.edges[:0]

	var sim simulation
	for {
		pin.tick = sim.ticks
		sim.status = tx.Tick()
		if !sim.status.Transmitting() {
			break
		}
		sim.ticks++
		if sim.ticks >= maxTicks {
			return sim, fmt.Errorf("still transmitting after %d ticks", maxTicks)
		}
	}

	for i := 1; i < len(pin.edges); i++ {
		sim.segments = append(sim.segments, uint32(pin.edges[i].tick-pin.edges[i-1].tick))
	}
	return sim, nil
}

func newSimulateCmd(a *app) *cobra.Command {
	var maxTicks uint64
	cmd := &cobra.Command{
		Use:   "simulate <protocol> [args...]",
		Short: "Tick a transmitter through a command and show the carrier it produces",
		Long: `Load a command into a software transmitter, tick it until it goes idle and
print the mark and space segments seen on the carrier pin. A trailing space is
not visible on the pin and is folded into the idle time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, enc, err := lookupEncoder(args)
			if err != nil {
				return err
			}
			sim, err := simulate(enc, a.cfg.Frequency, a.cfg.Capacity, maxTicks)
			if err != nil {
				return err
			}
			a.log.Info().Str("protocol", name).Uint64("ticks", sim.ticks).Stringer("status", sim.status).Msg("simulation finished")

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s: carrier segments @ %d Hz", name, a.cfg.Frequency)))
			if len(sim.segments) > 0 {
				fmt.Fprintln(out, pulseTable(sim.segments, a.cfg.Frequency))
			}
			fmt.Fprintln(out, "ticks: "+strconv.FormatUint(sim.ticks, 10)+"  status: "+statusStyle(sim.status).Render(sim.status.String()))
			if sim.status == irtx.Error {
				return fmt.Errorf("%s: pulse train rejected by the transmitter", name)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&maxTicks, "max-ticks", 1<<32, "Give up after this many ticks")
	return cmd
}

func newSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <protocol> [args...]",
		Short: "Send a command to an IR blaster",
		Long: `Encode a command and send the pulse train to an IR blaster over a serial
port (--port) or a WebSocket (--url). The blaster must tick at --freq.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, buf, err := a.encodeTrain(args)
			if err != nil {
				return err
			}
			if buf.Len() == buf.Cap() {
				a.log.Warn().Int("capacity", buf.Cap()).Msg("buffer full, the train may be truncated")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			conn, connInfo, err := bridge.Open(ctx, a.cfg)
			if err != nil {
				return err
			}
			client := bridge.NewClient(conn, a.log)
			defer client.Close()
			a.log.Info().Str("connection", connInfo).Str("protocol", name).Int("pulses", buf.Len()).Msg("sending")

			if a.cfg.AckTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.AckTimeout)
				defer cancel()
			}
			ack, err := client.Transmit(ctx, a.cfg.Frequency, buf.Pulses())
			if err != nil {
				return fmt.Errorf("send %s: %w", name, err)
			}

			a.log.Info().Bool("accepted", ack.Accepted).Int("loaded", ack.Loaded).Stringer("status", ack.Status).Msg("blaster replied")
			switch {
			case !ack.Accepted:
				return fmt.Errorf("send %s: blaster busy (%s)", name, ack.Status)
			case ack.Loaded < buf.Len():
				a.log.Warn().Int("sent", buf.Len()).Int("loaded", ack.Loaded).Msg("blaster truncated the train")
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("%s: %d pulses sent via %s", name, ack.Loaded, connInfo)))
			return nil
		},
	}
}
