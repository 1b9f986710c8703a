package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sparques/irtx"
	"github.com/sparques/irtx/cheapo"
	"github.com/sparques/irtx/hexbug"
	"github.com/sparques/irtx/nec"
	"github.com/sparques/irtx/ppm"
	"github.com/sparques/irtx/rc5"
	"github.com/sparques/irtx/samsung"
	"github.com/sparques/irtx/sirc"
)

// protocol turns command line arguments into an irtx.Encoder.
type protocol struct {
	usage string
	parse func(args []string) (irtx.Encoder, error)
}

var protocols = map[string]protocol{
	"nec": {
		usage: "<address> <command>",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 2, 2); err != nil {
				return nil, err
			}
			addr, err := parseUint(args[0], 16)
			if err != nil {
				return nil, err
			}
			cmd, err := parseUint(args[1], 8)
			if err != nil {
				return nil, err
			}
			return nec.Command{Address: uint16(addr), Command: byte(cmd)}, nil
		},
	},
	"nec-raw": {
		usage: "<32-bit code>",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 1, 1); err != nil {
				return nil, err
			}
			code, err := parseUint(args[0], 32)
			if err != nil {
				return nil, err
			}
			if valid, _, _ := nec.SplitRawData(uint32(code)); !valid {
				return nil, fmt.Errorf("0x%08X: command and inverse command don't match", code)
			}
			return nec.RawCode(code), nil
		},
	},
	"nec-repeat": {
		usage: "",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 0, 0); err != nil {
				return nil, err
			}
			return nec.Repeat{}, nil
		},
	},
	"samsung": {
		usage: "<address> <command>",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 2, 2); err != nil {
				return nil, err
			}
			addr, err := parseUint(args[0], 16)
			if err != nil {
				return nil, err
			}
			cmd, err := parseUint(args[1], 16)
			if err != nil {
				return nil, err
			}
			return samsung.Frame{Addr: uint16(addr), Cmd: uint16(cmd)}, nil
		},
	},
	"sirc": {
		usage: "<command> <address> [12|15|20]",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 2, 3); err != nil {
				return nil, err
			}
			c := sirc.Command{Bits: 12}
			if len(args) == 3 {
				switch args[2] {
				case "12", "15", "20":
					c.Bits, _ = strconv.Atoi(args[2])
				default:
					return nil, fmt.Errorf("sirc variant %q: want 12, 15 or 20", args[2])
				}
			}
			cmd, err := parseUint(args[0], 7)
			if err != nil {
				return nil, err
			}
			// the address gets whatever the 7 command bits leave
			addr, err := parseUint(args[1], c.Bits-7)
			if err != nil {
				return nil, err
			}
			c.Command, c.Address = uint8(cmd), uint16(addr)
			return c, nil
		},
	},
	"rc5": {
		usage: "<address> <command> [toggle]",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 2, 3); err != nil {
				return nil, err
			}
			addr, err := parseUint(args[0], 5)
			if err != nil {
				return nil, err
			}
			cmd, err := parseUint(args[1], 7)
			if err != nil {
				return nil, err
			}
			c := rc5.Command{Address: uint8(addr), Command: uint8(cmd)}
			if len(args) == 3 {
				if c.Toggle, err = strconv.ParseBool(args[2]); err != nil {
					return nil, fmt.Errorf("toggle %q: %w", args[2], err)
				}
			}
			return c, nil
		},
	},
	"hexbug": {
		usage: "<channel 1-4> [fwd|back|left|right|lweap|rweap]...",
		parse: func(args []string) (irtx.Encoder, error) {
			if len(args) < 1 {
				return nil, fmt.Errorf("missing channel")
			}
			channels := map[string]hexbug.Cmd{"1": hexbug.CH1, "2": hexbug.CH2, "3": hexbug.CH3, "4": hexbug.CH4}
			buttons := map[string]hexbug.Cmd{
				"fwd":   hexbug.CmdFwdMask,
				"back":  hexbug.CmdBackMask,
				"left":  hexbug.CmdLeftMask,
				"right": hexbug.CmdRightMask,
				"lweap": hexbug.CmdLeftWeapMask,
				"rweap": hexbug.CmdRightWeapMask,
			}
			c, ok := channels[args[0]]
			if !ok {
				return nil, fmt.Errorf("hexbug channel %q: want 1-4", args[0])
			}
			for _, name := range args[1:] {
				b, ok := buttons[strings.ToLower(name)]
				if !ok {
					return nil, fmt.Errorf("unknown hexbug button %q", name)
				}
				c |= b
			}
			return c, nil
		},
	},
	"cheapo": {
		usage: "<button code>",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 1, 1); err != nil {
				return nil, err
			}
			code, err := parseUint(args[0], cheapo.Bits)
			if err != nil {
				return nil, err
			}
			return cheapo.Cmd(code), nil
		},
	},
	"ppm": {
		usage: "<channel us>... (up to 16, the rest sit at 1500us)",
		parse: func(args []string) (irtx.Encoder, error) {
			if err := wantArgs(args, 1, ppm.Channels); err != nil {
				return nil, err
			}
			frame := ppm.SafeChannelsMid
			for i, arg := range args {
				us, err := parseUint(arg, 16)
				if err != nil {
					return nil, err
				}
				frame[i] = time.Duration(us) * time.Microsecond
			}
			return frame, nil
		},
	},
	"raw": {
		usage: "<mark us> [<space us> <mark us>]...",
		parse: func(args []string) (irtx.Encoder, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("missing durations")
			}
			ds := make(irtx.Durations, len(args))
			for i, arg := range args {
				us, err := parseUint(arg, 32)
				if err != nil {
					return nil, err
				}
				if us == 0 {
					return nil, fmt.Errorf("duration %d is zero", i)
				}
				ds[i] = time.Duration(us) * time.Microsecond
			}
			return ds, nil
		},
	},
}

// lookupEncoder parses "<protocol> <args...>".
func lookupEncoder(args []string) (string, irtx.Encoder, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("missing protocol; see irtx protocols")
	}
	name := strings.ToLower(args[0])
	p, ok := protocols[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown protocol %q; see irtx protocols", args[0])
	}
	enc, err := p.parse(args[1:])
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w (usage: %s %s)", name, err, name, p.usage)
	}
	return name, enc, nil
}

func protocolNames() []string {
	names := make([]string, 0, len(protocols))
	for name := range protocols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wantArgs(args []string, lo, hi int) error {
	switch {
	case len(args) < lo:
		return fmt.Errorf("expected at least %d arguments, got %d", lo, len(args))
	case len(args) > hi:
		return fmt.Errorf("expected at most %d arguments, got %d", hi, len(args))
	}
	return nil
}

// parseUint accepts decimal, 0x hex, 0o octal and 0b binary.
func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if bits < 64 && v >= 1<<bits {
		return 0, fmt.Errorf("%s doesn't fit in %d bits", s, bits)
	}
	return v, nil
}
