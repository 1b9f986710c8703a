package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sparques/irtx"
	"github.com/sparques/irtx/hexbug"
	"github.com/sparques/irtx/nec"
	"github.com/sparques/irtx/ppm"
	"github.com/sparques/irtx/rc5"
	"github.com/sparques/irtx/sirc"
)

func TestLookupEncoder(t *testing.T) {
	tests := []struct {
		args []string
		want irtx.Encoder
	}{
		{[]string{"nec", "0x04", "8"}, nec.Command{Address: 0x04, Command: 0x08}},
		{[]string{"NEC", "0x1234", "0b101"}, nec.Command{Address: 0x1234, Command: 5}},
		{[]string{"nec-repeat"}, nec.Repeat{}},
		{[]string{"nec-raw", "0xF708FB04"}, nec.RawCode(0xF708FB04)},
		{[]string{"sirc", "21", "1"}, sirc.Command{Command: 21, Address: 1, Bits: 12}},
		{[]string{"sirc", "21", "0xA4", "15"}, sirc.Command{Command: 21, Address: 0xA4, Bits: 15}},
		{[]string{"sirc", "21", "0x1FFF", "20"}, sirc.Command{Command: 21, Address: 0x1FFF, Bits: 20}},
		{[]string{"rc5", "5", "53", "true"}, rc5.Command{Address: 5, Command: 53, Toggle: true}},
		{[]string{"hexbug", "2", "fwd", "LEFT"}, hexbug.Cmd(hexbug.CH2 | hexbug.CmdFwdMask | hexbug.CmdLeftMask)},
		{[]string{"hexbug", "1"}, hexbug.Cmd(hexbug.CmdStop)},
	}
	for _, tt := range tests {
		_, got, err := lookupEncoder(tt.args)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if got != tt.want {
			t.Fatalf("%v: got %#v, want %#v", tt.args, got, tt.want)
		}
	}
}

func TestLookupEncoderPPMAndRaw(t *testing.T) {
	_, enc, err := lookupEncoder([]string{"ppm", "1000", "2000"})
	if err != nil {
		t.Fatalf("ppm: %v", err)
	}
	frame := enc.(ppm.Frame)
	if frame[0] != time.Millisecond || frame[1] != 2*time.Millisecond || frame[2] != 1500*time.Microsecond {
		t.Fatalf("frame = %v", frame)
	}

	_, enc, err = lookupEncoder([]string{"raw", "9000", "4500", "560"})
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	ds := enc.(irtx.Durations)
	if len(ds) != 3 || ds[0] != 9*time.Millisecond || ds[2] != 560*time.Microsecond {
		t.Fatalf("durations = %v", ds)
	}
}

func TestLookupEncoderErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "missing protocol"},
		{[]string{"jvc", "1"}, "unknown protocol"},
		{[]string{"nec", "1"}, "at least 2"},
		{[]string{"nec", "1", "2", "3"}, "at most 2"},
		{[]string{"nec", "1", "256"}, "doesn't fit in 8 bits"},
		{[]string{"nec", "one", "2"}, "not a number"},
		{[]string{"nec-raw", "0x00000000"}, "inverse"},
		{[]string{"sirc", "1", "1", "13"}, "want 12, 15 or 20"},
		{[]string{"sirc", "1", "32"}, "doesn't fit in 5 bits"},
		{[]string{"sirc", "1", "256", "15"}, "doesn't fit in 8 bits"},
		{[]string{"sirc", "1", "0x2000", "20"}, "doesn't fit in 13 bits"},
		{[]string{"rc5", "32", "1"}, "doesn't fit in 5 bits"},
		{[]string{"rc5", "1", "1", "maybe"}, "toggle"},
		{[]string{"hexbug"}, "missing channel"},
		{[]string{"hexbug", "5"}, "want 1-4"},
		{[]string{"hexbug", "1", "jump"}, "unknown hexbug button"},
		{[]string{"cheapo", "1024"}, "doesn't fit in 10 bits"},
		{[]string{"raw"}, "missing durations"},
		{[]string{"raw", "100", "0"}, "is zero"},
	}
	for _, tt := range tests {
		_, _, err := lookupEncoder(tt.args)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%v: expected error containing %q, got %v", tt.args, tt.want, err)
		}
	}
}

func TestProtocolNamesSorted(t *testing.T) {
	names := protocolNames()
	if len(names) != len(protocols) {
		t.Fatalf("got %d names for %d protocols", len(names), len(protocols))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
