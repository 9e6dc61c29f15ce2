package commands

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

func TestGenerators(t *testing.T) {
	tests := []struct {
		name string
		got  Sequence
		want Sequence
	}{
		{
			name: "static route",
			got:  StaticRoute("10.0.0.0", "255.0.0.0", "10.0.0.1"),
			want: Sequence{"en", "conf t", "ip route 10.0.0.0 255.0.0.0 10.0.0.1", "exit"},
		},
		{
			name: "interface",
			got:  InterfaceConfig("f0/0", "192.168.1.1", "255.255.255.0"),
			want: Sequence{"en", "conf t", "int f0/0", "ip address 192.168.1.1 255.255.255.0", "no shutdown", "exit", "end"},
		},
		{
			name: "rip",
			got:  RipNetwork("192.168.1.0"),
			want: Sequence{"en", "conf t", "router rip", "network 192.168.1.0", "exit", "end"},
		},
		{
			name: "ospf",
			got:  OspfNetwork("10.1.0.0", "0.0.255.255", "1", "0"),
			want: Sequence{"en", "conf t", "router ospf 1", "network 10.1.0.0 0.0.255.255 area 0", "exit", "end"},
		},
		{
			name: "pc",
			got:  PcInterface("192.168.1.10", "192.168.1.1"),
			want: Sequence{"ip 192.168.1.10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
			if err := CheckModes(tt.got); err != nil {
				t.Errorf("CheckModes() = %v", err)
			}
		})
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	a := StaticRoute("10.0.0.0", "255.0.0.0", "10.0.0.1")
	b := StaticRoute("10.0.0.0", "255.0.0.0", "10.0.0.1")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("StaticRoute not deterministic: %q vs %q", a, b)
	}
}

func TestConfigModeAlwaysClosed(t *testing.T) {
	seqs := []Sequence{
		StaticRoute("1.1.1.0", "255.255.255.0", "2.2.2.2"),
		InterfaceConfig("g0/1", "1.1.1.1", "255.255.255.0"),
		RipNetwork("1.0.0.0"),
		OspfNetwork("1.1.1.0", "0.0.0.255", "10", "0.0.0.0"),
	}
	for _, seq := range seqs {
		confAt, closed := -1, false
		lastExit, endAt := -1, -1
		for i, c := range seq {
			switch c {
			case ConfigTerminal:
				confAt = i
			case Exit:
				lastExit = i
				if confAt >= 0 {
					closed = true
				}
			case End:
				endAt = i
				if confAt >= 0 {
					closed = true
				}
			}
		}
		if confAt >= 0 && !closed {
			t.Errorf("%q: conf t never closed", seq)
		}
		if seq[2][:4] == "int " && endAt >= 0 && lastExit > endAt {
			t.Errorf("%q: interface exit must precede end", seq)
		}
	}
}

func TestSequenceClone(t *testing.T) {
	orig := RipNetwork("10.0.0.0")
	c := orig.Clone()
	c[0] = "changed"
	if orig[0] != Enable {
		t.Errorf("Clone shares storage with original: %q", orig)
	}
	if Sequence(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestCheckModesRejects(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequence
	}{
		{"config left open", Sequence{"en", "conf t", "ip route 1.1.1.0 255.255.255.0 2.2.2.2"}},
		{"sub-mode left open", Sequence{"en", "conf t", "int f0/0", "no shutdown"}},
		{"end from sub-mode", Sequence{"en", "conf t", "router rip", "network 10.0.0.0", "end"}},
		{"conf t without enable", Sequence{"conf t", "exit"}},
		{"sub-mode outside config", Sequence{"en", "int f0/0", "exit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckModes(tt.seq)
			if err == nil {
				t.Fatalf("CheckModes(%q) = nil, want error", tt.seq)
			}
			if !errors.Is(err, util.ErrUnbalancedModes) {
				t.Errorf("error should wrap ErrUnbalancedModes: %v", err)
			}
		})
	}
}

func TestCheckModesRejectsLineBreaks(t *testing.T) {
	tests := []Sequence{
		{"en", "conf t", "int f0/0\r\nexit\r\nexit\r\nreload", "exit", "end"},
		{"en", "conf t", "int f0/0\nshutdown", "exit", "end"},
		{"en\r", "conf t", "exit"},
	}
	for _, seq := range tests {
		err := CheckModes(seq)
		if !errors.Is(err, util.ErrMultilineCommand) {
			t.Errorf("CheckModes(%q) = %v, want ErrMultilineCommand", seq, err)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeConfig.String() != "global-config" {
		t.Errorf("ModeConfig.String() = %q", ModeConfig.String())
	}
	if Mode(9).String() != "mode(9)" {
		t.Errorf("Mode(9).String() = %q", Mode(9).String())
	}
}
