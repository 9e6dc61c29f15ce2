// Package commands synthesizes IOS-style CLI command sequences for each
// supported configuration intent.
//
// Every generator is pure: identical inputs yield identical sequences, and
// the order of the returned commands follows the device's modal CLI
// (privileged exec, global configuration, sub-mode, then back out).
package commands

import "strings"

// Mode-changing commands emitted by the generators.
const (
	Enable          = "en"
	ConfigTerminal  = "conf t"
	Exit            = "exit"
	End             = "end"
	NoShutdown      = "no shutdown"
	RouterRIP       = "router rip"
	interfacePrefix = "int "
)

// Sequence is an ordered list of CLI commands. Order is significant.
type Sequence []string

// Clone returns an independent copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// String joins the commands with "; " for single-line display.
func (s Sequence) String() string {
	return strings.Join(s, "; ")
}

// StaticRoute adds a static route to the routing table.
func StaticRoute(network, mask, nextHop string) Sequence {
	return Sequence{
		Enable,
		ConfigTerminal,
		"ip route " + network + " " + mask + " " + nextHop,
		Exit,
	}
}

// InterfaceConfig assigns an address to an interface and brings it up.
func InterfaceConfig(ifName, ip, mask string) Sequence {
	return Sequence{
		Enable,
		ConfigTerminal,
		interfacePrefix + ifName,
		"ip address " + ip + " " + mask,
		NoShutdown,
		Exit,
		End,
	}
}

// RipNetwork enables RIP and advertises network.
func RipNetwork(network string) Sequence {
	return Sequence{
		Enable,
		ConfigTerminal,
		RouterRIP,
		"network " + network,
		Exit,
		End,
	}
}

// OspfNetwork advertises network into area under OSPF process id.
func OspfNetwork(network, wildcardMask, id, area string) Sequence {
	return Sequence{
		Enable,
		ConfigTerminal,
		"router ospf " + id,
		"network " + network + " " + wildcardMask + " area " + area,
		Exit,
		End,
	}
}

// PcInterface sets the address of a virtual PC. The gateway is validated by
// the caller but is not emitted.
func PcInterface(ip, gateway string) Sequence {
	return Sequence{"ip " + ip}
}
