package operations

import (
	"fmt"
	"strings"

	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// StaticRoute adds a static route.
type StaticRoute struct {
	Target  `yaml:",inline"`
	Network string `yaml:"network" json:"network"`
	Mask    string `yaml:"mask" json:"mask"`
	NextHop string `yaml:"next_hop" json:"nextHop"`
}

func (op *StaticRoute) Name() string { return KindStaticRoute }

func (op *StaticRoute) Description() string {
	return fmt.Sprintf("Add static route %s %s via %s", op.Network, op.Mask, op.NextHop)
}

func (op *StaticRoute) Validate() error {
	return firstFailure(
		address("network", op.Network, "invalid network address"),
		address("mask", op.Mask, "invalid mask"),
		address("nextHop", op.NextHop, "next hop address is invalid"),
	)
}

func (op *StaticRoute) Commands() commands.Sequence {
	return commands.StaticRoute(op.Network, op.Mask, op.NextHop)
}

// InterfaceConfig addresses an interface and turns it on.
type InterfaceConfig struct {
	Target    `yaml:",inline"`
	Interface string `yaml:"interface" json:"interfaceName"`
	IP        string `yaml:"ip" json:"interfaceIpAddress"`
	Mask      string `yaml:"mask" json:"interfaceMask"`
}

func (op *InterfaceConfig) Name() string { return KindInterfaceConfig }

func (op *InterfaceConfig) Description() string {
	return fmt.Sprintf("Configure interface %s with %s %s", op.Interface, op.IP, op.Mask)
}

func (op *InterfaceConfig) Validate() error {
	return firstFailure(
		fieldCheck{
			field:   "interfaceName",
			ok:      strings.TrimSpace(op.Interface) != "",
			message: "no interface name entered",
		},
		fieldCheck{
			field:   "interfaceName",
			ok:      isCommandText(op.Interface),
			message: "invalid interface name",
		},
		address("interfaceIpAddress", op.IP, "invalid IP address for the interface"),
		address("interfaceMask", op.Mask, "invalid mask for the interface"),
	)
}

func (op *InterfaceConfig) Commands() commands.Sequence {
	return commands.InterfaceConfig(strings.TrimSpace(op.Interface), op.IP, op.Mask)
}

// RipNetwork advertises a network through RIP.
type RipNetwork struct {
	Target  `yaml:",inline"`
	Network string `yaml:"network" json:"ripNetwork"`
}

func (op *RipNetwork) Name() string { return KindRipNetwork }

func (op *RipNetwork) Description() string {
	return "Add RIP network " + op.Network
}

func (op *RipNetwork) Validate() error {
	return firstFailure(
		address("ripNetwork", op.Network, "invalid IP address for the provided network"),
	)
}

func (op *RipNetwork) Commands() commands.Sequence {
	return commands.RipNetwork(op.Network)
}

// OspfNetwork advertises a network into an OSPF area.
type OspfNetwork struct {
	Target       `yaml:",inline"`
	Network      string `yaml:"network" json:"OSPFNetwork"`
	WildcardMask string `yaml:"wildcard_mask" json:"WildcardMask"`
	ProcessID    string `yaml:"process_id" json:"id"`
	Area         string `yaml:"area" json:"area"`
}

func (op *OspfNetwork) Name() string { return KindOspfNetwork }

func (op *OspfNetwork) Description() string {
	return fmt.Sprintf("Add OSPF %s network %s %s area %s", op.ProcessID, op.Network, op.WildcardMask, op.Area)
}

func (op *OspfNetwork) Validate() error {
	return firstFailure(
		address("OSPFNetwork", op.Network, "invalid IP address for the provided network"),
		address("WildcardMask", op.WildcardMask, "invalid wildcard mask"),
		fieldCheck{field: "id", ok: util.IsValidProcessID(op.ProcessID), message: "invalid OSPF process id"},
		fieldCheck{field: "area", ok: util.IsValidOSPFArea(op.Area), message: "invalid OSPF area"},
	)
}

func (op *OspfNetwork) Commands() commands.Sequence {
	return commands.OspfNetwork(op.Network, op.WildcardMask, op.ProcessID, op.Area)
}

// PcInterface sets a virtual PC's address.
type PcInterface struct {
	Target  `yaml:",inline"`
	IP      string `yaml:"ip" json:"PcIpAddress"`
	Gateway string `yaml:"gateway" json:"GateWay"`
}

func (op *PcInterface) Name() string { return KindPcInterface }

func (op *PcInterface) Description() string {
	return fmt.Sprintf("Configure PC address %s (gateway %s)", op.IP, op.Gateway)
}

func (op *PcInterface) Validate() error {
	return firstFailure(
		address("GateWay", op.Gateway, "invalid gateway"),
		address("PcIpAddress", op.IP, "invalid address/mask for pc"),
	)
}

func (op *PcInterface) Commands() commands.Sequence {
	return commands.PcInterface(op.IP, op.Gateway)
}

// New returns an empty operation of the given kind.
func New(kind string) (Operation, error) {
	switch kind {
	case KindStaticRoute:
		return &StaticRoute{}, nil
	case KindInterfaceConfig:
		return &InterfaceConfig{}, nil
	case KindRipNetwork:
		return &RipNetwork{}, nil
	case KindOspfNetwork:
		return &OspfNetwork{}, nil
	case KindPcInterface:
		return &PcInterface{}, nil
	}
	return nil, fmt.Errorf("unknown operation kind %q (valid: %s)", kind, strings.Join(Kinds, ", "))
}
