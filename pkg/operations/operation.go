// Package operations defines the configuration intents an operator can submit.
//
// Each intent validates its own address-shaped fields and synthesizes the
// command sequence for its kind. Validation stops at the first invalid field
// so the operator sees one precise message.
package operations

import (
	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Operation kinds.
const (
	KindStaticRoute     = "static-route"
	KindInterfaceConfig = "interface"
	KindRipNetwork      = "rip-network"
	KindOspfNetwork     = "ospf-network"
	KindPcInterface     = "pc-interface"
)

// Kinds lists every supported operation kind.
var Kinds = []string{
	KindStaticRoute,
	KindInterfaceConfig,
	KindRipNetwork,
	KindOspfNetwork,
	KindPcInterface,
}

// Operation is a single configuration intent bound to a device console.
type Operation interface {
	// Name returns the operation kind
	Name() string
	// Description returns a human-readable summary
	Description() string
	// Console returns where the commands are sent
	Console() Target
	// Validate checks the kind's fields, returning the first failure
	Validate() error
	// Commands synthesizes the command sequence
	Commands() commands.Sequence
}

// Target is the console endpoint of the device to configure.
type Target struct {
	Host string `yaml:"host" json:"host"`
	Port string `yaml:"port" json:"port"`
}

// Console returns the target itself so embedding types satisfy Operation.
func (t Target) Console() Target {
	return t
}

// String returns host:port.
func (t Target) String() string {
	return t.Host + ":" + t.Port
}

// Validate checks that a host and a port were supplied.
func (t Target) Validate() error {
	if t.Host == "" {
		return util.NewFieldError("hostIpAddress", "No host entered")
	}
	if t.Port == "" {
		return util.NewFieldError("port", "No port number entered")
	}
	return nil
}

// fieldCheck is one ordered validation rule.
type fieldCheck struct {
	field   string
	ok      bool
	message string
}

// firstFailure returns the error for the first failing check, or nil.
func firstFailure(checks ...fieldCheck) error {
	for _, c := range checks {
		if !c.ok {
			return util.NewFieldError(c.field, c.message)
		}
	}
	return nil
}

// isCommandText reports whether s is printable ASCII, so it stays a single
// console line and never carries telnet control bytes.
func isCommandText(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c >= 0x7f {
			return false
		}
	}
	return true
}

func address(field, value, message string) fieldCheck {
	return fieldCheck{field: field, ok: util.IsValidAddress(value), message: message}
}
