package commands

import (
	"fmt"
	"strings"

	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Mode is a level of the device's modal CLI.
type Mode int

const (
	ModeUser Mode = iota
	ModePrivileged
	ModeConfig
	ModeSub
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "user"
	case ModePrivileged:
		return "privileged"
	case ModeConfig:
		return "global-config"
	case ModeSub:
		return "sub-mode"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// CheckModes walks seq through the mode ladder and verifies that every
// configuration mode it enters is left again: the sequence must end at
// privileged level or below, and a sub-mode must be closed with "exit"
// before "end". A command containing CR or LF is rejected outright, since
// the console would run each line as its own command.
func CheckModes(seq Sequence) error {
	mode := ModeUser
	var sub string
	for i, cmd := range seq {
		if strings.ContainsAny(cmd, "\r\n") {
			return fmt.Errorf("%w: command %d %q", util.ErrMultilineCommand, i, cmd)
		}
		c := strings.TrimSpace(cmd)
		switch {
		case c == Enable || c == "enable":
			if mode == ModeUser {
				mode = ModePrivileged
			}
		case c == ConfigTerminal || c == "configure terminal":
			if mode != ModePrivileged {
				return fmt.Errorf("%w: command %d %q issued in %s mode", util.ErrUnbalancedModes, i, c, mode)
			}
			mode = ModeConfig
		case isSubModeEntry(c):
			if mode != ModeConfig {
				return fmt.Errorf("%w: command %d %q issued in %s mode", util.ErrUnbalancedModes, i, c, mode)
			}
			mode = ModeSub
			sub = c
		case c == Exit:
			switch mode {
			case ModeSub:
				mode = ModeConfig
				sub = ""
			case ModeConfig:
				mode = ModePrivileged
			case ModePrivileged:
				mode = ModeUser
			}
		case c == End:
			if mode == ModeSub {
				return fmt.Errorf("%w: %q not exited before end", util.ErrUnbalancedModes, sub)
			}
			if mode == ModeConfig {
				mode = ModePrivileged
			}
		}
	}
	switch mode {
	case ModeSub:
		return fmt.Errorf("%w: %q left open", util.ErrUnbalancedModes, sub)
	case ModeConfig:
		return fmt.Errorf("%w: global-config left open", util.ErrUnbalancedModes)
	}
	return nil
}

func isSubModeEntry(c string) bool {
	return strings.HasPrefix(c, interfacePrefix) ||
		strings.HasPrefix(c, "interface ") ||
		strings.HasPrefix(c, "router ")
}
