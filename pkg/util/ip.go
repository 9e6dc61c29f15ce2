package util

import (
	"strconv"
	"strings"
)

// IsValidAddress reports whether s is a dotted-quad IPv4 address or mask:
// exactly four decimal octets of one to three digits, each in 0-255.
// Leading zeros are accepted ("010.001.000.255"). Masks and wildcard masks
// share the syntax and are validated the same way; contiguity is not checked.
func IsValidAddress(s string) bool {
	if s == "" {
		return false
	}
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if !isOctet(p) {
			return false
		}
	}
	return true
}

func isOctet(p string) bool {
	if len(p) == 0 || len(p) > 3 {
		return false
	}
	n := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n <= 255
}

// IsValidOSPFArea reports whether area is a decimal area ID (0-4294967295)
// or a dotted-quad area ID.
func IsValidOSPFArea(area string) bool {
	if IsValidAddress(area) {
		return true
	}
	if area == "" || strings.ContainsAny(area, "+-") {
		return false
	}
	_, err := strconv.ParseUint(area, 10, 32)
	return err == nil
}

// IsValidProcessID reports whether id is an OSPF process ID (1-65535).
func IsValidProcessID(id string) bool {
	if strings.ContainsAny(id, "+-") {
		return false
	}
	n, err := strconv.Atoi(id)
	return err == nil && n >= 1 && n <= 65535
}
