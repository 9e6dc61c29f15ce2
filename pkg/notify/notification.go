// Package notify holds operator notifications until a poller drains them.
package notify

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a notification for rendering.
type Kind int

const (
	KindCommand Kind = iota
	KindError
	KindInfo
)

var kindNames = map[Kind]string{
	KindCommand: "command",
	KindError:   "error",
	KindInfo:    "info",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown notification kind %q", s)
}

// MarshalJSON encodes the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown notification kind %d", int(k))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts the kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Notification is one message for the operator.
type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}
