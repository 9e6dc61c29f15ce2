// Package intents loads batches of configuration intents from YAML and
// applies them across many device consoles.
package intents

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManderO9/Gns3Configuration/pkg/operations"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Batch is a parsed intent file.
type Batch struct {
	Name     string            `yaml:"name"`
	Defaults operations.Target `yaml:"defaults"`
	Intents  []*Intent         `yaml:"-"`
}

// Intent is one named operation in a batch.
type Intent struct {
	Name      string
	Kind      string
	Operation operations.Operation
}

// Label returns the name, or the kind when unnamed.
func (in *Intent) Label() string {
	if in.Name != "" {
		return in.Name
	}
	return in.Kind
}

type rawBatch struct {
	Name     string            `yaml:"name"`
	Defaults operations.Target `yaml:"defaults"`
	Intents  []yaml.Node       `yaml:"intents"`
}

type intentHeader struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// ParseFile reads and parses an intent file.
func ParseFile(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intents %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing intents %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes an intent document. Each entry's kind selects the
// operation type its remaining keys decode into; the batch defaults fill
// in a missing host or port.
func Parse(data []byte) (*Batch, error) {
	var raw rawBatch
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Intents) == 0 {
		return nil, fmt.Errorf("no intents defined")
	}

	b := &Batch{Name: raw.Name, Defaults: raw.Defaults}
	for i := range raw.Intents {
		node := &raw.Intents[i]
		prefix := fmt.Sprintf("intent %d", i+1)

		var hdr intentHeader
		if err := node.Decode(&hdr); err != nil {
			return nil, fmt.Errorf("%s (line %d): %w", prefix, node.Line, err)
		}
		if hdr.Name != "" {
			prefix = fmt.Sprintf("%s (%s)", prefix, hdr.Name)
		}
		if hdr.Kind == "" {
			return nil, fmt.Errorf("%s: kind is required (one of %s)", prefix, strings.Join(operations.Kinds, ", "))
		}
		op, err := operations.New(hdr.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		if err := node.Decode(op); err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		applyDefaults(op, raw.Defaults)

		b.Intents = append(b.Intents, &Intent{Name: hdr.Name, Kind: hdr.Kind, Operation: op})
	}
	return b, nil
}

// applyDefaults fills an unset host or port from the batch defaults.
func applyDefaults(op operations.Operation, defaults operations.Target) {
	t := target(op)
	if t == nil {
		return
	}
	if t.Host == "" {
		t.Host = defaults.Host
	}
	if t.Port == "" {
		t.Port = defaults.Port
	}
}

func target(op operations.Operation) *operations.Target {
	switch o := op.(type) {
	case *operations.StaticRoute:
		return &o.Target
	case *operations.InterfaceConfig:
		return &o.Target
	case *operations.RipNetwork:
		return &o.Target
	case *operations.OspfNetwork:
		return &o.Target
	case *operations.PcInterface:
		return &o.Target
	}
	return nil
}

// Validate checks every intent, collecting one message per invalid intent.
func (b *Batch) Validate() error {
	vb := &util.ValidationBuilder{}
	for i, in := range b.Intents {
		err := in.Operation.Validate()
		if err == nil {
			err = in.Operation.Console().Validate()
		}
		if err != nil {
			vb.AddErrorf("intent %d (%s): %s", i+1, in.Label(), message(err))
		}
	}
	return vb.Build()
}

func message(err error) string {
	var ve *util.ValidationError
	if errors.As(err, &ve) {
		return ve.Message()
	}
	return err.Error()
}
