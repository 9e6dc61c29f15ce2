// Package audit records every configuration intent the tool executes or
// previews, one JSON object per line.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies the surface an intent arrived through.
type Source string

const (
	SourceCLI   Source = "cli"
	SourceHTTP  Source = "http"
	SourceBatch Source = "batch"
)

// Event is one audited intent.
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	User      string        `json:"user,omitempty"`
	Source    Source        `json:"source"`
	Host      string        `json:"host"`
	Port      string        `json:"port"`
	Operation string        `json:"operation"`
	Agent     string        `json:"agent,omitempty"`
	Commands  []string      `json:"commands,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	DryRun    bool          `json:"dry_run"`
	Duration  time.Duration `json:"duration"`
	ClientIP  string        `json:"client_ip,omitempty"`
}

// Filter selects events in Query. Zero fields match everything.
type Filter struct {
	Host        string
	Port        string
	User        string
	Operation   string
	Source      Source
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates an event for operation against host:port.
func NewEvent(source Source, host, port, operation string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Source:    source,
		Host:      host,
		Port:      port,
		Operation: operation,
	}
}

// WithUser sets the operator name
func (e *Event) WithUser(user string) *Event {
	e.User = user
	return e
}

// WithAgent sets the agent that ran the commands
func (e *Event) WithAgent(agent string) *Event {
	e.Agent = agent
	return e
}

// WithCommands records the synthesized command sequence
func (e *Event) WithCommands(cmds []string) *Event {
	e.Commands = append([]string(nil), cmds...)
	return e
}

// WithClientIP sets the remote address of an HTTP caller
func (e *Event) WithClientIP(ip string) *Event {
	e.ClientIP = ip
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	e.Error = ""
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets how long the intent took
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithDryRun marks a preview that never reached a device
func (e *Event) WithDryRun(dryRun bool) *Event {
	e.DryRun = dryRun
	return e
}

func (f Filter) matches(e *Event) bool {
	switch {
	case f.Host != "" && e.Host != f.Host:
		return false
	case f.Port != "" && e.Port != f.Port:
		return false
	case f.User != "" && e.User != f.User:
		return false
	case f.Operation != "" && e.Operation != f.Operation:
		return false
	case f.Source != "" && e.Source != f.Source:
		return false
	case !f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime):
		return false
	case !f.EndTime.IsZero() && e.Timestamp.After(f.EndTime):
		return false
	case f.SuccessOnly && !e.Success:
		return false
	case f.FailureOnly && e.Success:
		return false
	}
	return true
}
