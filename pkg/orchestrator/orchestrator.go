// Package orchestrator turns a validated intent into commands, dispatches
// them to a device agent and reports the outcome through the notification
// mailbox.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ManderO9/Gns3Configuration/pkg/agent"
	"github.com/ManderO9/Gns3Configuration/pkg/audit"
	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/operations"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// DefaultTimeout bounds a single agent invocation.
const DefaultTimeout = 30 * time.Second

// Outcome is the result of one Execute call.
type Outcome struct {
	Success   bool
	Reason    string // operator-facing failure message, empty on success
	Err       error  // matches util.ErrValidationFailed or util.ErrDispatchFailed
	Operation string
	Commands  commands.Sequence
	Duration  time.Duration
}

// Validation reports whether the outcome failed before dispatch.
func (o Outcome) Validation() bool {
	return errors.Is(o.Err, util.ErrValidationFailed)
}

// Orchestrator executes operations. It holds no per-request state and is
// safe for concurrent use.
type Orchestrator struct {
	publisher notify.Publisher
	agent     agent.Agent
	timeout   time.Duration
	audit     audit.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the per-dispatch timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithAuditLogger records every Execute and Plan call in l.
func WithAuditLogger(l audit.Logger) Option {
	return func(o *Orchestrator) { o.audit = l }
}

// New returns an orchestrator publishing to p and dispatching through a.
func New(p notify.Publisher, a agent.Agent, opts ...Option) *Orchestrator {
	o := &Orchestrator{publisher: p, agent: a, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Agent returns the dispatch agent.
func (o *Orchestrator) Agent() agent.Agent { return o.agent }

// Plan validates op and returns the sequence Execute would send, without
// publishing or dispatching anything.
func (o *Orchestrator) Plan(op operations.Operation) (commands.Sequence, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	if err := op.Console().Validate(); err != nil {
		return nil, err
	}
	cmds := op.Commands()
	if err := commands.CheckModes(cmds); err != nil {
		return nil, fmt.Errorf("%s: %w", op.Name(), err)
	}
	return cmds, nil
}

// Preview runs Plan and records the result as a dry-run audit event.
func (o *Orchestrator) Preview(ctx context.Context, op operations.Operation) (commands.Sequence, error) {
	cmds, err := o.Plan(op)
	event := o.newEvent(ctx, op).WithCommands(cmds).WithDryRun(true)
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
	}
	o.record(event)
	return cmds, err
}

// Execute validates op, publishes its commands, and dispatches them to the
// device. Every failure is returned in the Outcome and published as exactly
// one Error notification; Execute itself never panics or returns an error.
func (o *Orchestrator) Execute(ctx context.Context, op operations.Operation) (out Outcome) {
	start := time.Now()
	target := op.Console()
	log := util.WithDispatch(op.Name(), target.Host, target.Port)

	out.Operation = op.Name()
	event := o.newEvent(ctx, op)
	defer func() {
		out.Duration = time.Since(start)
		event.WithCommands(out.Commands).WithDuration(out.Duration)
		if out.Success {
			event.WithSuccess()
		} else {
			event.WithError(out.Err)
		}
		o.record(event)
	}()

	cmds, err := o.Plan(op)
	if err != nil {
		out.fail(err)
		o.publisher.Append(out.Reason, notify.KindError)
		log.WithError(err).Info("Rejected operation")
		return out
	}
	out.Commands = cmds

	for _, cmd := range cmds {
		o.publisher.Append(cmd, notify.KindCommand)
	}

	event.WithAgent(o.agent.Name())
	log.Debugf("Dispatching %d commands via %s agent", len(cmds), o.agent.Name())
	if err := o.dispatch(ctx, target, cmds); err != nil {
		out.fail(err)
		o.publisher.Append(out.Reason, notify.KindError)
		log.WithError(err).Error("Command dispatch failed")
		return out
	}

	out.Success = true
	log.Info("Commands dispatched")
	return out
}

func (o *Orchestrator) dispatch(ctx context.Context, target operations.Target, cmds commands.Sequence) (err error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = util.NewDispatchError(o.agent.Name(), fmt.Errorf("agent panic: %v", r))
		}
	}()

	err = o.agent.Run(ctx, target.Host, target.Port, cmds.Clone())
	if err != nil && !errors.Is(err, util.ErrDispatchFailed) {
		err = util.NewDispatchError(o.agent.Name(), err)
	}
	return err
}

func (o *Orchestrator) newEvent(ctx context.Context, op operations.Operation) *audit.Event {
	c := CallerFrom(ctx)
	target := op.Console()
	return audit.NewEvent(c.Source, target.Host, target.Port, op.Name()).
		WithUser(c.User).
		WithClientIP(c.ClientIP)
}

func (o *Orchestrator) record(event *audit.Event) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Log(event); err != nil {
		util.WithFields(logrus.Fields{"event": event.ID}).WithError(err).Warn("Failed to write audit event")
	}
}

// fail records err in the outcome. Validation errors surface their field
// message; anything else its full text.
func (out *Outcome) fail(err error) {
	out.Success = false
	out.Err = err
	var ve *util.ValidationError
	if errors.As(err, &ve) {
		out.Reason = ve.Message()
		return
	}
	out.Reason = err.Error()
}
