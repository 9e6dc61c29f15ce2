// Package agent dispatches command sequences to a device console.
//
// An Agent blocks until the device session is finished and reports every
// failure as a *util.DispatchError. Three implementations are provided:
// Script runs an external program with the sequence as arguments, Console
// speaks telnet to a console port directly, and SSH drives an interactive
// shell.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Agent sends a command sequence to the console at host:port.
type Agent interface {
	Name() string
	Run(ctx context.Context, host, port string, cmds commands.Sequence) error
}

// Func adapts a function to the Agent interface.
type Func func(ctx context.Context, host, port string, cmds commands.Sequence) error

// Name returns "func".
func (f Func) Name() string { return "func" }

// Run calls f.
func (f Func) Run(ctx context.Context, host, port string, cmds commands.Sequence) error {
	return f(ctx, host, port, cmds)
}

// outputTail returns the last non-empty line of out, capped at max bytes.
func outputTail(out string, max int) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = strings.TrimSpace(out[i+1:])
	}
	if max > 0 && len(out) > max {
		out = "..." + out[len(out)-max:]
	}
	return out
}

// failure wraps err as a dispatch error. When ctx has expired the context
// error takes precedence, so deadline-driven I/O errors surface as
// util.ErrAgentTimeout.
func failure(ctx context.Context, agent string, err error) *util.DispatchError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return util.NewDispatchError(agent, fmt.Errorf("%w: %w", util.ErrAgentTimeout, ctxErr))
		}
		return util.NewDispatchError(agent, ctxErr)
	}
	return util.NewDispatchError(agent, err)
}
