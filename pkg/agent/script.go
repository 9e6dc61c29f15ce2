package agent

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

const defaultOutputTail = 200

// Script runs an external agent program once per sequence:
//
//	[Interpreter] Path [Args...] host port cmd1 cmd2 ... cmdN
//
// Each command is a single argv element, so embedded spaces survive without
// any shell quoting.
type Script struct {
	Interpreter string
	Path        string
	Args        []string
	Dir         string

	// IgnoreExitStatus treats a non-zero exit as success. Only start
	// failures and timeouts are reported in that case.
	IgnoreExitStatus bool
}

// Name returns "script".
func (s *Script) Name() string { return "script" }

// Argv returns the full argument vector for one invocation.
func (s *Script) Argv(host, port string, cmds commands.Sequence) []string {
	argv := make([]string, 0, len(cmds)+len(s.Args)+4)
	if s.Interpreter != "" {
		argv = append(argv, s.Interpreter)
	}
	argv = append(argv, s.Path)
	argv = append(argv, s.Args...)
	argv = append(argv, host, port)
	argv = append(argv, cmds...)
	return argv
}

// Run starts the agent and waits for it to exit.
func (s *Script) Run(ctx context.Context, host, port string, cmds commands.Sequence) error {
	if s.Path == "" {
		return util.NewDispatchError(s.Name(), errors.New("no agent script configured"))
	}

	argv := s.Argv(host, port, cmds)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = s.Dir
	cmd.WaitDelay = time.Second

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log := util.WithTarget(host, port).WithField("agent", s.Name())
	log.Debugf("Running %s", CommandLine(argv))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return failure(ctx, s.Name(), err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		tail := outputTail(out.String(), defaultOutputTail)
		if s.IgnoreExitStatus {
			log.Warnf("Agent exited with status %d (ignored): %s", exitErr.ExitCode(), tail)
			return nil
		}
		return &util.DispatchError{
			Agent:    s.Name(),
			ExitCode: exitErr.ExitCode(),
			Output:   tail,
			Err:      err,
		}
	}
	return util.NewDispatchError(s.Name(), err)
}
