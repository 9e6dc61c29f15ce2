package main

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	"golang.org/x/term"

	"github.com/ManderO9/Gns3Configuration/pkg/agent"
	"github.com/ManderO9/Gns3Configuration/pkg/audit"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/orchestrator"
	"github.com/ManderO9/Gns3Configuration/pkg/settings"
)

// readPassword prompts on the terminal. Replaced in tests.
var readPassword = func(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// buildAgent returns the dispatch agent named by name.
func buildAgent(name string, s *settings.Settings) (agent.Agent, error) {
	switch name {
	case "", "script":
		if s.AgentScript != "" {
			return &agent.Script{
				Interpreter:      s.AgentInterpreter,
				Path:             s.AgentScript,
				IgnoreExitStatus: s.IgnoreExitStatus,
			}, nil
		}
		// No external script: re-exec ourselves as the console agent. The
		// "--" keeps a host like "-v" from being parsed as a flag.
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating gnsconf executable: %w", err)
		}
		return &agent.Script{
			Path:             self,
			Args:             []string{"agent", "--"},
			IgnoreExitStatus: s.IgnoreExitStatus,
		}, nil
	case "console":
		return &agent.Console{}, nil
	case "ssh":
		if s.SSHUser == "" {
			return nil, fmt.Errorf("ssh agent requires ssh_user (gnsconf settings set ssh_user <name>)")
		}
		password := s.SSHPassword
		if password == "" {
			p, err := readPassword(fmt.Sprintf("SSH password for %s: ", s.SSHUser))
			if err != nil {
				return nil, fmt.Errorf("ssh agent requires %sSSH_PASSWORD or an interactive terminal: %w", settings.EnvPrefix, err)
			}
			password = p
		}
		return &agent.SSH{User: s.SSHUser, Password: password}, nil
	default:
		return nil, fmt.Errorf("unknown agent %q (valid: script, console, ssh)", name)
	}
}

// newOrchestrator wires the configured agent, timeout and audit log.
func newOrchestrator(p notify.Publisher) (*orchestrator.Orchestrator, error) {
	timeout, err := userSettings.GetAgentTimeout()
	if err != nil {
		return nil, err
	}
	a, err := buildAgent(agentName, userSettings)
	if err != nil {
		return nil, err
	}
	opts := []orchestrator.Option{orchestrator.WithTimeout(timeout)}
	if l := audit.DefaultLogger(); l != nil {
		opts = append(opts, orchestrator.WithAuditLogger(l))
	}
	return orchestrator.New(p, a, opts...), nil
}

// cliCaller identifies the local operator in audit events.
func cliCaller() orchestrator.Caller {
	c := orchestrator.Caller{Source: audit.SourceCLI}
	if u, err := user.Current(); err == nil {
		c.User = u.Username
	}
	return c
}
