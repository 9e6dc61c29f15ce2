package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// SSH runs the sequence in an interactive shell on a device that accepts
// SSH logins, then logs out.
type SSH struct {
	User         string
	Password     string
	DialTimeout  time.Duration
	CommandDelay time.Duration

	// HostKeyCallback defaults to accepting any key. Lab devices regenerate
	// keys on every rebuild.
	HostKeyCallback ssh.HostKeyCallback
}

// Name returns "ssh".
func (a *SSH) Name() string { return "ssh" }

func (a *SSH) clientConfig() *ssh.ClientConfig {
	hostKey := a.HostKeyCallback
	if hostKey == nil {
		hostKey = ssh.InsecureIgnoreHostKey()
	}
	timeout := a.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return &ssh.ClientConfig{
		User: a.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(a.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = a.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	}
}

// Run logs in, writes each command followed by a newline, then "exit".
func (a *SSH) Run(ctx context.Context, host, port string, cmds commands.Sequence) error {
	config := a.clientConfig()
	addr := net.JoinHostPort(host, port)

	dialer := &net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return failure(ctx, a.Name(), err)
	}
	conn.SetDeadline(time.Now().Add(config.Timeout))
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return failure(ctx, a.Name(), fmt.Errorf("SSH handshake %s: %w", addr, err))
	}
	conn.SetDeadline(time.Time{})
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return util.NewDispatchError(a.Name(), fmt.Errorf("SSH session: %w", err))
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out
	stdin, err := session.StdinPipe()
	if err != nil {
		return util.NewDispatchError(a.Name(), err)
	}

	modes := ssh.TerminalModes{ssh.ECHO: 0}
	if err := session.RequestPty("vt100", 40, 120, modes); err != nil {
		return util.NewDispatchError(a.Name(), fmt.Errorf("requesting pty: %w", err))
	}
	if err := session.Shell(); err != nil {
		return util.NewDispatchError(a.Name(), fmt.Errorf("starting shell: %w", err))
	}

	delay := a.CommandDelay
	if delay <= 0 {
		delay = DefaultCommandDelay
	}

	done := make(chan error, 1)
	go func() {
		done <- a.feed(ctx, stdin, cmds, delay)
	}()

	select {
	case err := <-done:
		if err != nil {
			return failure(ctx, a.Name(), err)
		}
	case <-ctx.Done():
		session.Close()
		<-done
		return failure(ctx, a.Name(), ctx.Err())
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- session.Wait() }()

	select {
	case err := <-waitErr:
		return a.exitError(err, out.String())
	case <-ctx.Done():
		session.Close()
		<-waitErr
		return failure(ctx, a.Name(), ctx.Err())
	}
}

func (a *SSH) feed(ctx context.Context, stdin io.WriteCloser, cmds commands.Sequence, delay time.Duration) error {
	defer stdin.Close()
	lines := append(cmds.Clone(), "exit")
	for _, line := range lines {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if _, err := io.WriteString(stdin, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (a *SSH) exitError(err error, output string) error {
	if err == nil {
		return nil
	}
	var missing *ssh.ExitMissingError
	if errors.As(err, &missing) {
		// Network OS shells commonly close the channel without a status.
		return nil
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return &util.DispatchError{
			Agent:    a.Name(),
			ExitCode: exitErr.ExitStatus(),
			Output:   outputTail(output, defaultOutputTail),
			Err:      err,
		}
	}
	return util.NewDispatchError(a.Name(), err)
}
