package agent

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Default console pacing.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultCommandDelay = 50 * time.Millisecond
)

// Console writes commands straight to a telnet console port, such as the
// ones GNS3 exposes for routers and VPCS nodes. It wakes the line with an
// empty CRLF, then sends each command followed by CRLF, pausing
// CommandDelay before every command so the device can keep up.
type Console struct {
	DialTimeout  time.Duration
	CommandDelay time.Duration
}

// Name returns "console".
func (c *Console) Name() string { return "console" }

// Run sends cmds to host:port and closes the connection.
func (c *Console) Run(ctx context.Context, host, port string, cmds commands.Sequence) error {
	dialTimeout := c.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	delay := c.CommandDelay
	if delay < 0 {
		delay = 0
	} else if delay == 0 {
		delay = DefaultCommandDelay
	}

	addr := net.JoinHostPort(host, port)
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return failure(ctx, c.Name(), err)
	}
	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	}

	s := &consoleSession{conn: conn}
	s.wg.Add(1)
	go s.negotiate()
	defer s.close()

	log := util.WithTarget(host, port).WithField("agent", c.Name())
	log.Debugf("Connected to console %s", addr)

	if err := s.write([]byte("\r\n")); err != nil {
		return failure(ctx, c.Name(), err)
	}
	for _, cmd := range cmds {
		select {
		case <-ctx.Done():
			return failure(ctx, c.Name(), ctx.Err())
		case <-time.After(delay):
		}
		if err := s.write(escapeIAC([]byte(cmd + "\r\n"))); err != nil {
			return failure(ctx, c.Name(), err)
		}
		log.Debugf("Sent %q", cmd)
	}
	return nil
}

// consoleSession serializes writes from the command loop and the option
// negotiator onto one connection.
type consoleSession struct {
	conn net.Conn
	mu   sync.Mutex
	wg   sync.WaitGroup
}

func (s *consoleSession) write(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Write(b)
	return err
}

// negotiate consumes console output until the connection closes, answering
// option requests. Output is otherwise discarded.
func (s *consoleSession) negotiate() {
	defer s.wg.Done()
	var n negotiator
	buf := make([]byte, 1024)
	for {
		nr, err := s.conn.Read(buf)
		if nr > 0 {
			if reply := n.feed(buf[:nr]); len(reply) > 0 {
				if s.write(reply) != nil {
					return
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *consoleSession) close() {
	s.conn.Close()
	s.wg.Wait()
}
