package testutil

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"
)

// telnet IAC introduces a negotiation; the fake strips three-byte options.
const iac = 255

// Console is a fake device console. It accepts one connection, optionally
// sends a greeting, and captures everything the client writes until the
// client hangs up.
type Console struct {
	Host string
	Port string

	received chan []byte
}

// StartConsole listens on a loopback port. The listener is closed after
// the first connection or when the test ends.
func StartConsole(t *testing.T, greeting []byte) *Console {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	c := &Console{received: make(chan []byte, 1)}
	c.Host, c.Port, _ = net.SplitHostPort(ln.Addr().String())

	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			c.received <- nil
			return
		}
		defer conn.Close()
		if len(greeting) > 0 {
			conn.Write(greeting)
		}
		data, _ := io.ReadAll(conn)
		c.received <- data
	}()
	return c
}

// Received blocks until the client hangs up and returns the raw bytes.
func (c *Console) Received() []byte {
	return <-c.received
}

// Lines returns what the client typed, split on CRLF, with telnet option
// negotiations removed. The trailing empty element after the final CRLF
// is dropped.
func Lines(raw []byte) []string {
	var clean bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] == iac && i+2 < len(raw) {
			i += 2
			continue
		}
		clean.WriteByte(raw[i])
	}
	lines := strings.Split(clean.String(), "\r\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
