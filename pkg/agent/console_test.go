package agent

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ManderO9/Gns3Configuration/internal/testutil"
	"github.com/ManderO9/Gns3Configuration/pkg/commands"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

func TestConsoleRun_WritesCRLFTerminatedCommands(t *testing.T) {
	console := testutil.StartConsole(t, []byte{telnetIAC, telnetDO, 1})
	c := &Console{CommandDelay: 20 * time.Millisecond}
	cmds := commands.Sequence{"en", "conf t", "ip route 10.0.0.0 255.0.0.0 1.1.1.1", "end"}

	if err := c.Run(testutil.Context(t), console.Host, console.Port, cmds); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := console.Received()
	reply := []byte{telnetIAC, telnetWONT, 1}
	if !bytes.Contains(got, reply) {
		t.Errorf("console never received WONT ECHO: %q", got)
	}
	got = bytes.Replace(got, reply, nil, 1)

	want := "\r\nen\r\nconf t\r\nip route 10.0.0.0 255.0.0.0 1.1.1.1\r\nend\r\n"
	if string(got) != want {
		t.Errorf("console received %q, want %q", got, want)
	}
}

func TestConsoleRun_EscapesIACInCommands(t *testing.T) {
	console := testutil.StartConsole(t, nil)
	c := &Console{CommandDelay: -1}
	cmd := "description a\xffb"

	if err := c.Run(testutil.Context(t), console.Host, console.Port, commands.Sequence{cmd}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "\r\ndescription a\xff\xffb\r\n"
	if got := string(console.Received()); got != want {
		t.Errorf("console received %q, want %q", got, want)
	}
}

func TestConsoleRun_EmptySequenceWakesLine(t *testing.T) {
	console := testutil.StartConsole(t, nil)
	c := &Console{CommandDelay: -1}
	if err := c.Run(testutil.Context(t), console.Host, console.Port, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := string(console.Received()); got != "\r\n" {
		t.Errorf("console received %q, want CRLF", got)
	}
}

func TestConsoleRun_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	c := &Console{DialTimeout: time.Second}
	err = c.Run(context.Background(), host, port, commands.Sequence{"en"})
	if !errors.Is(err, util.ErrDispatchFailed) {
		t.Errorf("Run() error = %v, want ErrDispatchFailed", err)
	}
}

func TestConsoleRun_DeadlineDuringDelay(t *testing.T) {
	console := testutil.StartConsole(t, nil)
	c := &Console{CommandDelay: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := c.Run(ctx, console.Host, console.Port, commands.Sequence{"en", "conf t"})
	if !errors.Is(err, util.ErrAgentTimeout) {
		t.Errorf("Run() error = %v, want ErrAgentTimeout", err)
	}
	if got := string(console.Received()); got != "\r\n" {
		t.Errorf("console received %q before timeout, want only CRLF", got)
	}
}
