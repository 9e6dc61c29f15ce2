package main

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ManderO9/Gns3Configuration/pkg/agent"
	"github.com/ManderO9/Gns3Configuration/pkg/cli"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/poller"
	"github.com/ManderO9/Gns3Configuration/pkg/settings"
)

func TestBuildAgent(t *testing.T) {
	t.Run("configured script", func(t *testing.T) {
		a, err := buildAgent("script", &settings.Settings{
			AgentScript:      "/opt/lab/configure.py",
			AgentInterpreter: "python3",
			IgnoreExitStatus: true,
		})
		if err != nil {
			t.Fatalf("buildAgent() error = %v", err)
		}
		s, ok := a.(*agent.Script)
		if !ok {
			t.Fatalf("buildAgent() = %T, want *agent.Script", a)
		}
		if s.Path != "/opt/lab/configure.py" || s.Interpreter != "python3" || !s.IgnoreExitStatus {
			t.Errorf("script = %+v", s)
		}
	})

	t.Run("default script re-executes gnsconf", func(t *testing.T) {
		a, err := buildAgent("", &settings.Settings{})
		if err != nil {
			t.Fatalf("buildAgent() error = %v", err)
		}
		s := a.(*agent.Script)
		self, _ := os.Executable()
		if s.Path != self {
			t.Errorf("Path = %q, want %q", s.Path, self)
		}
		if !reflect.DeepEqual(s.Args, []string{"agent", "--"}) {
			t.Errorf("Args = %v, want [agent --]", s.Args)
		}
	})

	t.Run("console", func(t *testing.T) {
		a, err := buildAgent("console", &settings.Settings{})
		if err != nil {
			t.Fatalf("buildAgent() error = %v", err)
		}
		if a.Name() != "console" {
			t.Errorf("Name() = %q, want console", a.Name())
		}
	})

	t.Run("ssh without user", func(t *testing.T) {
		if _, err := buildAgent("ssh", &settings.Settings{}); err == nil {
			t.Error("buildAgent(ssh) without ssh_user should fail")
		}
	})

	t.Run("ssh password from environment", func(t *testing.T) {
		a, err := buildAgent("ssh", &settings.Settings{SSHUser: "admin", SSHPassword: "cisco"})
		if err != nil {
			t.Fatalf("buildAgent() error = %v", err)
		}
		s := a.(*agent.SSH)
		if s.User != "admin" || s.Password != "cisco" {
			t.Errorf("ssh = %+v", s)
		}
	})

	t.Run("ssh password prompt", func(t *testing.T) {
		orig := readPassword
		defer func() { readPassword = orig }()

		var prompted string
		readPassword = func(prompt string) (string, error) {
			prompted = prompt
			return "typed", nil
		}
		a, err := buildAgent("ssh", &settings.Settings{SSHUser: "admin"})
		if err != nil {
			t.Fatalf("buildAgent() error = %v", err)
		}
		if a.(*agent.SSH).Password != "typed" {
			t.Errorf("Password = %q, want typed", a.(*agent.SSH).Password)
		}
		if !strings.Contains(prompted, "admin") {
			t.Errorf("prompt = %q, want it to name the user", prompted)
		}
	})

	t.Run("ssh prompt unavailable", func(t *testing.T) {
		orig := readPassword
		defer func() { readPassword = orig }()
		readPassword = func(string) (string, error) { return "", errors.New("stdin is not a terminal") }

		_, err := buildAgent("ssh", &settings.Settings{SSHUser: "admin"})
		if err == nil || !strings.Contains(err.Error(), "GNSCONF_SSH_PASSWORD") {
			t.Errorf("error = %v, want mention of GNSCONF_SSH_PASSWORD", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := buildAgent("netconf", &settings.Settings{}); err == nil {
			t.Error("buildAgent(netconf) should fail")
		}
	})
}

func TestSettingValue(t *testing.T) {
	s := &settings.Settings{AgentTimeout: "45s", Parallel: 2, IgnoreExitStatus: true}
	tests := []struct {
		key  string
		want string
	}{
		{"agent", settings.DefaultAgent},
		{"agent_timeout", "45s"},
		{"parallel", "2"},
		{"ignore_exit_status", "true"},
		{"listen", settings.DefaultListen},
		{"server_url", settings.DefaultServerURL},
		{"ssh_user", ""},
	}
	for _, tt := range tests {
		if got := settingValue(s, tt.key); got != tt.want {
			t.Errorf("settingValue(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	bad := &settings.Settings{AgentTimeout: "soon"}
	if got := settingValue(bad, "agent_timeout"); got != "soon (invalid)" {
		t.Errorf("settingValue(invalid timeout) = %q", got)
	}
}

func TestSettingKeysAreSettable(t *testing.T) {
	for _, key := range settingKeys {
		s := &settings.Settings{}
		value := "x"
		switch key {
		case "agent":
			value = "console"
		case "agent_timeout":
			value = "10s"
		case "ignore_exit_status":
			value = "true"
		case "parallel":
			value = "3"
		case "log_format":
			value = "json"
		}
		if err := s.Set(key, value); err != nil {
			t.Errorf("Set(%q, %q) error = %v", key, value, err)
		}
	}
}

func TestPlainLine(t *testing.T) {
	cli.SetColor(false)
	defer cli.SetColor(true)

	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)
	shown := poller.Event{Type: poller.Shown, Entry: poller.Entry{
		ID:           1,
		Notification: notify.Notification{Message: "conf t", Kind: notify.KindCommand},
		ShownAt:      at,
	}}
	line, ok := plainLine(shown)
	if !ok || line != "14:05:09 > conf t" {
		t.Errorf("plainLine(shown) = (%q, %v)", line, ok)
	}

	shown.Entry.Notification = notify.Notification{Message: "No host entered", Kind: notify.KindError}
	if line, _ := plainLine(shown); line != "14:05:09 error: No host entered" {
		t.Errorf("plainLine(error) = %q", line)
	}

	expired := poller.Event{Type: poller.Expired, Entry: shown.Entry}
	if _, ok := plainLine(expired); ok {
		t.Error("plainLine(expired) should be skipped")
	}
}

func TestWatchModel(t *testing.T) {
	m := newWatchModel("http://127.0.0.1:8080")

	entry := poller.Entry{
		ID:           7,
		Notification: notify.Notification{Message: "router rip", Kind: notify.KindCommand},
		ShownAt:      time.Now(),
	}
	next, _ := m.Update(feedEventMsg(poller.Event{Type: poller.Shown, Entry: entry}))
	m = next.(watchModel)
	if m.board.Len() != 1 || m.seen != 1 {
		t.Fatalf("after Shown: len=%d seen=%d, want 1 1", m.board.Len(), m.seen)
	}
	if view := m.View(); !strings.Contains(view, "router rip") {
		t.Errorf("View() missing entry:\n%s", view)
	}

	next, _ = m.Update(feedErrMsg{err: errors.New("connection refused")})
	m = next.(watchModel)
	if view := m.View(); !strings.Contains(view, "connection refused") {
		t.Errorf("View() missing feed error:\n%s", view)
	}

	next, _ = m.Update(feedEventMsg(poller.Event{Type: poller.Expired, Entry: entry}))
	m = next.(watchModel)
	if m.board.Len() != 0 || m.seen != 1 {
		t.Errorf("after Expired: len=%d seen=%d, want 0 1", m.board.Len(), m.seen)
	}
	if m.lastErr != nil {
		t.Errorf("lastErr = %v, want cleared by a successful event", m.lastErr)
	}
	if view := m.View(); !strings.Contains(view, "waiting for notifications") {
		t.Errorf("View() on empty board:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q returned %T, want tea.QuitMsg", cmd())
	}
}

func TestIntentCmdArgs(t *testing.T) {
	want := map[string]int{"route": 3, "interface": 3, "rip": 1, "ospf": 4, "pc": 2}
	cmds := newIntentCmds()
	if len(cmds) != len(want) {
		t.Fatalf("newIntentCmds() returned %d commands, want %d", len(cmds), len(want))
	}
	for _, cmd := range cmds {
		n, ok := want[cmd.Name()]
		if !ok {
			t.Errorf("unexpected command %q", cmd.Name())
			continue
		}
		if err := cmd.Args(cmd, make([]string, n)); err != nil {
			t.Errorf("%s with %d args: %v", cmd.Name(), n, err)
		}
		if err := cmd.Args(cmd, make([]string, n+1)); err == nil {
			t.Errorf("%s with %d args should fail", cmd.Name(), n+1)
		}
	}
}
