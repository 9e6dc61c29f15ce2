package cli

import (
	"strings"
	"testing"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
)

func TestDotPad(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"r1-uplink (127.0.0.1:5000)", 32, "r1-uplink (127.0.0.1:5000) ....."},
		{"pc1", 8, "pc1 ...."},
		{"abcde", 6, "abcde"},
		{"too-long-for-width", 5, "too-long-for-width"},
		{"", 3, " .."},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		got := DotPad(tt.name, tt.width)
		if got != tt.want {
			t.Errorf("DotPad(%q, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
		if tt.width > len(tt.name)+1 && len(got) != tt.width {
			t.Errorf("DotPad(%q, %d) has length %d", tt.name, tt.width, len(got))
		}
	}
}

func TestColorFunctions(t *testing.T) {
	SetColor(true)
	t.Cleanup(func() { SetColor(true) })

	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Green", Green, "\033[32m"},
		{"Yellow", Yellow, "\033[33m"},
		{"Red", Red, "\033[31m"},
		{"Cyan", Cyan, "\033[36m"},
		{"Bold", Bold, "\033[1m"},
		{"Dim", Dim, "\033[2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("hello")
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("%s should start with %q", tt.name, tt.prefix)
			}
			if !strings.Contains(got, "hello") {
				t.Errorf("%s should contain the input string", tt.name)
			}
			if !strings.HasSuffix(got, "\033[0m") {
				t.Errorf("%s should end with reset code", tt.name)
			}
		})
	}
}

func TestColorDisabled(t *testing.T) {
	SetColor(false)
	t.Cleanup(func() { SetColor(true) })

	if got := Red("x"); got != "x" {
		t.Errorf("Red with color off = %q", got)
	}
}

func TestNotification(t *testing.T) {
	SetColor(false)
	t.Cleanup(func() { SetColor(true) })

	tests := []struct {
		n    notify.Notification
		want string
	}{
		{notify.Notification{Message: "conf t", Kind: notify.KindCommand}, "> conf t"},
		{notify.Notification{Message: "invalid mask", Kind: notify.KindError}, "error: invalid mask"},
		{notify.Notification{Message: "r1: Add RIP network 10.0.0.0", Kind: notify.KindInfo}, "r1: Add RIP network 10.0.0.0"},
	}
	for _, tt := range tests {
		if got := Notification(tt.n); got != tt.want {
			t.Errorf("Notification(%+v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	SetColor(false)
	t.Cleanup(func() { SetColor(true) })

	if got := Status(true, false); got != "ok" {
		t.Errorf("Status(ok) = %q", got)
	}
	if got := Status(false, false); got != "FAILED" {
		t.Errorf("Status(failed) = %q", got)
	}
	if got := Status(false, true); got != "skipped" {
		t.Errorf("Status(skipped) = %q", got)
	}
}
