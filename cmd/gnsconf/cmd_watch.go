package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ManderO9/Gns3Configuration/pkg/cli"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/poller"
)

func newWatchCmd() *cobra.Command {
	var (
		serverURL string
		stream    bool
		plain     bool
		interval  time.Duration
		lifetime  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the notification feed of a gnsconf server",
		Long: `Follow the notification feed of a running "gnsconf serve".

The feed is polled every interval. Each batch is revealed one entry at a
time and every entry disappears after its lifetime, like the web UI.`,
		Example: `  gnsconf watch
  gnsconf watch --server http://10.0.0.5:8080 --ws
  gnsconf watch --plain | tee session.log`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = userSettings.GetServerURL()
			}

			var feed poller.Feed
			if stream {
				sf, err := poller.NewStreamFeed(serverURL)
				if err != nil {
					return err
				}
				defer sf.Close()
				feed = sf
			} else {
				feed = poller.NewHTTPFeed(serverURL)
			}
			p := &poller.Poller{Feed: feed, Interval: interval, Lifetime: lifetime}

			if plain {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				err := p.Run(ctx, func(ev poller.Event) {
					if line, ok := plainLine(ev); ok {
						fmt.Println(line)
					}
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}

			return runWatchTUI(cmd.Context(), p, serverURL)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "gnsconf server URL (default from settings)")
	cmd.Flags().BoolVar(&stream, "ws", false, "Poll over a WebSocket instead of HTTP")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print shown entries as lines instead of the full-screen view")
	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "Poll interval")
	cmd.Flags().DurationVar(&lifetime, "lifetime", poller.DefaultLifetime, "How long an entry stays on screen")
	return cmd
}

// plainLine renders a shown entry for --plain. Expiry is not printed.
func plainLine(ev poller.Event) (string, bool) {
	if ev.Type != poller.Shown {
		return "", false
	}
	return ev.Entry.ShownAt.Format("15:04:05") + " " + cli.Notification(ev.Entry.Notification), true
}

func runWatchTUI(ctx context.Context, p *poller.Poller, source string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newWatchModel(source), tea.WithAltScreen())
	p.OnError = func(err error) { prog.Send(feedErrMsg{err: err}) }

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, func(ev poller.Event) { prog.Send(feedEventMsg(ev)) })
	}()

	_, err := prog.Run()
	cancel()
	<-done
	return err
}

type feedEventMsg poller.Event

type feedErrMsg struct{ err error }

type watchTheme struct {
	header    lipgloss.Style
	panel     lipgloss.Style
	title     lipgloss.Style
	footer    lipgloss.Style
	command   lipgloss.Style
	info      lipgloss.Style
	errorLine lipgloss.Style
	muted     lipgloss.Style
}

func newWatchTheme() watchTheme {
	pink := lipgloss.Color("#ff71ce")
	blue := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	text := lipgloss.Color("#f3f3ff")
	muted := lipgloss.Color("#9ca3d8")

	return watchTheme{
		header: lipgloss.NewStyle().
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		title:     lipgloss.NewStyle().Foreground(mint).Bold(true),
		footer:    lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		command:   lipgloss.NewStyle().Foreground(text),
		info:      lipgloss.NewStyle().Foreground(blue),
		errorLine: lipgloss.NewStyle().Foreground(pink).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
	}
}

type watchModel struct {
	theme   watchTheme
	source  string
	board   poller.Board
	seen    int
	lastErr error
	width   int
}

func newWatchModel(source string) watchModel {
	return watchModel{theme: newWatchTheme(), source: source}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedEventMsg:
		ev := poller.Event(msg)
		m.board.Apply(ev)
		if ev.Type == poller.Shown {
			m.seen++
		}
		m.lastErr = nil
	case feedErrMsg:
		m.lastErr = msg.err
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	header := m.theme.header.Render(m.theme.title.Render("gnsconf watch") + "  " + m.theme.muted.Render(m.source))

	var lines []string
	for _, e := range m.board.Entries() {
		lines = append(lines, m.renderEntry(e))
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.muted.Render("waiting for notifications..."))
	}
	panel := m.theme.panel
	if m.width > 4 {
		panel = panel.Width(m.width - 2)
	}

	status := fmt.Sprintf("%d on screen · %d seen · q to quit", m.board.Len(), m.seen)
	if m.lastErr != nil {
		status = m.theme.errorLine.Render("feed: "+m.lastErr.Error()) + "  " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		panel.Render(strings.Join(lines, "\n")),
		m.theme.footer.Render(status),
	)
}

func (m watchModel) renderEntry(e poller.Entry) string {
	ts := m.theme.muted.Render(e.ShownAt.Format("15:04:05"))
	switch e.Kind {
	case notify.KindError:
		return ts + " " + m.theme.errorLine.Render("error: "+e.Message)
	case notify.KindInfo:
		return ts + " " + m.theme.info.Render(e.Message)
	default:
		return ts + " " + m.theme.muted.Render("> ") + m.theme.command.Render(e.Message)
	}
}
