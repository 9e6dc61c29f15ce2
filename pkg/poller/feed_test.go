package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
)

func newStreamServer(t *testing.T, m *notify.Mailbox) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/notifications" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(msg) != "poll" {
				continue
			}
			empty, batch := m.DrainAll()
			if err := conn.WriteJSON(Batch{Empty: empty, Notifications: batch}); err != nil {
				return
			}
		}
	}))
}

func TestNewStreamFeed_URL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://127.0.0.1:8080/", "ws://127.0.0.1:8080/ws/notifications"},
		{"https://gns.example", "wss://gns.example/ws/notifications"},
		{"ws://gns.example:9000", "ws://gns.example:9000/ws/notifications"},
		{"wss://gns.example/", "wss://gns.example/ws/notifications"},
		{"localhost:8080", "ws://localhost:8080/ws/notifications"},
		{"10.0.0.5:8080/", "ws://10.0.0.5:8080/ws/notifications"},
		{"http://gns.example/gnsconf/", "ws://gns.example/gnsconf/ws/notifications"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			feed, err := NewStreamFeed(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, feed.URL)
		})
	}
}

func TestNewStreamFeed_BadURL(t *testing.T) {
	for _, base := range []string{"ftp://gns.example", "http://", "", "http://[::1"} {
		_, err := NewStreamFeed(base)
		assert.Error(t, err, base)
	}
}

func TestStreamFeed(t *testing.T) {
	m := notify.NewMailbox()
	ts := newStreamServer(t, m)
	defer ts.Close()

	feed, err := NewStreamFeed(ts.URL)
	require.NoError(t, err)
	defer feed.Close()

	empty, batch, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Empty(t, batch)

	m.Append("router rip", notify.KindCommand)
	m.Append("No host entered", notify.KindError)

	empty, batch, err = feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, []notify.Notification{
		{Message: "router rip", Kind: notify.KindCommand},
		{Message: "No host entered", Kind: notify.KindError},
	}, batch)

	require.NoError(t, feed.Close())
	require.NoError(t, feed.Close())
}

func TestStreamFeed_DialFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	feed, err := NewStreamFeed(ts.URL)
	require.NoError(t, err)
	_, _, err = feed.Fetch(context.Background())
	assert.Error(t, err)
	ts.Close()
}
