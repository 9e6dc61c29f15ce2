package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
)

// fetchTimeout bounds one Fetch when ctx carries no deadline.
const fetchTimeout = 5 * time.Second

// Feed fetches whatever notifications are pending. Each call drains them.
type Feed interface {
	Fetch(ctx context.Context) (empty bool, batch []notify.Notification, err error)
}

// Batch is the wire shape of one drain result.
type Batch struct {
	Empty         bool                  `json:"empty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// Drainer is satisfied by *notify.Mailbox.
type Drainer interface {
	DrainAll() (empty bool, batch []notify.Notification)
}

// MailboxFeed reads an in-process mailbox directly.
type MailboxFeed struct {
	Mailbox Drainer
}

func (f MailboxFeed) Fetch(ctx context.Context) (bool, []notify.Notification, error) {
	empty, batch := f.Mailbox.DrainAll()
	return empty, batch, nil
}

// HTTPFeed polls GET <BaseURL>/GetNewNotifications.
type HTTPFeed struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFeed returns a feed for the server at baseURL.
func NewHTTPFeed(baseURL string) *HTTPFeed {
	return &HTTPFeed{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: fetchTimeout},
	}
}

func (f *HTTPFeed) Fetch(ctx context.Context) (bool, []notify.Notification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/GetNewNotifications", nil)
	if err != nil {
		return false, nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil, fmt.Errorf("notification feed returned %s", resp.Status)
	}
	var b Batch
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return false, nil, fmt.Errorf("decoding notification feed: %w", err)
	}
	return b.Empty, b.Notifications, nil
}

// StreamFeed polls over a WebSocket, sending "poll" and reading one batch
// per Fetch. The connection is dialed lazily and redialed after errors.
type StreamFeed struct {
	URL    string
	Dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewStreamFeed returns a feed for the server at baseURL. http and ws map to
// ws, https and wss to wss. A bare host:port is taken as http.
func NewStreamFeed(baseURL string) (*StreamFeed, error) {
	u, err := streamURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &StreamFeed{URL: u, Dialer: websocket.DefaultDialer}, nil
}

func streamURL(baseURL string) (string, error) {
	raw := baseURL
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: no host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/notifications"
	u.RawPath = ""
	return u.String(), nil
}

func (f *StreamFeed) Fetch(ctx context.Context) (bool, []notify.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		conn, _, err := f.Dialer.DialContext(ctx, f.URL, nil)
		if err != nil {
			return false, nil, err
		}
		f.conn = conn
	}
	dl, ok := ctx.Deadline()
	if !ok {
		dl = time.Now().Add(fetchTimeout)
	}
	f.conn.SetWriteDeadline(dl)
	f.conn.SetReadDeadline(dl)

	var b Batch
	err := f.conn.WriteMessage(websocket.TextMessage, []byte("poll"))
	if err == nil {
		err = f.conn.ReadJSON(&b)
	}
	if err != nil {
		f.conn.Close()
		f.conn = nil
		return false, nil, err
	}
	return b.Empty, b.Notifications, nil
}

// Close closes the stream.
func (f *StreamFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}
