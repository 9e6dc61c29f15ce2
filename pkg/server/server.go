// Package server exposes the configuration operations and the notification
// feed over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ManderO9/Gns3Configuration/pkg/audit"
	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/operations"
	"github.com/ManderO9/Gns3Configuration/pkg/orchestrator"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
	"github.com/ManderO9/Gns3Configuration/pkg/version"
)

// DispatchFailedMessage is returned to HTTP callers when the agent fails.
// The specific cause reaches the operator through the notification feed.
const DispatchFailedMessage = "something went wrong during execution of commands"

// Executor runs one operation to completion.
type Executor interface {
	Execute(ctx context.Context, op operations.Operation) orchestrator.Outcome
}

// Drainer hands out pending notifications exactly once.
type Drainer interface {
	DrainAll() (empty bool, batch []notify.Notification)
}

// Server serves the operation routes and the notification feed.
type Server struct {
	exec     Executor
	feed     Drainer
	mux      *http.ServeMux
	upgrader websocket.Upgrader

	// streams is cancelled on shutdown to close hijacked WebSocket connections.
	streams     context.Context
	stopStreams context.CancelFunc
}

// New returns a server executing through exec and draining feed.
func New(exec Executor, feed Drainer) *Server {
	s := &Server{
		exec: exec,
		feed: feed,
		mux:  http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.streams, s.stopStreams = context.WithCancel(context.Background())

	for path, parse := range operationRoutes {
		s.mux.HandleFunc(path, s.operationHandler(parse))
	}
	s.mux.HandleFunc("GET /GetNewNotifications", s.notificationsHandler)
	s.mux.HandleFunc("GET /ws/notifications", s.streamHandler)
	s.mux.HandleFunc("GET /healthz", s.healthHandler)
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Close terminates open notification streams.
func (s *Server) Close() {
	s.stopStreams()
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully,
// letting in-flight operations finish.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(s.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		util.WithField("addr", ln.Addr().String()).Info("Listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), orchestrator.DefaultTimeout+5*time.Second)
		defer cancel()
		util.Logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type feedResponse struct {
	Empty         bool                  `json:"empty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func (s *Server) operationHandler(parse func(*http.Request) operations.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, result{Error: err.Error()})
			return
		}
		ctx := orchestrator.WithCaller(r.Context(), orchestrator.Caller{
			Source:   audit.SourceHTTP,
			ClientIP: clientIP(r),
		})

		out := s.exec.Execute(ctx, parse(r))
		switch {
		case out.Success:
			writeJSON(w, http.StatusOK, result{Success: true})
		case out.Validation():
			writeJSON(w, http.StatusBadRequest, result{Error: out.Reason})
		case errors.Is(out.Err, util.ErrUnbalancedModes), errors.Is(out.Err, util.ErrMultilineCommand):
			writeJSON(w, http.StatusInternalServerError, result{Error: out.Reason})
		default:
			writeJSON(w, http.StatusBadGateway, result{Error: DispatchFailedMessage})
		}
	}
}

func (s *Server) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.drain())
}

func (s *Server) drain() feedResponse {
	empty, batch := s.feed.DrainAll()
	return feedResponse{Empty: empty, Notifications: batch}
}

// streamHandler answers every "poll" text frame with one drain result.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		util.WithField("remote", r.RemoteAddr).WithError(err).Debug("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	stop := context.AfterFunc(s.streams, func() { conn.Close() })
	defer stop()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage || string(msg) != "poll" {
			continue
		}
		if err := conn.WriteJSON(s.drain()); err != nil {
			return
		}
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    version.Version,
		"operations": operations.Kinds,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		util.WithFields(logrus.Fields{"status": status}).WithError(err).Debug("Writing response")
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
