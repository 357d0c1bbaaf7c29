// Package healthcheck serves a small liveness endpoint next to a channel
// runtime.
package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quailyquaily/topicguard/internal/heartbeatutil"
)

// NormalizeListen turns a configured address into something net.Listen
// accepts. A bare port becomes "127.0.0.1:<port>"; empty disables the server.
func NormalizeListen(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	if !strings.Contains(addr, ":") {
		return "127.0.0.1:" + addr
	}
	return addr
}

type status struct {
	OK              bool   `json:"ok"`
	Component       string `json:"component"`
	StartedAt       string `json:"started_at"`
	Uptime          string `json:"uptime"`
	PollFailures    int    `json:"poll_failures"`
	LastPollSuccess string `json:"last_poll_success,omitempty"`
	LastError       string `json:"last_error,omitempty"`
}

// NewHandler returns the router behind the health server. /healthz answers
// 503 while hb reports an unhealthy poll loop; a nil hb is always healthy.
func NewHandler(component string, startedAt time.Time, hb *heartbeatutil.State) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		snap := hb.Snapshot()
		body := status{
			OK:           snap.Healthy,
			Component:    component,
			StartedAt:    startedAt.UTC().Format(time.RFC3339),
			Uptime:       time.Since(startedAt).Round(time.Second).String(),
			PollFailures: snap.Failures,
			LastError:    snap.LastError,
		}
		if !snap.LastSuccess.IsZero() {
			body.LastPollSuccess = snap.LastSuccess.UTC().Format(time.RFC3339)
		}
		w.Header().Set("Content-Type", "application/json")
		if !snap.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(body)
	})
	return r
}

// StartServer listens on addr and serves until ctx is done or the caller
// shuts the returned server down.
func StartServer(ctx context.Context, logger *slog.Logger, addr string, component string, hb *heartbeatutil.State) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           NewHandler(component, time.Now(), hb),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("health_server_start", "addr", ln.Addr().String(), "component", component)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("health_server_error", "addr", ln.Addr().String(), "error", err.Error())
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv, nil
}
