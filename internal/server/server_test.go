package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/vanshika/citynav/internal/config"
)

func TestNewAppliesHTTPConfig(t *testing.T) {
	cfg := config.HTTPConfig{
		Host:              "127.0.0.1",
		Port:              8181,
		ReadTimeout:       3 * time.Second,
		ReadHeaderTimeout: 750 * time.Millisecond,
		WriteTimeout:      4 * time.Second,
		IdleTimeout:       time.Minute,
	}
	s := New(nil, cfg, http.NotFoundHandler())

	if s.Addr() != "127.0.0.1:8181" {
		t.Fatalf("unexpected addr %q", s.Addr())
	}
	hs := s.httpServer
	if hs.ReadHeaderTimeout != 750*time.Millisecond {
		t.Fatalf("expected read header timeout from config, got %s", hs.ReadHeaderTimeout)
	}
	if hs.ReadTimeout != 3*time.Second || hs.WriteTimeout != 4*time.Second || hs.IdleTimeout != time.Minute {
		t.Fatalf("unexpected timeouts read=%s write=%s idle=%s", hs.ReadTimeout, hs.WriteTimeout, hs.IdleTimeout)
	}
	if hs.ErrorLog == nil {
		t.Fatal("expected server error log to be routed through slog")
	}
}

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(logger, config.HTTPConfig{ReadHeaderTimeout: time.Second}, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after shutdown")
	}
}
