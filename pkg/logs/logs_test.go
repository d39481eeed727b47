package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
)

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	log := slog.New(h).With("service", "founders")

	log.Info("hello")
	log.WithGroup("req").Warn("careful", "id", 1)

	if !strings.Contains(debugBuf.String(), "msg=hello") || !strings.Contains(debugBuf.String(), "msg=careful") {
		t.Errorf("debug handler output = %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "msg=hello") {
		t.Error("warn handler received an info record")
	}
	if !strings.Contains(warnBuf.String(), "req.id=1") || !strings.Contains(warnBuf.String(), "service=founders") {
		t.Errorf("warn handler output = %q", warnBuf.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug-1) {
		t.Error("Enabled() below every handler level")
	}
}

func TestRequestHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(requestHandler{slog.NewTextHandler(&buf, nil)})

	ctx := reqctx.WithRequest(context.Background(), reqctx.Request{ID: "req-7"})
	log.InfoContext(ctx, "application submitted", "submission_id", 3)
	log.Info("startup")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "request_id=req-7") || !strings.Contains(lines[0], "submission_id=3") {
		t.Errorf("request line = %q", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Errorf("background line = %q", lines[1])
	}
}

func TestLokiPushURL(t *testing.T) {
	tests := []struct {
		name string
		in   config.LokiConfig
		want string
	}{
		{"bare host", config.LokiConfig{Endpoint: "http://loki:3100"}, "http://loki:3100/loki/api/v1/push"},
		{"trailing slash", config.LokiConfig{Endpoint: "http://loki:3100/"}, "http://loki:3100/loki/api/v1/push"},
		{"already full", config.LokiConfig{Endpoint: "https://logs.example/loki/api/v1/push"}, "https://logs.example/loki/api/v1/push"},
		{"basic auth", config.LokiConfig{Endpoint: "https://logs.example", Username: "u", Password: "p"}, "https://u:p@logs.example/loki/api/v1/push"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lokiPushURL(tt.in)
			if err != nil {
				t.Fatalf("lokiPushURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("lokiPushURL() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := lokiPushURL(config.LokiConfig{}); err == nil {
		t.Error("empty endpoint should error")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewStdoutOnly(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "development"
	cfg.Observability.ServiceName = "founders_backend"

	log, stop := New(cfg)
	defer stop()
	if log == nil {
		t.Fatal("New() returned nil logger")
	}
}
