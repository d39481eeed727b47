package logs

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/Alijeyrad/founders_backend/config"
)

const lokiPushPath = "/loki/api/v1/push"

// newLokiHandler pushes records to Loki through the batching loki client.
func newLokiHandler(cfg *config.Config, level slog.Level) (slog.Handler, func(), error) {
	lc := cfg.Logging.Output.Loki

	endpoint, err := lokiPushURL(lc)
	if err != nil {
		return nil, nil, err
	}

	clientCfg, err := loki.NewDefaultConfig(endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("loki config: %w", err)
	}
	clientCfg.TenantID = lc.TenantID

	client, err := loki.New(clientCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("loki client: %w", err)
	}

	h := slogloki.Option{Level: level, Client: client}.NewLokiHandler()
	return h, client.Stop, nil
}

// lokiPushURL appends the push path and embeds basic auth credentials, which
// the HTTP client turns into an Authorization header.
func lokiPushURL(lc config.LokiConfig) (string, error) {
	if lc.Endpoint == "" {
		return "", fmt.Errorf("loki endpoint is empty")
	}
	u, err := url.Parse(lc.Endpoint)
	if err != nil {
		return "", fmt.Errorf("loki endpoint: %w", err)
	}
	if !strings.HasSuffix(u.Path, lokiPushPath) {
		u.Path = strings.TrimRight(u.Path, "/") + lokiPushPath
	}
	if lc.Username != "" {
		u.User = url.UserPassword(lc.Username, lc.Password)
	}
	return u.String(), nil
}
