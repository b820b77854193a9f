package pusher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
)

// DefaultUserAgent is sent with every webhook request
const DefaultUserAgent = "rusted-iron-pusher/1.0"

// Gateway posts a message body to a subscriber endpoint and returns the
// response status code. A transport failure is returned as an error.
type Gateway interface {
	Post(ctx context.Context, sub domain.Subscriber, body string) (int, error)
}

// HTTPGateway delivers messages over HTTP
type HTTPGateway struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// HTTPGatewayConfig configures the webhook HTTP client
type HTTPGatewayConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// NewHTTPGateway creates an HTTP webhook gateway
func NewHTTPGateway(config HTTPGatewayConfig, logger *slog.Logger) *HTTPGateway {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &HTTPGateway{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		userAgent: config.UserAgent,
		logger:    logger.With("component", "http_gateway"),
	}
}

// Post sends body to sub.URL with the subscriber headers and the pusher user agent
func (g *HTTPGateway) Post(ctx context.Context, sub domain.Subscriber, body string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	for k, v := range sub.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to post to %s: %w", sub.Name, err)
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	g.logger.Debug("Webhook response",
		"subscriber", sub.Name,
		"status", resp.StatusCode,
	)
	return resp.StatusCode, nil
}
