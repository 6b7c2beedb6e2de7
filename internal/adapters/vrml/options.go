package vrml

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vrml-tools/vrml-bot/internal/infra/metrics"
	"github.com/vrml-tools/vrml-bot/internal/infra/retry"
)

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(u string) Option {
	return func(c *Client) { c.routes = Routes{Base: strings.TrimRight(u, "/")} }
}

// WithSiteURL sets the prefix for relative asset and page links.
func WithSiteURL(u string) Option {
	return func(c *Client) { c.mapper.site = strings.TrimRight(u, "/") }
}

// WithMaxAttempts caps the attempts of one logical request.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRateLimit adds a client side token bucket in front of every attempt.
// rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithPageConcurrency bounds parallel roster page fetches.
func WithPageConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageWorkers = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.Named("vrml")
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func withSleep(s retry.SleepFunc) Option {
	return func(c *Client) { c.sleep = s }
}
