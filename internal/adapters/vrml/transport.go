package vrml

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vrml-tools/vrml-bot/internal/infra/metrics"
	"github.com/vrml-tools/vrml-bot/internal/infra/retry"
)

const (
	defaultBase        = "https://api.vrmasterleague.com"
	defaultSite        = "https://vrmasterleague.com"
	defaultMaxAttempts = 10
	defaultPageWorkers = 5
	maxBodyBytes       = 8 << 20

	headerResetAfter = "X-RateLimit-Reset-After"
	headerGlobal     = "X-RateLimit-Global"
)

type Client struct {
	http        *http.Client
	routes      Routes
	mapper      mapper
	maxAttempts int
	pageWorkers int
	limiter     *rate.Limiter
	sleep       retry.SleepFunc
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		routes:      Routes{Base: defaultBase},
		mapper:      mapper{site: defaultSite},
		maxAttempts: defaultMaxAttempts,
		pageWorkers: defaultPageWorkers,
		sleep:       retry.Sleep,
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do sends route and decodes a 200 body into out. It retries rate limits
// (after the server-given delay), transport errors and unexpected statuses
// until the attempt budget is spent. A 503 fails at once.
func (c *Client) Do(ctx context.Context, route Route, out any) error {
	policy := retry.Policy{MaxAttempts: c.maxAttempts, Sleep: c.sleep}
	err := policy.Do(ctx, func(ctx context.Context, attempt int) retry.Result {
		return c.attempt(ctx, route, out, attempt)
	})

	var ex *retry.ExhaustedError
	if crerr.As(err, &ex) {
		c.log.Error("request ran out of retries",
			zap.String("route", route.String()),
			zap.Int("attempts", ex.Attempts),
			zap.Error(ex.Last),
		)
		return &RetriesExhaustedError{Route: route, Attempts: ex.Attempts, Last: ex.Last}
	}
	return err
}

func (c *Client) attempt(ctx context.Context, route Route, out any, attempt int) retry.Result {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Fail(crerr.Wrap(err, "rate limit wait"))
		}
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, route.URL(), nil)
	if err != nil {
		return retry.Fail(crerr.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return retry.Fail(ctx.Err())
		}
		c.metrics.HTTPRequest(route.Template, 0)
		c.metrics.HTTPRetry("transport")
		c.log.Warn("request failed, trying again",
			zap.String("route", route.String()), zap.Int("attempt", attempt), zap.Error(err))
		return retry.Again(crerr.Wrap(err, "vrml http"))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	c.metrics.HTTPRequest(route.Template, res.StatusCode)
	c.log.Debug("response",
		zap.String("route", route.String()), zap.Int("status", res.StatusCode), zap.Int("attempt", attempt))
	if err != nil {
		c.metrics.HTTPRetry("read_body")
		return retry.Again(crerr.Wrap(err, "read response body"))
	}

	switch res.StatusCode {
	case http.StatusOK:
		if err := sonic.Unmarshal(body, out); err != nil {
			return retry.Fail(&MalformedResponseError{Route: route, Body: abbreviate(body), Err: err})
		}
		return retry.Done()

	case http.StatusTooManyRequests:
		wait := resetAfter(res.Header)
		c.metrics.HTTPRetry("rate_limited")
		c.log.Warn("rate limited, waiting before retry",
			zap.String("route", route.String()),
			zap.Duration("wait", wait),
			zap.Bool("global", strings.EqualFold(res.Header.Get(headerGlobal), "true")),
			zap.Int("attempt", attempt),
		)
		return retry.After(wait, &APIError{Status: res.StatusCode, Body: abbreviate(body)})

	case http.StatusServiceUnavailable:
		return retry.Fail(&ServiceUnavailableError{Route: route, Status: res.StatusCode, Body: abbreviate(body)})

	default:
		c.metrics.HTTPRetry("status")
		c.log.Warn("unexpected status, trying again",
			zap.String("route", route.String()), zap.Int("status", res.StatusCode), zap.Int("attempt", attempt))
		return retry.Again(&APIError{Status: res.StatusCode, Body: abbreviate(body)})
	}
}

// resetAfter reads the rate limit delay in (fractional) seconds, falling
// back to Retry-After.
func resetAfter(h http.Header) time.Duration {
	for _, key := range []string{headerResetAfter, "Retry-After"} {
		raw := strings.TrimSpace(h.Get(key))
		if raw == "" {
			continue
		}
		if sec, err := strconv.ParseFloat(raw, 64); err == nil && sec > 0 {
			return time.Duration(sec * float64(time.Second))
		}
	}
	return 0
}

func abbreviate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}
