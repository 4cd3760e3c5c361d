package clients

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
	"github.com/jsamuelsen/cloudify-context/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/cloudify-context/internal/adapters/clients"

	// HeaderCorrelationID carries the invocation's correlation ID to the manager.
	HeaderCorrelationID = "X-Correlation-ID"

	defaultTimeout = 30 * time.Second

	// jitterRangeMultiplier converts rand [0,1) to [-1,1) for symmetric jitter.
	jitterRangeMultiplier = 2
)

// TLSConfig controls verification of the manager's certificate.
type TLSConfig struct {
	// CACertPath is a PEM bundle used instead of the system roots.
	CACertPath string

	// InsecureSkipVerify disables certificate verification entirely.
	InsecureSkipVerify bool
}

// Config configures a Client.
type Config struct {
	// BaseURL prefixes paths passed to Get, e.g. "https://manager:443/api/v3.1".
	BaseURL string

	// ServiceName identifies the peer in logs, spans and metrics.
	ServiceName string

	// Timeout applies per attempt.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig
	TLS       TLSConfig

	// Headers are added to every request, e.g. the manager credentials.
	Headers http.Header

	Logger *slog.Logger
}

// Client is an HTTP client with retry, optional circuit breaking, tracing
// and metrics. Server errors are retried while attempts remain; the final
// response is always handed back so callers can inspect its status.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	cfg         *Config
	logger      *slog.Logger
	cb          *CircuitBreaker // nil when disabled

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a Client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	var cb *CircuitBreaker
	if cfg.Circuit.Enabled {
		cb = NewCircuitBreaker(CircuitBreakerConfig{
			MaxFailures:   cfg.Circuit.MaxFailures,
			Timeout:       cfg.Circuit.Timeout,
			HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
		})
		cb.OnStateChange(func(from, to State) {
			logger.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		})
	}

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of manager HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of manager HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: buildTransport(cfg.Transport, tlsConfig),
		},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		cfg:             cfg,
		logger:          logger,
		cb:              cb,
		tracer:          otel.Tracer(instrumentationName),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

func buildTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // trust_all is an explicit operator choice
	}

	if cfg.CACertPath == "" {
		return tlsConfig, nil
	}

	pem, err := os.ReadFile(cfg.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
	}
	tlsConfig.RootCAs = pool

	return tlsConfig, nil
}

func buildTransport(cfg config.TransportConfig, tlsConfig *tls.Config) *http.Transport {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	if transport.MaxIdleConns == 0 {
		transport.MaxIdleConns = config.DefaultTransportMaxIdleConns
	}
	if transport.MaxIdleConnsPerHost == 0 {
		transport.MaxIdleConnsPerHost = config.DefaultTransportMaxIdleConnsPerHost
	}
	if transport.IdleConnTimeout == 0 {
		transport.IdleConnTimeout = config.DefaultTransportIdleConnTimeout
	}

	return transport
}

// Do executes req. A non-nil error means no response was obtained; any
// HTTP status, including 5xx after the last attempt, is returned as a
// response.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if c.cb != nil && !c.cb.Allow() {
		c.recordMetrics(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")
		return nil, ErrCircuitOpen
	}

	c.injectHeaders(ctx, req)

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, attempts, err := c.executeWithRetry(ctx, req, logger)
	duration := time.Since(start)

	if err != nil {
		c.recordOutcome(true)
		span.SetStatus(codes.Error, err.Error())
		c.recordMetrics(ctx, req.Method, 0, duration, "error")
		logger.Error("request failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)
		if attempts > 1 {
			return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
		}
		return nil, err
	}

	c.recordOutcome(resp.StatusCode >= http.StatusInternalServerError)

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.Log(ctx, logging.LevelTrace, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Int("attempts", attempts),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// executeWithRetry returns the first usable response, or the last response
// or error once attempts run out. Requests must be body-less or rewindable.
func (c *Client) executeWithRetry(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, int, error) {
	maxAttempts := c.cfg.Retry.MaxAttempts

	for attempt := 1; ; attempt++ {
		resp, err := c.http.Do(req.WithContext(ctx))

		last := attempt >= maxAttempts
		switch {
		case err != nil && (last || !isRetryableError(err)):
			return nil, attempt, err
		case err == nil && (last || resp.StatusCode < http.StatusInternalServerError):
			return resp, attempt, nil
		case err == nil:
			logger.Debug("retrying after server error",
				slog.Int("attempt", attempt),
				slog.Int("status", resp.StatusCode),
			)
			if closeErr := resp.Body.Close(); closeErr != nil {
				logger.Debug("failed to close response body", slog.Any("error", closeErr))
			}
		default:
			logger.Debug("retrying after transport error",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		}

		select {
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		case <-time.After(c.calculateBackoff(attempt)):
		}
	}
}

// Get performs a GET against BaseURL + path. path may carry a query string.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.GetURL(ctx, c.buildURL(path))
}

// GetURL performs a GET against an absolute URL, such as a file server
// resource that lives outside BaseURL.
func (c *Client) GetURL(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CircuitState returns the current state of the circuit breaker. A
// disabled breaker always reports StateClosed.
func (c *Client) CircuitState() State {
	if c.cb == nil {
		return StateClosed
	}
	return c.cb.State()
}

func (c *Client) recordOutcome(failed bool) {
	switch {
	case c.cb == nil:
	case failed:
		c.cb.RecordFailure()
	default:
		c.cb.RecordSuccess()
	}
}

func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	for key, values := range c.cfg.Headers {
		req.Header[key] = append([]string(nil), values...)
	}

	if correlationID := logging.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(HeaderCorrelationID, correlationID)
	}
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// calculateBackoff returns initial * multiplier^(attempt-1), capped at the
// max interval, with symmetric jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	retry := c.cfg.Retry

	backoff := float64(retry.InitialInterval) * math.Pow(retry.Multiplier, float64(attempt-1))
	if backoff > float64(retry.MaxInterval) {
		backoff = float64(retry.MaxInterval)
	}

	jitter := rand.Float64()*jitterRangeMultiplier - 1 //nolint:gosec // No need for crypto-grade randomness
	backoff += backoff * retry.JitterFactor * jitter

	return time.Duration(backoff)
}

func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// isRetryableError reports whether a transport error is worth another
// attempt. Cancellation never is.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
