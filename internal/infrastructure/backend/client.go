package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// RequestObserver is told about every completed backend round trip.
type RequestObserver interface {
	BackendRequest(resource, method string, status int, elapsed time.Duration)
}

// Config captures how to reach the UKM REST backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS throttles outbound calls; zero disables throttling.
	RPS      float64
	Burst    int
	Client   *http.Client
	Observer RequestObserver
}

// Client talks to the UKM REST backend. It implements ports.Backend.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	observer RequestObserver
	log      zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:  base,
		http:     hc,
		observer: cfg.Observer,
		log:      log.With().Str("component", "backend").Logger(),
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RPS) + 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return c, nil
}

// do performs one JSON round trip and returns the raw response body.
// Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, cred domain.Credential, in any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, errors.Join(domain.ErrBackendUnavailable, err))
		}
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cred.Empty() {
		req.Header.Set("Authorization", cred.Header())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, method, 0, start)
		return nil, fmt.Errorf("%s %s: %w", method, path, errors.Join(domain.ErrBackendUnavailable, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(path, method, resp.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, errors.Join(domain.ErrBackendUnavailable, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(raw), Method: method, Path: path}
		c.log.Debug().Int("status", resp.StatusCode).Str("resource", resourceOf(path)).Str("method", method).Msg("backend rejected request")
		return nil, apiErr
	}
	return raw, nil
}

func (c *Client) observe(path, method string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.BackendRequest(resourceOf(path), method, status, time.Since(start))
}

// resourceOf reduces a path to its first segment so metrics stay low-cardinality.
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

// Ping checks that the backend answers. Any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/kategori", "", nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return nil
	}
	return err
}
