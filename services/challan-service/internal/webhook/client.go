package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/vasapolrittideah/challan-api/shared/utilities"
)

// maxResponseBytes caps how much of an upstream reply is kept.
const maxResponseBytes = 1 << 20

// ErrUnavailable means the webhook could not be reached.
var ErrUnavailable = errors.New("webhook unavailable")

// Response is what the webhook answered.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports whether the webhook answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	MaxRetries uint64
	Backoff    time.Duration
}

// Client posts JSON payloads to automation webhooks.
type Client struct {
	httpClient *http.Client
	opts       Options
	logger     *zerolog.Logger
}

// NewClient creates a Client whose every attempt is bounded by opts.Timeout.
func NewClient(opts Options, logger *zerolog.Logger) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = opts.Timeout

	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}

	return &Client{
		httpClient: httpClient,
		opts:       opts,
		logger:     logger,
	}
}

// PostJSON sends payload to url. Network errors and 5xx answers are retried up to
// MaxRetries times with exponential backoff. When retries are exhausted on a 5xx the
// last response is returned without an error; network failures return ErrUnavailable.
// A retried POST may be delivered twice, so receivers must tolerate duplicates.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode webhook payload: %w", err)
	}

	backoff := retry.WithMaxRetries(c.opts.MaxRetries, retry.NewExponential(c.opts.Backoff))

	var (
		last    *Response
		attempt int
	)
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		resp, err := c.post(ctx, url, body)
		if err != nil {
			last = nil
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("webhook request failed")
			return retry.RetryableError(err)
		}

		last = resp
		if resp.StatusCode >= 500 {
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Str("url", url).Msg("webhook answered with server error")
			return retry.RetryableError(fmt.Errorf("webhook status %d", resp.StatusCode))
		}

		return nil
	})
	if err != nil {
		if last != nil && last.StatusCode >= 500 {
			return last, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return last, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	utilities.ApplyForwardedHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(respBody)}, nil
}
