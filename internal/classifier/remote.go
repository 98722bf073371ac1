package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/sethvargo/go-retry"
)

const (
	defaultRemoteTimeout = 10 * time.Second
	defaultMaxRetries    = 2
	defaultBaseBackoff   = 200 * time.Millisecond
)

type remoteRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type remoteResponse struct {
	Priority string `json:"priority"`
	Summary  string `json:"summary"`
}

// Remote delegates classification to an HTTP model service. Network errors
// and 5xx responses are retried with exponential backoff; anything that still
// fails is reported as ErrUnavailable.
type Remote struct {
	url        string
	apiKey     string
	client     *http.Client
	maxRetries uint64
	backoff    time.Duration
}

type RemoteOption func(*Remote)

func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) { r.client = c }
}

func WithRetries(maxRetries uint64, base time.Duration) RemoteOption {
	return func(r *Remote) {
		r.maxRetries = maxRetries
		r.backoff = base
	}
}

func NewRemote(url, apiKey string, timeout time.Duration, opts ...RemoteOption) *Remote {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	r := &Remote{
		url:        url,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: timeout},
		maxRetries: defaultMaxRetries,
		backoff:    defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Remote) Classify(ctx context.Context, contentType models.ContentType, content string) (Result, error) {
	body, err := json.Marshal(remoteRequest{Content: content, ContentType: string(contentType)})
	if err != nil {
		return Result{}, fmt.Errorf("encode classify request: %w", err)
	}

	var out remoteResponse
	b := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		return r.call(ctx, body, &out)
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	priority, err := models.ParsePriority(out.Priority)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if out.Summary == "" {
		return Result{}, fmt.Errorf("%w: empty summary", ErrUnavailable)
	}
	return Result{Priority: priority, Summary: out.Summary}, nil
}

func (r *Remote) call(ctx context.Context, body []byte, out *remoteResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return retry.RetryableError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return retry.RetryableError(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("classifier returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
