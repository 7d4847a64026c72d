// Package webhook delivers approved projects to the external site generator
// (an n8n flow) and interprets its response.
package webhook

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
)

// Dispatch errors. Timeouts are distinguished so callers can notify
// differently.
var (
	ErrNotConfigured = errors.New("webhook: no URL configured")
	ErrTimeout       = errors.New("webhook: request timed out")
)

// Payload is the document sent to the site generator.
type Payload struct {
	ProjectID   string          `json:"projectId"`
	SiteName    string          `json:"siteName"`
	HTMLContent string          `json:"htmlContent"`
	Copy        string          `json:"copy,omitempty"`
	Briefing    json.RawMessage `json:"briefing,omitempty"`
	CallbackURL string          `json:"callbackUrl,omitempty"`
}

// Result is the generator's parsed response. Both URLs are optional; the
// generator may publish asynchronously and call back later.
type Result struct {
	PreviewURL string `json:"previewUrl"`
	PublishURL string `json:"publishUrl"`
}

// Dispatcher posts payloads to a configured endpoint with a shared secret.
type Dispatcher struct {
	url        string
	secret     string
	httpClient *http.Client

	// Resolve, when set, is consulted on every dispatch and may return a
	// destination URL that overrides the static one. An empty return falls
	// back to the static URL. Admin-managed settings plug in here.
	Resolve func(ctx context.Context) string
}

// NewDispatcher builds a Dispatcher. url may be empty; Dispatch then returns
// ErrNotConfigured so callers can surface a configuration problem instead of
// silently dropping work.
func NewDispatcher(url, secret string, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		url:        strings.TrimSpace(url),
		secret:     strings.TrimSpace(secret),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a destination URL can be determined.
func (d *Dispatcher) Configured() bool { return d.url != "" || d.Resolve != nil }

// target picks the destination URL for one dispatch.
func (d *Dispatcher) target(ctx context.Context) string {
	if d.Resolve != nil {
		if u := strings.TrimSpace(d.Resolve(ctx)); u != "" {
			return u
		}
	}
	return d.url
}

// Dispatch sends the payload and decodes the response. Non-2xx statuses and
// transport failures are errors; the caller decides what happens to the
// project.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) (*Result, error) {
	url := d.target(ctx)
	if url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set("Authorization", "Bearer "+d.secret)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("webhook: generator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil && err != io.EOF {
		return nil, fmt.Errorf("webhook: decode response: %w", err)
	}
	return &res, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
