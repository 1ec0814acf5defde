package suggest

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

	"modelforge/internal/logger"
)

type Options struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient posts {"prompt", "schema"} and expects the JSON answer either
// bare or under "result".
type HTTPClient struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

func New(log *logger.Logger, opts Options) (*HTTPClient, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("suggest: endpoint required")
	}
	if log == nil {
		log = logger.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPClient{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		httpClient: hc,
		log:        log.With("client", "suggest"),
	}, nil
}

type request struct {
	Prompt string         `json:"prompt"`
	Schema map[string]any `json:"schema"`
}

// HTTPError is a non-2xx answer.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("suggest endpoint returned %d: %s", e.StatusCode, e.Body)
}

func (c *HTTPClient) Suggest(ctx context.Context, prompt string, shape Shape) (Suggestions, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: empty prompt", ErrUnavailable)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request{Prompt: prompt, Schema: shape.Schema()}); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("suggest request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		c.log.Warn("suggest request rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, herr)
	}

	out, err := decode(raw, shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	c.log.Debug("suggest ok", "fields", len(out), "took", time.Since(start))
	return out, nil
}

// decode reads the answer and keeps only the shape's fields. A missing field
// is an empty list; a field of the wrong type fails the whole answer.
func decode(raw []byte, shape Shape) (Suggestions, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}
	if inner, ok := top["result"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil {
			top = nested
		} else {
			// some endpoints return the object as a JSON string
			var text string
			if json.Unmarshal(inner, &text) == nil && json.Unmarshal([]byte(text), &nested) == nil {
				top = nested
			}
		}
	}

	out := make(Suggestions, len(shape.Fields))
	for _, f := range shape.Fields {
		v, ok := top[f]
		if !ok || string(v) == "null" {
			out[f] = []string{}
			continue
		}
		var items []string
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		out[f] = items
	}
	return out, nil
}
