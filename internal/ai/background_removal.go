package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway failure classes. Callers map these onto the HTTP error taxonomy
// with errors.Is.
var (
	ErrGatewayTimeout     = errors.New("gateway timed out")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// BackgroundRemover strips the background from a garment photo and returns
// an alpha-masked PNG.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, image []byte, contentType string) ([]byte, error)
}

// InferenceRemover calls a hosted segmentation model over HTTP. One attempt
// per request; failures surface immediately to the pipeline.
type InferenceRemover struct {
	url    string
	apiKey string
	client *http.Client
}

func NewInferenceRemover(url, apiKey string, timeout time.Duration) *InferenceRemover {
	return &InferenceRemover{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *InferenceRemover) RemoveBackground(ctx context.Context, image []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	if contentType != "" {
		req.Header.Set("Accept", "image/png")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayUnavailable, resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
