// Package storage handles remote image retrieval and artifact persistence.
package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "go-visual-auditor/internal/errors"
)

// ImageFetcher retrieves raw image bytes from a URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// HTTPImageFetcher implements ImageFetcher with connection pooling tuned
// for single-asset downloads and retry on transient failures.
type HTTPImageFetcher struct {
	client  *http.Client
	maxSize int64
}

// NewHTTPImageFetcher creates an HTTP image fetcher. Downloads larger
// than maxSize bytes are rejected; pass 0 for the 20 MiB default.
func NewHTTPImageFetcher(timeout time.Duration, maxSize int64) *HTTPImageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxSize <= 0 {
		maxSize = 20 << 20
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxSize: maxSize,
	}
}

// FetchImage downloads the URL with up to 3 attempts. Client errors are
// not retried; server errors and transport failures are.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("invalid image URL", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Visual-Auditor/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewTimeoutError("image fetch cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, retryable, err := h.readResponse(resp)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, apperrors.NewNetworkError("failed to fetch image after 3 attempts", lastErr)
}

func (h *HTTPImageFetcher) readResponse(resp *http.Response) (data []byte, retryable bool, err error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "application/octet-stream") {
		return nil, false, fmt.Errorf("unexpected content type %q", ct)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, h.maxSize+1))
	if err != nil {
		return nil, true, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(data)) > h.maxSize {
		return nil, false, fmt.Errorf("image exceeds %d byte limit", h.maxSize)
	}
	if len(data) == 0 {
		return nil, true, fmt.Errorf("empty response body")
	}
	return data, false, nil
}
