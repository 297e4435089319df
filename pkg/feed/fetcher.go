package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// DefaultTimeout for a single publisher request
const DefaultTimeout = 10 * time.Second

// maxBodySize limits response size read from publishers
const maxBodySize = 16 * 1024 * 1024

// ErrTooLarge returned for responses exceeding maxBodySize after decompression
var ErrTooLarge = errors.New("response too large")

// Request describes a single GET request to publisher
type Request struct {
	URL     string
	Headers map[string]string
	Query   url.Values
}

// Response is a fully read publisher response
type Response struct {
	Body []byte
}

// HTTPFetcher performs publisher requests with browser-like headers
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with given per-request timeout, zero means DefaultTimeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch performs GET and returns decompressed body
func (f *HTTPFetcher) Fetch(ctx context.Context, r Request) (Response, error) {
	target := r.URL
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	applyHeaders(req, r.Headers)

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("fetch %s: unexpected status code %d", target, resp.StatusCode)
	}

	body, err := decompress(resp)
	if err != nil {
		return Response{}, fmt.Errorf("decompress %s: %w", target, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize+1))
	if err != nil {
		return Response{}, fmt.Errorf("read %s: %w", target, err)
	}
	if len(data) > maxBodySize {
		return Response{}, fmt.Errorf("read %s: %w, limit %d bytes", target, ErrTooLarge, maxBodySize)
	}
	return Response{Body: data}, nil
}

// decompress wraps body according to Content-Encoding, transport won't do it as Accept-Encoding is set explicitly
func decompress(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return zlib.NewReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}
