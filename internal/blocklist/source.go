package blocklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source yields the raw forbidden entries of a blocklist.
type Source interface {
	Load(ctx context.Context) ([]string, error)
	String() string
}

// NewSource picks an HTTP source for http(s) URLs and a file source otherwise.
func NewSource(spec string, timeout time.Duration) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("empty blocklist source")
	}
	lower := strings.ToLower(spec)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(spec, timeout), nil
	}
	return FileSource{Path: spec}, nil
}

type FileSource struct {
	Path string
}

func (f FileSource) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read blocklist: %w", err)
	}
	return ParseList(b), nil
}

func (f FileSource) String() string { return "file:" + f.Path }

type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	c := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("stopped after 5 redirects")
			}
			return nil
		},
	}
	return &HTTPSource{url: url, client: c}
}

func (h *HTTPSource) Load(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch blocklist: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read blocklist body: %w", err)
		}
		return ParseList(b), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("blocklist not found (%s): %w", h.url, &StatusError{Code: http.StatusNotFound})
	default:
		return nil, fmt.Errorf("bad status from %s: %w", h.url, &StatusError{Code: resp.StatusCode})
	}
}

func (h *HTTPSource) String() string { return h.url }

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d", e.Code)
}
