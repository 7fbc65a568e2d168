package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"

	"misinfoguard/internal/models"
)

const (
	TraceHeader   = "X-Trace-ID"
	RequestHeader = "X-Request-ID"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http status %d", e.Path, e.Code)
}

func (e *StatusError) StatusCode() int { return e.Code }

type HTTPClient struct {
	client    *http.Client
	baseURL   string
	sizeCap   int64
	userAgent string
}

// NewHTTPClient builds a client for the analysis API rooted at baseURL.
// There is no overall request timeout; callers bound requests through ctx.
func NewHTTPClient(baseURL string, dialTimeout time.Duration, sizeCap int64) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client:    &http.Client{Transport: transport},
		baseURL:   strings.TrimRight(baseURL, "/"),
		sizeCap:   sizeCap,
		userAgent: "misinfoguard-client/1.0",
	}
}

func (h *HTTPClient) BaseURL() string { return h.baseURL }

// Analyze posts {"topic": topic} to /analyze. The topic is sent as given.
func (h *HTTPClient) Analyze(ctx context.Context, topic string) (*models.AnalysisResponse, models.ScanMetadata, error) {
	reqID := uuid.NewString()
	meta := models.ScanMetadata{RequestID: reqID}

	payload, err := json.Marshal(models.AnalysisRequest{Topic: topic})
	if err != nil {
		return nil, meta, err
	}
	body, hdr, err := h.do(ctx, http.MethodPost, "/analyze", payload, reqID)
	if err != nil {
		return nil, meta, err
	}
	defer body.Close()

	var out models.AnalysisResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, meta, fmt.Errorf("decode analysis response: %w", err)
	}
	meta.Cached = out.Cached
	meta.ProcessingTime = out.ProcessingTime
	meta.TraceID = strings.TrimSpace(hdr.Get(TraceHeader))
	return &out, meta, nil
}

func (h *HTTPClient) Health(ctx context.Context) (models.Health, error) {
	var out models.Health
	err := h.getJSON(ctx, "/health", &out)
	return out, err
}

func (h *HTTPClient) Metrics(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	err := h.getJSON(ctx, "/metrics", &out)
	return out, err
}

func (h *HTTPClient) MemoryStats(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	err := h.getJSON(ctx, "/memory/stats", &out)
	return out, err
}

func (h *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	body, _, err := h.do(ctx, http.MethodGet, path, nil, uuid.NewString())
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (h *HTTPClient) do(ctx context.Context, method, path string, payload []byte, reqID string) (io.ReadCloser, http.Header, error) {
	u, err := url.Parse(h.baseURL + path)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, nil, fmt.Errorf("invalid api url %q", h.baseURL)
	}
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set(RequestHeader, reqID)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, resp.Header, &StatusError{Code: resp.StatusCode, Path: path}
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, nil, err
		}
		body = gz
	}

	// enforce a size cap
	var r io.Reader = io.LimitReader(body, h.sizeCap)
	r, err = decodeCharset(r, resp.Header.Get("Content-Type"))
	if err != nil {
		body.Close()
		resp.Body.Close()
		return nil, nil, err
	}
	return readCloser{Reader: r, closers: []io.Closer{body, resp.Body}}, resp.Header, nil
}

// decodeCharset converts to UTF-8 only when the server names a non-UTF-8
// charset; JSON without a charset parameter is UTF-8 already.
func decodeCharset(r io.Reader, contentType string) (io.Reader, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return r, nil
	}
	cs := strings.TrimSpace(params["charset"])
	if cs == "" || strings.EqualFold(cs, "utf-8") || strings.EqualFold(cs, "utf8") {
		return r, nil
	}
	enc, name := charset.Lookup(cs)
	if enc == nil {
		return nil, fmt.Errorf("unsupported response charset %q", cs)
	}
	if name == "utf-8" {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
