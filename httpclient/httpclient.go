package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"review-digest/config"
	"review-digest/trace"
)

// Config는 HTTP 클라이언트 공통 설정을 캡슐화한다.
type Config struct {
	Timeout time.Duration
	// APIKey 가 있으면 모든 요청에 Bearer 토큰으로 첨부한다.
	APIKey string
}

// loggingRoundTripper는 모든 아웃바운드 HTTP 호출에 대해 공통 로깅과
// X-Run-Id / X-Span-Id 헤더 트레이싱을 수행한다.
type loggingRoundTripper struct {
	inner  http.RoundTripper
	apiKey string
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	runID, spanID := trace.NextSpanID(req.Context())
	req.Header.Set("X-Run-Id", runID)
	req.Header.Set("X-Span-Id", spanID)
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	// 요청 바디 스니펫을 로깅하기 위해 바디를 한 번 읽고 복원한다.
	var bodySnippet string
	if req.Body != nil {
		if bodyBytes, err := io.ReadAll(req.Body); err == nil {
			const maxBodyLog = 512
			if len(bodyBytes) > maxBodyLog {
				bodySnippet = string(bodyBytes[:maxBodyLog])
			} else {
				bodySnippet = string(bodyBytes)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
	}

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	fields := config.Fields{
		"method":   req.Method,
		"url":      req.URL.String(),
		"duration": duration.String(),
		"run_id":   runID,
		"span_id":  spanID,
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}
	if err != nil {
		fields["error"] = err.Error()
		config.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	config.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// BaseClient는 공통 HTTP 클라이언트와 baseURL을 묶어두고,
// URL 생성 및 요청 생성을 도와준다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewBaseClient는 주어진 설정의 http.Client(logging 포함)를 사용해 BaseClient를 생성한다.
func NewBaseClient(baseURL string, cfg Config) *BaseClient {
	return &BaseClient{
		HTTPClient: New(cfg),
		BaseURL:    baseURL,
	}
}

// NewRequest는 baseURL과 상대 경로, 바디를 사용해 새로운 HTTP 요청을 생성한다.
// relPath에 쿼리(?)가 포함된 경우 path.Join이 쿼리를 손상시키므로 에러를 반환한다.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string: %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

// Do는 내부 HTTP 클라이언트를 사용해 요청을 실행한다.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New는 주어진 설정으로 http.Client를 생성한다.
// Timeout이 0이면 기본값 10초를 사용한다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport, apiKey: cfg.APIKey},
	}
}
