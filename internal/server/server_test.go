package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/llm"
)

type stubProvider struct {
	reply string
	err   error
	block bool
	last  string
}

func (s *stubProvider) Name() string                   { return "stub" }
func (s *stubProvider) Ping(ctx context.Context) error { return nil }
func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.last = req.Messages[0].Content
	if s.block {
		<-ctx.Done()
		return nil, fmt.Errorf("stub: %w", ctx.Err())
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.reply}, nil
}

const token = "test-token"

func newTestServer(t *testing.T, p *stubProvider, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.PromptsDir = t.TempDir()
	cfg.Server.AuthToken = token
	cfg.Server.RateLimit = 1000
	cfg.Server.Burst = 1000
	if mutate != nil {
		mutate(cfg)
	}

	a, err := app.NewWithProvider(cfg, p)
	if err != nil {
		t.Fatalf("NewWithProvider() error = %v", err)
	}

	srv := httptest.NewServer(NewRouter(a))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestAPIRequiresToken(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)

	resp, err := http.Get(srv.URL + "/api/prompts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestPrompts(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)

	resp := do(t, http.MethodGet, srv.URL+"/api/prompts", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Prompts []struct {
			Index int    `json:"index"`
			Text  string `json:"text"`
		} `json:"prompts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Prompts) != 15 {
		t.Fatalf("got %d prompts, want 15", len(body.Prompts))
	}
	if body.Prompts[0].Index != 1 || body.Prompts[0].Text != "Summarize employee morale trends." {
		t.Errorf("first prompt = %+v", body.Prompts[0])
	}
}

func TestGenerateCSV(t *testing.T) {
	p := &stubProvider{reply: "1. Type: Email, Content: \"Need help, please.\"\n2. Type: Chat, Content:\n"}
	srv := newTestServer(t, p, nil)

	resp := do(t, http.MethodPost, srv.URL+"/api/generate", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := resp.Header.Get("X-Skipped-Lines"); got != "1" {
		t.Errorf("X-Skipped-Lines = %q, want 1", got)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "employee_data.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	want := "Type,Content\nEmail,\"\"\"Need help, please.\"\"\"\n"
	if buf.String() != want {
		t.Errorf("body = %q, want %q", buf.String(), want)
	}
}

func TestGenerateJSON(t *testing.T) {
	p := &stubProvider{reply: "Type: Chat, Content: a\nType: Chat, Content: b\nType: Email, Content: c\n"}
	srv := newTestServer(t, p, nil)

	resp := do(t, http.MethodPost, srv.URL+"/api/generate?format=json", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Records    []map[string]string `json:"records"`
		TypeCounts []struct {
			Type  string `json:"type"`
			Count int    `json:"count"`
		} `json:"type_counts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Records) != 3 || body.Records[2]["content"] != "c" {
		t.Errorf("records = %v", body.Records)
	}
	if len(body.TypeCounts) != 2 || body.TypeCounts[0].Type != "Chat" || body.TypeCounts[0].Count != 2 {
		t.Errorf("type_counts = %+v", body.TypeCounts)
	}
}

func TestAnalyzeJSON(t *testing.T) {
	p := &stubProvider{reply: "Morale is mixed."}
	srv := newTestServer(t, p, nil)

	body, _ := json.Marshal(map[string]any{
		"contents":     []string{"good job", "feeling stressed"},
		"prompt_index": 1,
	})
	resp := do(t, http.MethodPost, srv.URL+"/api/analyze", "application/json", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Result string `json:"result"`
		Rows   int    `json:"rows"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if out.Result != "Morale is mixed." || out.Rows != 2 {
		t.Errorf("response = %+v", out)
	}
	if p.last != "Summarize employee morale trends.\n\ngood job\n\nfeeling stressed" {
		t.Errorf("prompt sent = %q", p.last)
	}
}

func multipartBody(t *testing.T, csv string, fields map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "feedback.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(csv))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return buf.Bytes(), mw.FormDataContentType()
}

func TestAnalyzeMultipart(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	srv := newTestServer(t, p, nil)

	body, ct := multipartBody(t, "Type,Content\nEmail,first\nChat,second\n", map[string]string{
		"prompt": "Count the entries.",
	})
	resp := do(t, http.MethodPost, srv.URL+"/api/analyze", ct, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if p.last != "Count the entries.\n\nfirst\n\nsecond" {
		t.Errorf("prompt sent = %q", p.last)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		mutate   func(*config.Config)
		body     func(t *testing.T) ([]byte, string)
		want     int
	}{
		{
			name:     "missing content column",
			provider: &stubProvider{},
			body: func(t *testing.T) ([]byte, string) {
				return multipartBody(t, "Type,Body\nEmail,x\n", map[string]string{"prompt_index": "1"})
			},
			want: http.StatusBadRequest,
		},
		{
			name:     "no prompt chosen",
			provider: &stubProvider{},
			body: func(t *testing.T) ([]byte, string) {
				return []byte(`{"contents":["a"]}`), "application/json"
			},
			want: http.StatusBadRequest,
		},
		{
			name:     "empty contents",
			provider: &stubProvider{},
			body: func(t *testing.T) ([]byte, string) {
				return []byte(`{"contents":[],"prompt":"Summarize."}`), "application/json"
			},
			want: http.StatusBadRequest,
		},
		{
			name:     "too many rows",
			provider: &stubProvider{},
			mutate:   func(c *config.Config) { c.Analysis.MaxRows = 1 },
			body: func(t *testing.T) ([]byte, string) {
				return []byte(`{"contents":["a","b"],"prompt":"Summarize."}`), "application/json"
			},
			want: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "service unavailable",
			provider: &stubProvider{err: errors.New("boom")},
			body: func(t *testing.T) ([]byte, string) {
				return []byte(`{"contents":["a"],"prompt":"Summarize."}`), "application/json"
			},
			want: http.StatusBadGateway,
		},
		{
			name:     "timeout",
			provider: &stubProvider{block: true},
			mutate:   func(c *config.Config) { c.Timeout = 10 * time.Millisecond },
			body: func(t *testing.T) ([]byte, string) {
				return []byte(`{"contents":["a"],"prompt":"Summarize."}`), "application/json"
			},
			want: http.StatusGatewayTimeout,
		},
		{
			name:     "unsupported media type",
			provider: &stubProvider{},
			body: func(t *testing.T) ([]byte, string) {
				return []byte("a,b"), "text/csv"
			},
			want: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.provider, tt.mutate)
			body, ct := tt.body(t)

			resp := do(t, http.MethodPost, srv.URL+"/api/analyze", ct, body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	srv := newTestServer(t, &stubProvider{block: true}, func(c *config.Config) {
		c.Timeout = 10 * time.Millisecond
	})

	resp := do(t, http.MethodPost, srv.URL+"/api/generate", "", nil)
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", resp.StatusCode)
	}
}

func TestRateLimitOnModelEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubProvider{reply: "ok"}, func(c *config.Config) {
		c.Server.RateLimit = 0.001
		c.Server.Burst = 1
	})

	body := []byte(`{"contents":["a"],"prompt":"Summarize."}`)
	first := do(t, http.MethodPost, srv.URL+"/api/analyze", "application/json", body)
	second := do(t, http.MethodPost, srv.URL+"/api/analyze", "application/json", body)

	if first.StatusCode != http.StatusOK {
		t.Errorf("first status = %d", first.StatusCode)
	}
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", second.StatusCode)
	}

	// prompts listing is not limited
	if resp := do(t, http.MethodGet, srv.URL+"/api/prompts", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("prompts status = %d", resp.StatusCode)
	}
}
