package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, contentType string, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFetcher_PreviewImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		status      int
		body        string
		path        string
		want        string
		wantOK      bool
	}{
		{
			name:        "absolute og image",
			contentType: "text/html; charset=utf-8",
			status:      http.StatusOK,
			body:        `<html><head><meta property="og:image" content="https://cdn.example.com/a.png"></head></html>`,
			want:        "https://cdn.example.com/a.png",
			wantOK:      true,
		},
		{
			name:        "relative image resolved against page",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        `<html><head><meta property="og:image" content="/img/a.png"/></head></html>`,
			path:        "/articles/1",
			want:        "{base}/img/a.png",
			wantOK:      true,
		},
		{
			name:        "og image preferred over twitter image",
			contentType: "text/html",
			status:      http.StatusOK,
			body: `<head>
				<meta name="twitter:image" content="https://example.com/t.png">
				<meta property="og:image" content="https://example.com/og.png">
			</head>`,
			want:   "https://example.com/og.png",
			wantOK: true,
		},
		{
			name:        "twitter image fallback",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        `<head><meta name="twitter:image" content="https://example.com/t.png"></head>`,
			want:        "https://example.com/t.png",
			wantOK:      true,
		},
		{
			name:        "no meta tag",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        `<html><head><title>x</title></head><body></body></html>`,
		},
		{
			name:        "non html response",
			contentType: "application/json",
			status:      http.StatusOK,
			body:        `{"og:image":"https://example.com/og.png"}`,
		},
		{
			name:        "error status",
			contentType: "text/html",
			status:      http.StatusNotFound,
			body:        `<head><meta property="og:image" content="https://example.com/og.png"></head>`,
		},
		{
			name:        "non http image scheme",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        `<head><meta property="og:image" content="javascript:alert(1)"></head>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.contentType, tt.status, tt.body)
			f := New(Config{}, nil)

			img, ok := f.PreviewImage(context.Background(), srv.URL+tt.path)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, strings.ReplaceAll(tt.want, "{base}", srv.URL), img)
		})
	}
}

func TestFetcher_PreviewImage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	f := New(Config{Timeout: 50 * time.Millisecond}, nil)

	img, ok := f.PreviewImage(context.Background(), srv.URL)

	assert.False(t, ok)
	assert.Empty(t, img)
}

func TestFetcher_PreviewImage_BodyLimit(t *testing.T) {
	body := "<html><head>" + strings.Repeat("<!-- padding -->", 100) +
		`<meta property="og:image" content="https://example.com/og.png"></head></html>`
	srv := serve(t, "text/html", http.StatusOK, body)

	f := New(Config{MaxBodyBytes: 64}, nil)

	_, ok := f.PreviewImage(context.Background(), srv.URL)

	assert.False(t, ok)
}

func TestFetcher_PreviewImage_Unreachable(t *testing.T) {
	f := New(Config{Timeout: time.Second}, nil)

	_, ok := f.PreviewImage(context.Background(), "http://127.0.0.1:1/")

	assert.False(t, ok)
}

func TestNoop(t *testing.T) {
	img, ok := Noop{}.PreviewImage(context.Background(), "https://example.com")

	assert.False(t, ok)
	assert.Empty(t, img)
}
