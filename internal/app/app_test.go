package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/link-shortener/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:     config.EnvDev,
		BaseURL: "https://sho.rt",
		AppURL:  "https://app.example.com",
		Storage: config.StorageMemory,
		HTTPServer: config.HTTPServer{
			APIRoot: "/api",
		},
		Alias: config.Alias{Length: 8, MaxAttempts: 5},
		Auth:  config.Auth{CookieName: "session"},
		RateLimit: config.RateLimit{
			Window:     0,
			CreateMax:  2,
			DefaultMax: 100,
		},
	}
}

func TestNewHandler_MemoryStorage(t *testing.T) {
	logger := httplog.NewLogger("", httplog.Options{Writer: io.Discard})

	handler, cleanup, err := newHandler(context.Background(), memoryConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	e := httpexpect.Default(t, server.URL)

	e.GET("/api/ping").Expect().Status(http.StatusOK)

	shortened := e.POST("/api/urls").
		WithJSON(map[string]string{"url": "https://example.com", "fingerprint": "fp"}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object().
		Value("data").Object().
		Value("attributes").Object().
		Value("shortenedUrl").String()

	shortened.HasPrefix("https://sho.rt/")
	shortened.Length().IsEqual(len("https://sho.rt/") + 8)

	e.POST("/api/urls").
		WithJSON(map[string]string{"url": "https://example.com", "fingerprint": "fp"}).
		Expect().
		Status(http.StatusCreated)

	e.POST("/api/urls").
		WithJSON(map[string]string{"url": "https://example.com", "fingerprint": "fp"}).
		Expect().
		Status(http.StatusTooManyRequests)

	e.GET("/api/urls").
		WithQuery("fingerprint", "fp").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("data").Array().Length().IsEqual(2)
}

func TestNewLogger(t *testing.T) {
	cfg := memoryConfig()
	cfg.Log = config.Log{Level: "debug"}

	logger := newLogger(cfg)

	require.NotNil(t, logger)
	require.True(t, logger.Logger.Enabled(context.Background(), slog.LevelDebug))
}
