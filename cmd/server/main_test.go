package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taxmate-go/config"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	loggingMiddleware(zap.New(core), next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	entries := logs.FilterMessage("Request handled").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "POST", fields["method"])
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	}
}

func TestNewLoggerLevel(t *testing.T) {
	assert.True(t, newLogger("debug").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, newLogger("warn").Core().Enabled(zapcore.InfoLevel))
	assert.False(t, newLogger("bogus").Core().Enabled(zapcore.DebugLevel))
}

func TestNewServer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := &config.Config{
		Port:          "9090",
		CohereKey:     "key",
		CohereURL:     "http://127.0.0.1:0",
		CohereModel:   "command-r-plus",
		SessionSecret: "0123456789abcdef-secret",
	}

	server := newServer(cfg, zap.New(core))
	assert.Equal(t, ":9090", server.Addr)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="csrf_token"`)

	// 请求日志写入注入的logger
	assert.Equal(t, 2, logs.FilterMessage("Request handled").Len())
}
