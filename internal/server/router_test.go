package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lynra/internal/commons"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubModule struct {
	seenTraceID string
}

func (m *stubModule) Routes(r chi.Router) {
	r.Post("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		m.seenTraceID = commons.TraceID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/api/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}

func TestRouter_Health(t *testing.T) {
	h := NewRouter(zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestRouter_TraceIDAndHeaders(t *testing.T) {
	mod := &stubModule{}
	h := NewRouter(zap.NewNop(), mod)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/echo", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	id := rec.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, mod.seenTraceID)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_RecoversPanics(t *testing.T) {
	h := NewRouter(zap.NewNop(), &stubModule{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_LogsRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewRouter(zap.New(core), &stubModule{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/echo", nil))

	entries := logs.FilterMessage("request handled").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/echo", fields["path"])
	assert.Equal(t, int64(http.StatusAccepted), fields["status"])
	assert.Equal(t, rec.Header().Get(HeaderRequestID), fields["traceId"])
}
