package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, recordedRequest{method, route, status})
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(obs))
	r.Delete("/api/listings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	r.Get("/api/listings", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodDelete, "/api/listings/41", nil),
		httptest.NewRequest(http.MethodDelete, "/api/listings/42", nil),
		httptest.NewRequest(http.MethodGet, "/api/listings", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, obs.seen, 3)
	assert.Equal(t, recordedRequest{http.MethodDelete, "/api/listings/{id}", http.StatusForbidden}, obs.seen[0])
	assert.Equal(t, obs.seen[0], obs.seen[1])
	assert.Equal(t, recordedRequest{http.MethodGet, "/api/listings", http.StatusOK}, obs.seen[2])
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://buymesho.example"}, false)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/listings", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, "https://buymesho.example", preflight("https://buymesho.example").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("https://evil.example").Header().Get("Access-Control-Allow-Origin"))

	dev := CORSMiddleware(nil, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	dev.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "error", levelFor(503).String())
	assert.Equal(t, "warn", levelFor(404).String())
	assert.Equal(t, "info", levelFor(200).String())
}
