package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tarot-service/pkg/logging"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDAttached(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	CorrelationID(inner).ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Correlation-ID"))
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/anything", nil)
	rec := httptest.NewRecorder()
	RequestLogger(logger)(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
