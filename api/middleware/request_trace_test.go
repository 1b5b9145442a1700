package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"review-digest/trace"
)

func TestRequestTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTrace())

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = trace.RunIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-Id", "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
		assert.Equal(t, "req-123", seen)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get("X-Request-Id")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, seen)
	})
}
