package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitTestServer(maxBytes int64) *gin.Engine {
	engine := gin.New()
	engine.POST("/upload", BodyLimit(maxBytes), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	return engine
}

func TestBodyLimit(t *testing.T) {
	t.Run("accepts body within limit", func(t *testing.T) {
		engine := newBodyLimitTestServer(64)
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("small body"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects oversized body by content length", func(t *testing.T) {
		engine := newBodyLimitTestServer(16)
		body := bytes.Repeat([]byte("x"), 64)
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(body))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})
}
