package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLimitedEngine := func(maxBytes int64) *gin.Engine {
		engine := gin.New()
		engine.Use(BodyLimit(maxBytes))
		engine.POST("/templates", func(c *gin.Context) {
			c.String(http.StatusOK, "saved")
		})
		return engine
	}

	t.Run("small payloads pass", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/templates", strings.NewReader(`{"name":"A4"}`))
		w := httptest.NewRecorder()
		newLimitedEngine(1024).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared oversize is rejected up front", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/templates", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		newLimitedEngine(100).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("bodyless requests are unaffected", func(t *testing.T) {
		engine := gin.New()
		engine.Use(BodyLimit(10))
		engine.GET("/templates", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/templates", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("chunked bodies hit the reader cap", func(t *testing.T) {
		engine := gin.New()
		engine.Use(BodyLimit(50))
		engine.POST("/templates", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "saved")
		})

		req := httptest.NewRequest(http.MethodPost, "/templates", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
