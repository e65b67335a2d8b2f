package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterVersionPrefix(t *testing.T) {
	t.Run("defaults to v1", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("labels", "/labels")
		group.GET("/paper-sizes", func(c *gin.Context) {
			c.String(http.StatusOK, "sizes")
		})

		NewRouter(engine).Register(group).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/labels/paper-sizes").Code)
	})

	t.Run("honors an explicit version", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("labels", "/labels")
		group.GET("/paper-sizes", func(c *gin.Context) {
			c.String(http.StatusOK, "sizes")
		})

		NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/labels/paper-sizes").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/labels/paper-sizes").Code)
	})
}

func TestDomainGroupRoutes(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("labels", "/labels")
	group.POST("/templates", func(c *gin.Context) { c.Status(http.StatusCreated) }).
		GET("/templates", func(c *gin.Context) { c.Status(http.StatusOK) }).
		PUT("/templates/:id", func(c *gin.Context) { c.Status(http.StatusOK) }).
		DELETE("/templates/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	group.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/labels/templates").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/labels/templates").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPut, "/api/v1/labels/templates/t-1").Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/labels/templates/t-1").Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("labels", "/labels")
	group.Use(func(c *gin.Context) {
		c.Header("X-Group-Middleware", "ran")
		c.Next()
	})
	group.GET("/templates", func(c *gin.Context) { c.Status(http.StatusOK) })

	group.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/labels/templates")
	assert.Equal(t, "ran", w.Header().Get("X-Group-Middleware"))
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()

	labels := NewDomainGroup("labels", "/labels")
	labels.GET("/templates", func(c *gin.Context) {
		c.String(http.StatusOK, "templates")
	})

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	NewRouter(engine).Register(labels).Register(system).Setup()

	assert.Equal(t, "templates", serve(engine, http.MethodGet, "/api/v1/labels/templates").Body.String())
	assert.Equal(t, "pong", serve(engine, http.MethodGet, "/api/v1/system/ping").Body.String())
}
