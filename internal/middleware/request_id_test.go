package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRequestIDEchoesValidHeader(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, id)

	rec := httptest.NewRecorder()
	requestIDRouter().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	for _, raw := range []string{"", "not-a-uuid", "x\n1"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if raw != "" {
			req.Header.Set(requestIDHeader, raw)
		}

		rec := httptest.NewRecorder()
		requestIDRouter().ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		assert.NotEqual(t, raw, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	}
}
