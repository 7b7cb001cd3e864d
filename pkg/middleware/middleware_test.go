package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/manzanit0/locations/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceID(t *testing.T) {
	testCases := []struct {
		desc   string
		header string
	}{
		{desc: "when the caller sends a trace id, it is reused", header: "caller-trace-id"},
		{desc: "when the caller sends no trace id, one is generated", header: ""},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var seen string

			r := gin.New()
			r.Use(middleware.TraceID())
			r.GET("/ping", func(c *gin.Context) {
				seen = middleware.TraceIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tC.header != "" {
				req.Header.Set(middleware.HeaderTraceID, tC.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, w.Header().Get(middleware.HeaderTraceID))
			if tC.header != "" {
				assert.Equal(t, tC.header, seen)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	logs := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logs, nil)))
	defer slog.SetDefault(prev)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.Contains(t, logs.String(), "kaboom")
}

func TestLoggerRedactsKey(t *testing.T) {
	logs := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logs, nil)))
	defer slog.SetDefault(prev)

	r := gin.New()
	r.Use(middleware.Logger(false))
	r.GET("/locations", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/locations?q=berlin&key=supersecret&access_key=topsecret&appid=hushhush", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "inbound request")
	assert.Contains(t, logs.String(), "berlin")
	assert.NotContains(t, logs.String(), "supersecret")
	assert.NotContains(t, logs.String(), "topsecret")
	assert.NotContains(t, logs.String(), "hushhush")
}
