package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/geofarm/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceID(t *testing.T) {
	testCases := []struct {
		desc     string
		incoming string
	}{
		{desc: "a new id is generated"},
		{desc: "an incoming id is kept", incoming: "caller-trace"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var seen string

			r := gin.New()
			r.Use(middleware.TraceID())
			r.GET("/", func(c *gin.Context) {
				seen, _ = c.Request.Context().Value(middleware.CtxKeyTraceID).(string)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tC.incoming != "" {
				req.Header.Set(middleware.HeaderTraceID, tC.incoming)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, w.Header().Get(middleware.HeaderTraceID))
			if tC.incoming != "" {
				assert.Equal(t, tC.incoming, seen)
			}
		})
	}
}

func TestLogger_RedactsKeys(t *testing.T) {
	var logs bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&logs, nil))

	r := gin.New()
	r.Use(middleware.Logger(l, false))
	r.GET("/v1/geocode", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/geocode?q=Paris&key=secret", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "inbound request")
	assert.Contains(t, logs.String(), "Paris")
	assert.NotContains(t, logs.String(), "secret")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
