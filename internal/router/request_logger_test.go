package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"digit-recall/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoggedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	return r, logs
}

func serve(r *gin.Engine, path string) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
}

func TestRequestLoggerLevelByStatus(t *testing.T) {
	r, logs := newLoggedRouter(t)
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	cases := []struct {
		path  string
		level zapcore.Level
	}{
		{"/ok", zapcore.DebugLevel},
		{"/bad", zapcore.WarnLevel},
		{"/boom", zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		serve(r, tc.path)
		entries := logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("%s: logged %d entries, want 1", tc.path, len(entries))
		}
		if entries[0].Level != tc.level {
			t.Errorf("%s: logged at %v, want %v", tc.path, entries[0].Level, tc.level)
		}
		if entries[0].Message != "GET "+tc.path {
			t.Errorf("%s: message = %q", tc.path, entries[0].Message)
		}
	}
}

func TestRequestLoggerSkipsAssets(t *testing.T) {
	r, logs := newLoggedRouter(t)
	r.GET("/assets/app.js", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, "/assets/app.js")
	if got := len(logs.TakeAll()); got != 0 {
		t.Errorf("asset request produced %d log entries, want 0", got)
	}
}

func TestRequestLoggerCarriesUser(t *testing.T) {
	r, logs := newLoggedRouter(t)
	r.GET("/game/stats", func(c *gin.Context) {
		c.Set("user", &models.User{ID: 7, DisplayName: "Player"})
		c.Status(http.StatusOK)
	})

	serve(r, "/game/stats")
	entries := logs.TakeAll()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if got, ok := entries[0].ContextMap()["userID"]; !ok || got != uint64(7) {
		t.Errorf("userID field = %v (present=%v), want 7", got, ok)
	}
}
