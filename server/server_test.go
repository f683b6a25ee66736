package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/component"
	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/server/middleware"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.NewDefault("test"))
	gin.SetMode(gin.TestMode)
	return s
}

func TestDefaultsServeThroughMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.ApplyDefaults("speakeralign", func(context.Context) []component.Health {
		return []component.Health{{Name: "transcription/whisper", Status: component.StatusUnhealthy}}
	})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected request id header from middleware chain")
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"malformed", errors.MalformedInput("diarization[1]", "overlaps previous turn"), http.StatusUnprocessableEntity},
		{"wrapped provider error", fmt.Errorf("whisper: %w", errors.ExternalServiceError("whisper", fmt.Errorf("boom"))), http.StatusBadGateway},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.GinEngine().GET("/fail", func(c *gin.Context) { RespondWithError(c, tt.err) })

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))
			if rr.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rr.Code)
			}
		})
	}
}

func TestComponentLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("speakeralign", nil)
	c := NewComponent(s)

	if c.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before start")
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Health(context.Background()).Status != component.StatusHealthy {
		t.Error("expected healthy after start")
	}

	resp, err := http.Get("http://" + s.Addr() + "/info")
	if err != nil {
		t.Fatalf("GET /info: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestRoutesListsAPIFirst(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("speakeralign", nil)
	s.GinEngine().POST("/v1/jobs", func(c *gin.Context) {})

	routes := NewComponent(s).Routes()
	if len(routes) != 5 {
		t.Fatalf("expected 5 routes, got %d", len(routes))
	}
	if routes[0].Path != "/v1/jobs" {
		t.Errorf("expected API route first, got %s", routes[0].Path)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/speakeralign/api.(*Handler).Attribute-fm":          "Handler.Attribute",
		"github.com/kbukum/speakeralign/server/endpoint.Health.func1":         "health",
		"github.com/kbukum/speakeralign/server.TestRoutesListsAPIFirst.func1": "testrouteslistsapifirst",
	}
	for in, want := range tests {
		if got := formatHandlerName(in); got != want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out of range port")
	}
	cfg = Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Port != 8080 || cfg.MaxBodySize != "10MB" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
