package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/component"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, path string, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	engine := gin.New()
	engine.GET(path, h)
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return rr, body
}

func checker(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, len(statuses))
		for i, s := range statuses {
			out[i] = component.Health{Name: string(s), Status: s}
		}
		return out
	}
}

func TestHealthAndReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checker    HealthChecker
		wantStatus string
		wantCode   int
		wantReady  int
	}{
		{"no checker", nil, "healthy", http.StatusOK, http.StatusOK},
		{"degraded", checker(component.StatusHealthy, component.StatusDegraded), "degraded", http.StatusOK, http.StatusOK},
		{"unhealthy", checker(component.StatusDegraded, component.StatusUnhealthy), "unhealthy", http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := serve(t, "/health", Health("speakeralign", tt.checker))
			if rr.Code != tt.wantCode {
				t.Errorf("health: expected %d, got %d", tt.wantCode, rr.Code)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("health: expected %s, got %v", tt.wantStatus, body["status"])
			}

			rr, _ = serve(t, "/ready", Readiness("speakeralign", tt.checker))
			if rr.Code != tt.wantReady {
				t.Errorf("ready: expected %d, got %d", tt.wantReady, rr.Code)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	rr, body := serve(t, "/info", Info("speakeralign"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	build, ok := body["build"].(map[string]any)
	if !ok || build["version"] == "" {
		t.Errorf("expected build info, got %v", body)
	}
}

func TestMetrics(t *testing.T) {
	_, body := serve(t, "/metrics", Metrics())
	if _, ok := body["goroutines"]; !ok {
		t.Errorf("expected goroutines in %v", body)
	}
}
