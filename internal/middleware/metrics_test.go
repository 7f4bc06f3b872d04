package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cane-field-api/internal/metrics"
)

// Shared metrics instance for all tests to avoid duplicate registration
var testMetrics *metrics.Metrics

func init() {
	testMetrics = metrics.New()
}

func setupTestRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	return router
}

func TestMetricsMiddleware_Integration(t *testing.T) {
	router := setupTestRouter(testMetrics)

	router.GET("/api/fields", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/api/fields", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.GET("/api/fields/:id/growth", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/api/fields/:id/ratoon", func(c *gin.Context) {
		c.Status(http.StatusConflict)
	})

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"GET fields", "GET", "/api/fields", http.StatusOK},
		{"POST field", "POST", "/api/fields", http.StatusCreated},
		{"GET growth snapshot", "GET", "/api/fields/123/growth", http.StatusOK},
		{"POST ratoon invalid state", "POST", "/api/fields/456/ratoon", http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
		})
	}
}

func TestMetricsMiddleware_ExcludedEndpoints(t *testing.T) {
	router := setupTestRouter(testMetrics)

	excludedPaths := []string{
		"/metrics",
		"/health",
		"/api/fields/metrics",
		"/api/fields/health",
	}

	for _, path := range excludedPaths {
		router.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	for _, path := range excludedPaths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Excluded endpoints should still serve normally
			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
		})
	}
}
