package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1 req/min refill with burst 2: the third rapid request must be
	// rejected.
	rl := NewIPRateLimiter(1, 2, time.Minute)

	r := gin.New()
	r.GET("/limited", RateLimitByIP(rl), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/limited", nil)
		req.RemoteAddr = "10.1.2.3:4444"
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/limited", nil)
	req.RemoteAddr = "10.1.2.3:4444"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the burst, got %d", w.Code)
	}

	// A different IP has its own budget.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/limited", nil)
	req.RemoteAddr = "10.9.9.9:4444"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("other IP: expected 200, got %d", w.Code)
	}
}
