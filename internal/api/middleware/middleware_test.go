package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request must pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request from the same ip must be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other ips have their own bucket")
	}
}

func TestDeduplicatorWindow(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Now()
	d.now = func() time.Time { return now }

	if !d.allow("a") {
		t.Fatal("first request must pass")
	}
	if d.allow("a") {
		t.Fatal("repeat inside the window must be dropped")
	}
	now = now.Add(2 * time.Second)
	if !d.allow("a") {
		t.Fatal("repeat after the window must pass")
	}
}

func TestDeduplicatorKeepsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/echo", NewDeduplicator(time.Minute).Middleware(), func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, body["command"])
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"command":"next"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "next" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestTimeoutWithoutResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("slow status = %d, want 504", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("fast status = %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("body = %s", w.Body.String())
	}
}
