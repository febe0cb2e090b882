package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitRouter(t *testing.T, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.GET("/ping", RateLimit(rdb, max, window, keyFn, allow), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, mr
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 3, time.Minute, KeyByIP(), nil)

	for i := 0; i < 3; i++ {
		w := hit(r, "203.0.113.7")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := hit(r, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 1, time.Minute, KeyByIP(), nil)

	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "203.0.113.1").Code)
	// a different client is unaffected
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.2").Code)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	r, mr := setupRateLimitRouter(t, 1, time.Minute, KeyByIP(), nil)

	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "203.0.113.9").Code)

	mr.FastForward(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.9").Code)
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 1, time.Minute, KeyByIP(), func(c *gin.Context) bool { return true })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "203.0.113.3").Code)
	}
}

func TestRateLimit_NilRedisFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "203.0.113.4").Code)
	}
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 10, time.Minute, KeyByIP(), nil)

	w := hit(r, "203.0.113.5")
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"192.168.0.5", true},
		{"203.0.113.7", false},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", tc.ip)
		assert.Equal(t, tc.want, allow(c), "ip %s", tc.ip)
	}
}
