package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-site-api/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeResolver map[string]*domain.User

func (f fakeResolver) Resolve(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthenticated("You are not logged in! Please log in to get access.")
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, domain.InvalidToken("Invalid token. Please log in again!")
}

func TestTokenFrom(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFrom(r, "jwt"))

	r.AddCookie(&http.Cookie{Name: "jwt", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFrom(r, "jwt"))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFrom(r, "jwt"))

	// a malformed bearer header still shadows the cookie
	r.Header.Set("Authorization", "Bearer")
	assert.Equal(t, "", TokenFrom(r, "jwt"))

	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "from-cookie", TokenFrom(r, "jwt"))
}

func authEngine() *gin.Engine {
	users := fakeResolver{
		"admin": {ID: "a1", Role: domain.RoleAdmin},
		"user":  {ID: "u1", Role: domain.RoleUser},
	}
	r := gin.New()
	r.Use(Authenticate(users, "jwt"))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", Scope(c).IsAdmin())
	})
	r.GET("/me", Protect(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).ID)
	})
	r.GET("/admin", Protect(), RestrictTo(domain.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthChain(t *testing.T) {
	r := authEngine()

	w := get(r, "/open", "bogus")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Body.String())
	assert.Equal(t, "true", get(r, "/open", "admin").Body.String())

	w = get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not logged in!")

	w = get(r, "/me", "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	assert.Equal(t, "u1", get(r, "/me", "user").Body.String())

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "user").Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "admin").Code)
}

func TestIPLimiter(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewIPLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))

	now = now.Add(2 * time.Hour)
	l.Allow("10.0.0.3")
	l.mu.Lock()
	assert.Len(t, l.visitors, 1)
	l.mu.Unlock()
}

func TestIPLimiterMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, get(r, "/", "").Code)
	w := get(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), msgTooMany)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusGatewayTimeout, get(r, "/slow", "").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/fast", "").Code)
}

func TestConcurrencyLimit_CancelledWhileWaiting(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/", func(c *gin.Context) {
		close(started)
		<-release
		c.Status(http.StatusNoContent)
	})

	done := make(chan int)
	go func() { done <- get(r, "/", "").Code }()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(release)
	require.Equal(t, http.StatusNoContent, <-done)
}

func TestRequestIDEchoesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = get(r, "/", "")
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}
