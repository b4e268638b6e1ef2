package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-site-api/internal/domain"
	resp "studio-site-api/internal/transport/http/response"
)

const (
	ctxUser    = "auth.user"
	ctxAuthErr = "auth.err"
)

// Resolver turns a raw token into the active user it belongs to.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// TokenFrom prefers the bearer header; the cookie only counts when the
// header is absent.
func TokenFrom(r *http.Request, cookieName string) string {
	if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer") {
		if parts := strings.Fields(ah); len(parts) == 2 {
			return parts[1]
		}
		return ""
	}
	if ck, err := r.Cookie(cookieName); err == nil {
		return ck.Value
	}
	return ""
}

// Authenticate resolves the caller once per request and never rejects: a
// failure is parked on the context for Protect to report. Routes that do
// not call Protect see it as optional auth.
func Authenticate(r Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := r.Resolve(c.Request.Context(), TokenFrom(c.Request, cookieName))
		if err != nil {
			c.Set(ctxAuthErr, err)
		} else {
			c.Set(ctxUser, u)
		}
		c.Next()
	}
}

func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if v, ok := c.Get(ctxAuthErr); ok {
			if err, ok := v.(error); ok {
				resp.Abort(c, err)
				return
			}
		}
		resp.Abort(c, domain.Unauthenticated("You are not logged in! Please log in to get access."))
	}
}

func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !slices.Contains(roles, u.Role) {
			resp.Abort(c, domain.Forbidden("You do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

// CurrentUser is the principal, or nil for anonymous callers.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func Scope(c *gin.Context) domain.Scope { return domain.ScopeFor(CurrentUser(c)) }
