package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/security"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "session"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		limiter:     limiter,
	}
}

// RequireAuth is middleware that requires a valid session
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, SessionContextKey, cookie.Value)
		next(w, r.WithContext(ctx))
	}
}

// RequireStaff is middleware that requires a teacher or admin session
func (m *Middleware) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || !user.IsStaff() {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	})
}

// RequireAdmin is middleware that requires an admin session
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	})
}

// CSRFProtect validates the CSRF token header on mutating requests.
// Must be wrapped by RequireAuth so the session ID is in the context.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := GetSessionIDFromContext(r.Context())
		token := r.Header.Get(CSRFHeaderName)
		if !m.csrf.ValidateToken(sessionID, token) {
			respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSessionIDFromContext retrieves the session ID from the request context
func GetSessionIDFromContext(ctx context.Context) string {
	sessionID, ok := ctx.Value(SessionContextKey).(string)
	if !ok {
		return ""
	}
	return sessionID
}
