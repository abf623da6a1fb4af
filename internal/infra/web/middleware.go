package web

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/infra/logging"
	"food-spot-backend/internal/infra/metrics"
	infraredis "food-spot-backend/internal/infra/redis"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const ctxUser ctxKey = "authenticated_user"

// currentUser returns the authenticated user attached by the auth middleware,
// or nil for anonymous requests.
func currentUser(r *http.Request) *model.User {
	u, _ := r.Context().Value(ctxUser).(*model.User)
	return u
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		elapsed := float64(time.Since(start).Milliseconds())
		metrics.ObserveHTTPRequest(route, r.Method, rec.status, elapsed)
		logging.With(r.Context(), s.log).Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Float64("elapsed_ms", elapsed).
			Msg("request handled")
	})
}

// bearerToken extracts the token from the Authorization header, or "" when
// absent or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// authenticate resolves the bearer token to a live user record. Blocked users
// are rejected even with a valid token.
func (s *Server) authenticate(r *http.Request) (*model.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}
	claims, err := s.authUC.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userUC.Get(r.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// optionalAuth attaches the user when a valid token is present and lets the
// request through anonymously otherwise.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticate(r)
		if err == nil && user != nil && !user.IsBlocked {
			ctx := context.WithValue(r.Context(), ctxUser, user)
			ctx = logging.WithUserID(ctx, user.ID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects unauthenticated and blocked users.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticate(r)
		if err != nil || user == nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		if user.IsBlocked {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "account is blocked"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxUser, user)
		ctx = logging.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin layers on requireAuth; the handler only sees ADMIN users.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r).Role != model.RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// rateLimit gates a route by client address using the Redis fixed-window
// counter. A broken limiter fails open.
func (s *Server) rateLimit(limit int, window time.Duration, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			allowed, err := s.limiter.Allow(r.Context(), keyFn(r), limit, window)
			if err != nil {
				logging.With(r.Context(), s.log).Warn().Err(err).Msg("rate limiter error")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func loginRateKey(r *http.Request) string {
	return infraredis.LoginKey(clientAddr(r))
}
