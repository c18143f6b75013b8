package web

import (
	"context"
	"net"
	"net/http"

	"github.com/google/uuid"

	"registration-service/internal/domain/model"
	"registration-service/internal/infra/logging"
	"registration-service/internal/infra/redis"
)

type ctxKey int

const ctxUserKey ctxKey = iota

// currentUser returns the account authenticated by basicAuth.
func currentUser(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(ctxUserKey).(*model.User)
	return u, ok
}

// requestID tags every request with an ID, echoed in the X-Request-ID
// header and carried in the context for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// basicAuth authenticates the request with HTTP Basic credentials
// (email + password) against the credential verifier. An unknown email
// and a wrong password produce the same 401.
func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w)
			return
		}

		user, err := s.userUC.VerifyCredentials(r.Context(), email, password)
		if err != nil {
			logging.With(r.Context(), s.log).Error().Err(err).Msg("credential verification failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		ctx = logging.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="registration"`)
	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

// rateLimit throttles a route per client address with the fixed-window
// limiter. A limiter backend failure fails open: availability over strict
// throttling.
func (s *Server) rateLimit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := redis.Key(scope, clientAddr(r))
			allowed, err := s.limiter.Allow(r.Context(), key, s.rl.Requests, s.rl.Window())
			if err != nil {
				logging.With(r.Context(), s.log).Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeError(w, http.StatusTooManyRequests, "Too many requests")
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
