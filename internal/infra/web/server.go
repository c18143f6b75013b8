package web

import (
	"context"
	"net/http"
	"time"

	"registration-service/internal/config"
	"registration-service/internal/domain/ports/adapter"
	"registration-service/internal/infra/logging"
	"registration-service/internal/infra/metrics"
	"registration-service/internal/infra/worker"
	"registration-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RateLimiter is the throttle surface the server needs; the redis
// fixed-window limiter satisfies it.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	userUC       usecase.UserUseCase
	activationUC usecase.ActivationUseCase
	notifier     adapter.Notifier
	tasks        *worker.Pool
	limiter      RateLimiter
	rl           config.RateLimitConfig
	log          *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	activationUC usecase.ActivationUseCase,
	notifier adapter.Notifier,
	tasks *worker.Pool,
	limiter RateLimiter,
	rl config.RateLimitConfig,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:       userUC,
		activationUC: activationUC,
		notifier:     notifier,
		tasks:        tasks,
		limiter:      limiter,
		rl:           rl,
		log:          logger,
	}
}

// Router builds the public API surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.With(s.rateLimit("registration")).Post("/registration", s.handleRegister)

		r.Route("/activation", func(r chi.Router) {
			r.Use(s.rateLimit("activation"))
			r.Use(s.basicAuth)
			r.Post("/", s.handleActivate)
			r.Post("/resend", s.handleResend)
		})
	})

	return r
}

// deliverCode queues the activation email. When no pool is wired (tests,
// one-shot tools) delivery happens inline.
func (s *Server) deliverCode(reqCtx context.Context, email, code string) {
	// Capture the request-scoped logger now; the send itself may outlive
	// the request.
	log := logging.With(reqCtx, s.log)
	send := func(ctx context.Context) error {
		ok := s.notifier.SendActivationCode(ctx, email, code)
		metrics.IncActivationEmail(ok)
		if !ok {
			// Delivery failure never rolls back the issued code; the user
			// can request a resend.
			log.Warn().Str("email", logging.Redact(email)).Msg("activation email delivery failed")
		}
		return nil
	}
	if s.tasks == nil {
		_ = send(context.Background())
		return
	}
	if err := s.tasks.Submit(send); err != nil {
		log.Warn().Err(err).Msg("could not queue activation email")
	}
}
