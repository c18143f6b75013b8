package email

import (
	"context"

	"registration-service/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.Notifier = (*NopNotifier)(nil)

// NopNotifier logs codes instead of delivering them. Used in dev and in
// tests when no email API is configured.
type NopNotifier struct {
	log *zerolog.Logger
}

func NewNopNotifier(logger *zerolog.Logger) *NopNotifier {
	return &NopNotifier{log: logger}
}

func (n *NopNotifier) SendActivationCode(ctx context.Context, email, code string) bool {
	n.log.Info().Str("email", email).Str("code", code).Msg("nop notifier: activation code not delivered")
	return true
}
