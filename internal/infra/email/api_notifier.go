package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"registration-service/internal/config"
	"registration-service/internal/domain/ports/adapter"
	"registration-service/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ adapter.Notifier = (*APINotifier)(nil)

// APINotifier posts activation codes to an HTTP email API (a mailhog-style
// relay in dev, the provider's send endpoint in prod). Delivery is best
// effort: any failure is reported as false and logged, never retried here.
type APINotifier struct {
	apiURL string
	from   string
	client *http.Client
	log    *zerolog.Logger
}

func NewAPINotifier(cfg config.EmailConfig, logger *zerolog.Logger) *APINotifier {
	return &APINotifier{
		apiURL: cfg.APIURL,
		from:   cfg.From,
		client: &http.Client{Timeout: cfg.Timeout()},
		log:    logger,
	}
}

type sendRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (n *APINotifier) SendActivationCode(ctx context.Context, email, code string) bool {
	payload, err := json.Marshal(sendRequest{
		From:    n.from,
		To:      email,
		Subject: "Your activation code",
		Body:    fmt.Sprintf("Your activation code is: %s", code),
	})
	if err != nil {
		n.log.Error().Err(err).Msg("marshal activation email")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(payload))
	if err != nil {
		n.log.Error().Err(err).Msg("build activation email request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("email", logging.Redact(email)).Msg("send activation email")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		n.log.Warn().Int("status", resp.StatusCode).Str("email", logging.Redact(email)).Msg("email API rejected activation email")
		return false
	}
	return true
}
