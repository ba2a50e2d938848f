package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/josecarlos19/top-vendas-sub000/internal/infra"
)

// EmailPayload is the body of an email job.
type EmailPayload struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	AttachPath string `json:"attach_path,omitempty"`
}

// EmailWorker delivers queued emails through the configured SMTP relay.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invalid email payload")
		return nil // unparseable payload will never succeed, drop it
	}
	if err := w.mailer.Send(payload.To, payload.Subject, payload.Body, payload.AttachPath); err != nil {
		return err
	}
	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email sent")
	return nil
}
