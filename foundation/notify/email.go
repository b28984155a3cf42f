package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// EmailConfig holds the Resend credentials. An empty APIKey disables email.
type EmailConfig struct {
	BaseURL string
	APIKey  string
	From    string
	To      string
}

// Email sends notifications through the Resend API.
type Email struct {
	log     *logger.Logger
	client  *resty.Client
	from    string
	to      string
	enabled bool
}

// NewEmail constructs an email sender.
func NewEmail(log *logger.Logger, cfg EmailConfig) *Email {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Email{
		log:     log,
		client:  client,
		from:    cfg.From,
		to:      cfg.To,
		enabled: cfg.APIKey != "" && cfg.From != "",
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send implements the Sender interface.
func (e *Email) Send(ctx context.Context, msg Message) {
	defer recoverSend(ctx, e.log, "email")

	to := msg.EmailTo
	if to == "" {
		to = e.to
	}

	if !e.enabled || to == "" {
		e.log.Info(ctx, "notify: email disabled", "subject", msg.Subject)
		return
	}

	req := resendRequest{
		From:    e.from,
		To:      []string{to},
		Subject: msg.Subject,
		Text:    msg.Text,
	}

	var apiErr resendError
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(req).
		SetError(&apiErr).
		Post("/emails")

	if err != nil {
		e.log.Error(ctx, "notify: email", "to", to, "ERROR", err)
		return
	}

	if resp.IsError() {
		e.log.Error(ctx, "notify: email", "to", to, "status", resp.StatusCode(), "ERROR", apiErr.Message)
		return
	}

	e.log.Info(ctx, "notify: email sent", "to", to, "subject", msg.Subject)
}
