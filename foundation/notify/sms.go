package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// SMSConfig holds the Twilio credentials. Any empty credential disables
// text messages.
type SMSConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// SMS sends notifications through the Twilio Messages API.
type SMS struct {
	log        *logger.Logger
	client     *resty.Client
	accountSID string
	from       string
	to         string
	enabled    bool
}

// NewSMS constructs a text message sender.
func NewSMS(log *logger.Logger, cfg SMSConfig) *SMS {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json")

	return &SMS{
		log:        log,
		client:     client,
		accountSID: cfg.AccountSID,
		from:       cfg.From,
		to:         cfg.To,
		enabled:    cfg.AccountSID != "" && cfg.AuthToken != "" && cfg.From != "",
	}
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send implements the Sender interface. The subject is folded into the body
// since text messages have no subject line.
func (s *SMS) Send(ctx context.Context, msg Message) {
	defer recoverSend(ctx, s.log, "sms")

	to := msg.SMSTo
	if to == "" {
		to = s.to
	}

	if !s.enabled || to == "" {
		s.log.Info(ctx, "notify: sms disabled", "subject", msg.Subject)
		return
	}

	body := msg.Text
	if msg.Subject != "" {
		body = fmt.Sprintf("%s: %s", msg.Subject, msg.Text)
	}

	var apiErr twilioError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": s.from,
			"Body": body,
		}).
		SetError(&apiErr).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", s.accountSID))

	if err != nil {
		s.log.Error(ctx, "notify: sms", "to", to, "ERROR", err)
		return
	}

	if resp.IsError() {
		s.log.Error(ctx, "notify: sms", "to", to, "status", resp.StatusCode(), "code", apiErr.Code, "ERROR", apiErr.Message)
		return
	}

	s.log.Info(ctx, "notify: sms sent", "to", to)
}
