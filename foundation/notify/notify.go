// Package notify provides best effort email and text message delivery.
// Senders never report failures to the caller: missing credentials turn a
// sender into a logged no-op and provider errors are logged and dropped.
package notify

import (
	"context"

	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Message is a notification for the agency or a client contact. Empty
// recipient fields fall back to the sender's configured default.
type Message struct {
	Subject string
	Text    string
	EmailTo string
	SMSTo   string
}

// Sender delivers a notification on a best effort basis.
type Sender interface {
	Send(ctx context.Context, msg Message)
}

// Nop is a sender that does nothing.
type Nop struct{}

// Send implements the Sender interface.
func (Nop) Send(context.Context, Message) {}

// Multi fans a message out to every sender in order.
type Multi []Sender

// Send implements the Sender interface.
func (m Multi) Send(ctx context.Context, msg Message) {
	for _, s := range m {
		s.Send(ctx, msg)
	}
}

// recoverSend keeps a provider panic from escaping Send.
func recoverSend(ctx context.Context, log *logger.Logger, channel string) {
	if rec := recover(); rec != nil {
		log.Error(ctx, "notify: panic", "channel", channel, "ERROR", rec)
	}
}
