// Package subscriptionbus provides business access to subscriptions.
package subscriptionbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/notify"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/otel"
)

// Set of error variables for subscription operations.
var (
	ErrNotFound = errors.New("subscription not found")
	ErrNoTerms  = errors.New("subscription has no terms to accept")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	QueryByID(ctx context.Context, subscriptionID uuid.UUID) (Subscription, error)
	AcceptTerms(ctx context.Context, subscriptionID uuid.UUID, acceptedAt time.Time) (bool, error)
}

// Core manages the set of APIs for subscription access.
type Core struct {
	log    *logger.Logger
	storer Storer
	sender notify.Sender
}

// NewCore constructs a subscription core API for use.
func NewCore(log *logger.Logger, storer Storer, sender notify.Sender) *Core {
	if sender == nil {
		sender = notify.Nop{}
	}

	return &Core{
		log:    log,
		storer: storer,
		sender: sender,
	}
}

// AcceptTerms records the acceptance of the subscription terms. The stamp is
// written at most once; accepting again succeeds and changes nothing.
func (c *Core) AcceptTerms(ctx context.Context, subscriptionID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.subscriptionbus.acceptterms")
	defer span.End()

	ok, err := c.storer.AcceptTerms(ctx, subscriptionID, time.Now())
	if err != nil {
		return fmt.Errorf("accept: subscriptionID[%s]: %w", subscriptionID, err)
	}

	if ok {
		c.sender.Send(ctx, notify.Message{
			Subject: "Terms accepted",
			Text:    fmt.Sprintf("Subscription %s accepted its terms.", subscriptionID),
		})
		return nil
	}

	// Nothing was written: find out which predicate failed.
	sub, err := c.storer.QueryByID(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("query: subscriptionID[%s]: %w", subscriptionID, err)
	}

	switch {
	case sub.TermsText == "":
		return fmt.Errorf("accept: subscriptionID[%s]: %w", subscriptionID, ErrNoTerms)

	case sub.Accepted():
		c.log.Info(ctx, "accept terms: already accepted", "subscriptionID", subscriptionID, "acceptedAt", sub.TermsAcceptedAt)
		return nil
	}

	return fmt.Errorf("accept: subscriptionID[%s]: terms pending but not written", subscriptionID)
}
