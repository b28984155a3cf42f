package subscriptionbus

import (
	"time"

	"github.com/google/uuid"
)

// Subscription represents a client's service subscription. TermsText is
// empty when no terms were issued and TermsAcceptedAt is zero until the
// terms are accepted.
type Subscription struct {
	ID              uuid.UUID
	TermsText       string
	TermsAcceptedAt time.Time
}

// Accepted reports whether the terms were already accepted.
func (s Subscription) Accepted() bool {
	return !s.TermsAcceptedAt.IsZero()
}
