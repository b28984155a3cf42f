package clientbus

import (
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/phone"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/pin"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/slug"
)

// Client represents an agency client. PIN holds a legacy plaintext pin and
// is ignored for authentication once PINHash is set.
type Client struct {
	ID           uuid.UUID
	Slug         slug.Slug
	Name         string
	PIN          string
	PINHash      string
	LogoURL      string
	PrimaryColor string
	NotifyEmail  string
	NotifyPhone  phone.Null
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Branding is the public view of a client served to the report app.
type Branding struct {
	ID           uuid.UUID
	Slug         slug.Slug
	Name         string
	LogoURL      string
	PrimaryColor string
}

// UpdateClient contains information needed to update a client.
type UpdateClient struct {
	Name         *string
	LogoURL      *string
	PrimaryColor *string
	NotifyEmail  *string
	NotifyPhone  *phone.Null
	PIN          *pin.PIN
}

// PendingPIN is a client row that still carries an unhashed pin.
type PendingPIN struct {
	ID  uuid.UUID
	PIN string
}
