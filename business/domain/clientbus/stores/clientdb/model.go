package clientdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/phone"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/slug"
)

type client struct {
	ID           uuid.UUID      `db:"id"`
	Slug         string         `db:"slug"`
	Name         string         `db:"name"`
	PIN          sql.NullString `db:"pin"`
	PINHash      sql.NullString `db:"pin_hash"`
	LogoURL      sql.NullString `db:"logo_url"`
	PrimaryColor sql.NullString `db:"primary_color"`
	NotifyEmail  sql.NullString `db:"notify_email"`
	NotifyPhone  sql.NullString `db:"notify_phone"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}

func toDBClient(bus clientbus.Client) client {
	return client{
		ID:           bus.ID,
		Slug:         bus.Slug.String(),
		Name:         bus.Name,
		PIN:          nullString(bus.PIN),
		PINHash:      nullString(bus.PINHash),
		LogoURL:      nullString(bus.LogoURL),
		PrimaryColor: nullString(bus.PrimaryColor),
		NotifyEmail:  nullString(bus.NotifyEmail),
		NotifyPhone:  phone.ToSQLNullString(bus.NotifyPhone),
		CreatedAt:    bus.CreatedAt.UTC(),
		UpdatedAt:    bus.UpdatedAt.UTC(),
	}
}

func toBusClient(db client) (clientbus.Client, error) {
	s, err := slug.Parse(db.Slug)
	if err != nil {
		return clientbus.Client{}, fmt.Errorf("parse slug: %w", err)
	}

	// Phones typed in by hand before validation existed are dropped rather
	// than failing the whole read.
	notifyPhone, err := phone.ParseNull(db.NotifyPhone.String)
	if err != nil {
		notifyPhone = phone.Null{}
	}

	bus := clientbus.Client{
		ID:           db.ID,
		Slug:         s,
		Name:         db.Name,
		PIN:          db.PIN.String,
		PINHash:      db.PINHash.String,
		LogoURL:      db.LogoURL.String,
		PrimaryColor: db.PrimaryColor.String,
		NotifyEmail:  db.NotifyEmail.String,
		NotifyPhone:  notifyPhone,
		CreatedAt:    db.CreatedAt.In(time.Local),
		UpdatedAt:    db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

// =============================================================================

type branding struct {
	ID           uuid.UUID      `db:"id"`
	Slug         string         `db:"slug"`
	Name         string         `db:"name"`
	LogoURL      sql.NullString `db:"logo_url"`
	PrimaryColor sql.NullString `db:"primary_color"`
}

func toBusBranding(db branding) (clientbus.Branding, error) {
	s, err := slug.Parse(db.Slug)
	if err != nil {
		return clientbus.Branding{}, fmt.Errorf("parse slug: %w", err)
	}

	b := clientbus.Branding{
		ID:           db.ID,
		Slug:         s,
		Name:         db.Name,
		LogoURL:      db.LogoURL.String,
		PrimaryColor: db.PrimaryColor.String,
	}

	return b, nil
}

type pendingPIN struct {
	ID  uuid.UUID `db:"id"`
	PIN string    `db:"pin"`
}

func toBusPendingPINs(dbs []pendingPIN) []clientbus.PendingPIN {
	bus := make([]clientbus.PendingPIN, len(dbs))
	for i, db := range dbs {
		bus[i] = clientbus.PendingPIN{
			ID:  db.ID,
			PIN: db.PIN,
		}
	}

	return bus
}
