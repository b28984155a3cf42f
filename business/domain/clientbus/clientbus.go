// Package clientbus provides business access to the agency clients.
package clientbus

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/otel"
	"golang.org/x/crypto/bcrypt"
)

// PINHashCost is the bcrypt cost used for client pins.
const PINHashCost = 10

// Set of error variables for CRUD operations.
var (
	ErrNotFound = errors.New("client not found")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Update(ctx context.Context, c Client) error
	QueryByID(ctx context.Context, clientID uuid.UUID) (Client, error)
	QueryBySlug(ctx context.Context, slug string) (Client, error)
	QueryBranding(ctx context.Context, slug string) (Branding, error)
	QueryPendingPINs(ctx context.Context) ([]PendingPIN, error)
	SetPINHash(ctx context.Context, clientID uuid.UUID, hash string, updatedAt time.Time) (bool, error)
}

// Core manages the set of APIs for client access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a client core API for use.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		log:    log,
		storer: storer,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer), nil
}

// HashPIN returns the bcrypt hash of a pin.
func HashPIN(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), PINHashCost)
	if err != nil {
		return "", fmt.Errorf("generatefrompassword: %w", err)
	}

	return string(hash), nil
}

// Update modifies information about a client. A new pin is hashed right
// away and the plaintext column is cleared.
func (c *Core) Update(ctx context.Context, clt Client, uc UpdateClient) (Client, error) {
	ctx, span := otel.AddSpan(ctx, "business.clientbus.update")
	defer span.End()

	if uc.Name != nil {
		clt.Name = *uc.Name
	}

	if uc.LogoURL != nil {
		clt.LogoURL = *uc.LogoURL
	}

	if uc.PrimaryColor != nil {
		clt.PrimaryColor = *uc.PrimaryColor
	}

	if uc.NotifyEmail != nil {
		clt.NotifyEmail = *uc.NotifyEmail
	}

	if uc.NotifyPhone != nil {
		clt.NotifyPhone = *uc.NotifyPhone
	}

	if uc.PIN != nil {
		hash, err := HashPIN(uc.PIN.String())
		if err != nil {
			return Client{}, fmt.Errorf("hash pin: %w", err)
		}

		clt.PINHash = hash
		clt.PIN = ""
	}

	clt.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, clt); err != nil {
		return Client{}, fmt.Errorf("update: %w", err)
	}

	return clt, nil
}

// QueryByID finds the client by the specified ID.
func (c *Core) QueryByID(ctx context.Context, clientID uuid.UUID) (Client, error) {
	ctx, span := otel.AddSpan(ctx, "business.clientbus.querybyid")
	defer span.End()

	clt, err := c.storer.QueryByID(ctx, clientID)
	if err != nil {
		return Client{}, fmt.Errorf("query: clientID[%s]: %w", clientID, err)
	}

	return clt, nil
}

// QueryBranding returns the public branding of the client with the slug.
func (c *Core) QueryBranding(ctx context.Context, slug string) (Branding, error) {
	ctx, span := otel.AddSpan(ctx, "business.clientbus.querybranding")
	defer span.End()

	b, err := c.storer.QueryBranding(ctx, slug)
	if err != nil {
		return Branding{}, fmt.Errorf("query: slug[%s]: %w", slug, err)
	}

	return b, nil
}

// VerifyPIN reports whether the pin opens the reports of the client with the
// slug. A stored hash always wins over the legacy plaintext pin.
func (c *Core) VerifyPIN(ctx context.Context, slug string, p string) (bool, error) {
	ctx, span := otel.AddSpan(ctx, "business.clientbus.verifypin")
	defer span.End()

	clt, err := c.storer.QueryBySlug(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("query: slug[%s]: %w", slug, err)
	}

	if p == "" {
		return false, nil
	}

	if clt.PINHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(clt.PINHash), []byte(p)) == nil, nil
	}

	if clt.PIN == "" {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(clt.PIN), []byte(p)) == 1, nil
}

// MigratePINs hashes every plaintext pin that has no hash yet and returns
// the number of rows it migrated. Rows are written one at a time and each
// write only lands while pin_hash is still null, so running it again is
// safe and reports zero. The first failure stops the run; rows migrated
// before it stay migrated.
func (c *Core) MigratePINs(ctx context.Context) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.clientbus.migratepins")
	defer span.End()

	pending, err := c.storer.QueryPendingPINs(ctx)
	if err != nil {
		return 0, fmt.Errorf("query pending: %w", err)
	}

	var migrated int
	for _, pp := range pending {
		hash, err := HashPIN(pp.PIN)
		if err != nil {
			return migrated, fmt.Errorf("hash pin: clientID[%s]: %w", pp.ID, err)
		}

		ok, err := c.storer.SetPINHash(ctx, pp.ID, hash, time.Now())
		if err != nil {
			return migrated, fmt.Errorf("set pin hash: clientID[%s]: %w", pp.ID, err)
		}

		if !ok {
			c.log.Info(ctx, "migrate pins: already migrated", "clientID", pp.ID)
			continue
		}

		migrated++
	}

	c.log.Info(ctx, "migrate pins", "pending", len(pending), "migrated", migrated)

	return migrated, nil
}
