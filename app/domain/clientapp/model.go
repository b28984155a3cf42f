package clientapp

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"time"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/phone"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/pin"
)

// Client is the admin view of a client. Pin material never leaves the
// service; HasPIN and PINMigrated describe it instead.
type Client struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"`
	NotifyEmail  string `json:"notify_email"`
	NotifyPhone  string `json:"notify_phone"`
	HasPIN       bool   `json:"has_pin"`
	PINMigrated  bool   `json:"pin_migrated"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Encode implements the web.Encoder interface.
func (app Client) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppClient(bus clientbus.Client) Client {
	return Client{
		ID:           bus.ID.String(),
		Slug:         bus.Slug.String(),
		Name:         bus.Name,
		LogoURL:      bus.LogoURL,
		PrimaryColor: bus.PrimaryColor,
		NotifyEmail:  bus.NotifyEmail,
		NotifyPhone:  bus.NotifyPhone.String(),
		HasPIN:       bus.PIN != "" || bus.PINHash != "",
		PINMigrated:  bus.PINHash != "",
		CreatedAt:    bus.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    bus.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================

// Branding is the public view of a client.
type Branding struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"`
}

// Encode implements the web.Encoder interface.
func (app Branding) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppBranding(bus clientbus.Branding) Branding {
	return Branding{
		ID:           bus.ID.String(),
		Slug:         bus.Slug.String(),
		Name:         bus.Name,
		LogoURL:      bus.LogoURL,
		PrimaryColor: bus.PrimaryColor,
	}
}

// =============================================================================

// UpdateClient defines the data needed to update a client.
type UpdateClient struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	LogoURL      *string `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor *string `json:"primary_color" validate:"omitempty,hexcolor"`
	NotifyEmail  *string `json:"notify_email"`
	NotifyPhone  *string `json:"notify_phone"`
	PIN          *string `json:"pin"`
}

// Decode implements the web.Decoder interface.
func (app *UpdateClient) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateClient) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusUpdateClient(app UpdateClient) (clientbus.UpdateClient, error) {
	var fieldErrors errs.FieldErrors

	uc := clientbus.UpdateClient{
		Name:         app.Name,
		LogoURL:      app.LogoURL,
		PrimaryColor: app.PrimaryColor,
	}

	if app.NotifyEmail != nil {
		email := *app.NotifyEmail
		if email != "" {
			addr, err := mail.ParseAddress(email)
			if err != nil {
				fieldErrors.Add("notify_email", err)
			} else {
				email = addr.Address
			}
		}
		uc.NotifyEmail = &email
	}

	if app.NotifyPhone != nil {
		p, err := phone.ParseNull(*app.NotifyPhone)
		if err != nil {
			fieldErrors.Add("notify_phone", err)
		}
		uc.NotifyPhone = &p
	}

	if app.PIN != nil {
		p, err := pin.Parse(*app.PIN)
		if err != nil {
			fieldErrors.Add("pin", err)
		}
		uc.PIN = &p
	}

	if len(fieldErrors) > 0 {
		return clientbus.UpdateClient{}, fieldErrors.ToError()
	}

	return uc, nil
}

// =============================================================================

// VerifyPIN is the pin a client enters to open its reports.
type VerifyPIN struct {
	PIN string `json:"pin" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *VerifyPIN) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app VerifyPIN) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

// Verified is the outcome of a pin check.
type Verified struct {
	OK bool `json:"ok"`
}

// Encode implements the web.Encoder interface.
func (app Verified) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// Migrated reports how many pins a migration run hashed.
type Migrated struct {
	Migrated int `json:"migrated"`
}

// Encode implements the web.Encoder interface.
func (app Migrated) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}
