package automationapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
)

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}

func timeOrNil(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// =============================================================================

// Automation is an automation configured for a client.
type Automation struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	Key       string          `json:"automation_key"`
	Name      string          `json:"name"`
	Config    json.RawMessage `json:"config"`
	IsEnabled bool            `json:"is_enabled"`
}

// Encode implements the web.Encoder interface.
func (app Automation) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppAutomation(bus automationbus.Automation) Automation {
	return Automation{
		ID:        bus.ID.String(),
		ClientID:  bus.ClientID.String(),
		Key:       bus.Key,
		Name:      bus.Name,
		Config:    rawJSON(bus.Config),
		IsEnabled: bus.IsEnabled,
	}
}

// Automations is the list of a client's automations.
type Automations struct {
	Automations []Automation `json:"automations"`
}

// Encode implements the web.Encoder interface.
func (app Automations) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppAutomations(bus []automationbus.Automation) Automations {
	items := make([]Automation, len(bus))
	for i, a := range bus {
		items[i] = toAppAutomation(a)
	}
	return Automations{Automations: items}
}

// =============================================================================

// Run is one execution of an automation.
type Run struct {
	ID            string          `json:"id"`
	AutomationID  string          `json:"automation_id"`
	Status        string          `json:"status"`
	DraftContent  string          `json:"draft_content"`
	Payload       json.RawMessage `json:"payload"`
	InputSummary  string          `json:"input_summary"`
	OutputSummary string          `json:"output_summary"`
	Error         string          `json:"error"`
	RanAt         *string         `json:"ran_at"`
	ProcessAfter  *string         `json:"process_after"`
}

func toAppRun(bus automationbus.Run) Run {
	return Run{
		ID:            bus.ID.String(),
		AutomationID:  bus.AutomationID.String(),
		Status:        bus.Status.String(),
		DraftContent:  bus.DraftContent,
		Payload:       rawJSON(bus.Payload),
		InputSummary:  bus.InputSummary,
		OutputSummary: bus.OutputSummary,
		Error:         bus.Error,
		RanAt:         timeOrNil(bus.RanAt),
		ProcessAfter:  timeOrNil(bus.ProcessAfter),
	}
}

// Runs is a page of runs, newest first.
type Runs struct {
	Runs []Run `json:"runs"`
}

// Encode implements the web.Encoder interface.
func (app Runs) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppRuns(bus []automationbus.Run) Runs {
	items := make([]Run, len(bus))
	for i, r := range bus {
		items[i] = toAppRun(r)
	}
	return Runs{Runs: items}
}

// DraftAutomation is the part of the parent automation shown with a draft.
type DraftAutomation struct {
	Name   string          `json:"name"`
	Key    string          `json:"automation_key"`
	Config json.RawMessage `json:"config"`
}

// Draft is a run waiting for the client's approval.
type Draft struct {
	Run
	ClientID   string          `json:"client_id"`
	Automation DraftAutomation `json:"automation"`
}

// Drafts is the list of drafts waiting for a client.
type Drafts struct {
	Drafts []Draft `json:"drafts"`
}

// Encode implements the web.Encoder interface.
func (app Drafts) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppDrafts(bus []automationbus.Draft) Drafts {
	items := make([]Draft, len(bus))
	for i, d := range bus {
		items[i] = Draft{
			Run:      toAppRun(d.Run),
			ClientID: d.ClientID.String(),
			Automation: DraftAutomation{
				Name:   d.AutomationName,
				Key:    d.AutomationKey,
				Config: rawJSON(d.AutomationConfig),
			},
		}
	}
	return Drafts{Drafts: items}
}

// =============================================================================

// Toggle turns an automation of a client on or off.
type Toggle struct {
	AutomationID string `json:"automation_id" validate:"required,uuid"`
	ClientID     string `json:"client_id" validate:"required,uuid"`
	IsEnabled    *bool  `json:"is_enabled" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *Toggle) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app Toggle) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

// Toggled confirms the new state of an automation.
type Toggled struct {
	OK        bool `json:"ok"`
	IsEnabled bool `json:"is_enabled"`
}

// Encode implements the web.Encoder interface.
func (app Toggled) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// DraftDecision approves or rejects a draft of a client.
type DraftDecision struct {
	RunID        string  `json:"run_id" validate:"required,uuid"`
	ClientID     string  `json:"client_id" validate:"required,uuid"`
	DraftContent *string `json:"draft_content"`
}

// Decode implements the web.Decoder interface.
func (app *DraftDecision) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app DraftDecision) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

// OK is the plain success answer.
type OK struct {
	OK bool `json:"ok"`
}

// Encode implements the web.Encoder interface.
func (app OK) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// UpdateAutomation defines what an admin may change on an automation.
type UpdateAutomation struct {
	ClientID string          `json:"client_id" validate:"required,uuid"`
	Name     *string         `json:"name" validate:"omitempty,min=1,max=200"`
	Config   json.RawMessage `json:"config"`
}

// Decode implements the web.Decoder interface.
func (app *UpdateAutomation) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateAutomation) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}

	if app.Config != nil {
		var obj map[string]any
		if err := json.Unmarshal(app.Config, &obj); err != nil || obj == nil {
			return errs.NewFieldErrors("config", errors.New("config must be a json object"))
		}
	}

	return nil
}

func toBusUpdateAutomation(app UpdateAutomation) (uuid.UUID, automationbus.UpdateAutomation) {
	return uuid.MustParse(app.ClientID), automationbus.UpdateAutomation{
		Name:   app.Name,
		Config: app.Config,
	}
}
