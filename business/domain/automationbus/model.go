package automationbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/runstatus"
)

// Automation represents a configured automation owned by a client.
type Automation struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Key       string
	Name      string
	Config    json.RawMessage
	IsEnabled bool
}

// Run represents one execution of an automation. RanAt and ProcessAfter are
// zero when unset.
type Run struct {
	ID            uuid.UUID
	AutomationID  uuid.UUID
	Status        runstatus.Status
	DraftContent  string
	Payload       json.RawMessage
	InputSummary  string
	OutputSummary string
	Error         string
	RanAt         time.Time
	ProcessAfter  time.Time
}

// Draft is a run waiting for approval together with the automation it
// belongs to. ClientID is the owner of the automation as read from the join.
type Draft struct {
	Run
	ClientID         uuid.UUID
	AutomationName   string
	AutomationKey    string
	AutomationConfig json.RawMessage
}

// UpdateAutomation contains information needed to update an automation.
type UpdateAutomation struct {
	Name   *string
	Config json.RawMessage
}

// Approval carries the optional edited content for an approved draft.
type Approval struct {
	DraftContent *string
}
