package automationdb

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/runstatus"
)

type automation struct {
	ID        uuid.UUID `db:"id"`
	ClientID  uuid.UUID `db:"client_id"`
	Key       string    `db:"automation_key"`
	Name      string    `db:"name"`
	Config    []byte    `db:"config"`
	IsEnabled bool      `db:"is_enabled"`
}

func toBusAutomation(db automation) automationbus.Automation {
	return automationbus.Automation{
		ID:        db.ID,
		ClientID:  db.ClientID,
		Key:       db.Key,
		Name:      db.Name,
		Config:    db.Config,
		IsEnabled: db.IsEnabled,
	}
}

func toBusAutomations(dbs []automation) []automationbus.Automation {
	bus := make([]automationbus.Automation, len(dbs))
	for i, db := range dbs {
		bus[i] = toBusAutomation(db)
	}

	return bus
}

// =============================================================================

type run struct {
	ID            uuid.UUID      `db:"id"`
	AutomationID  uuid.UUID      `db:"automation_id"`
	Status        string         `db:"status"`
	DraftContent  sql.NullString `db:"draft_content"`
	Payload       []byte         `db:"payload"`
	InputSummary  sql.NullString `db:"input_summary"`
	OutputSummary sql.NullString `db:"output_summary"`
	Error         sql.NullString `db:"error"`
	RanAt         sql.NullTime   `db:"ran_at"`
	ProcessAfter  sql.NullTime   `db:"process_after"`
}

func nullTime(nt sql.NullTime) time.Time {
	if !nt.Valid {
		return time.Time{}
	}

	return nt.Time.In(time.Local)
}

func toBusRun(db run) automationbus.Run {
	return automationbus.Run{
		ID:            db.ID,
		AutomationID:  db.AutomationID,
		Status:        runstatus.Decode(db.Status),
		DraftContent:  db.DraftContent.String,
		Payload:       db.Payload,
		InputSummary:  db.InputSummary.String,
		OutputSummary: db.OutputSummary.String,
		Error:         db.Error.String,
		RanAt:         nullTime(db.RanAt),
		ProcessAfter:  nullTime(db.ProcessAfter),
	}
}

func toBusRuns(dbs []run) []automationbus.Run {
	bus := make([]automationbus.Run, len(dbs))
	for i, db := range dbs {
		bus[i] = toBusRun(db)
	}

	return bus
}

// =============================================================================

type draft struct {
	run
	ClientID         uuid.UUID `db:"client_id"`
	AutomationName   string    `db:"automation_name"`
	AutomationKey    string    `db:"automation_key"`
	AutomationConfig []byte    `db:"automation_config"`
}

func toBusDrafts(dbs []draft) []automationbus.Draft {
	bus := make([]automationbus.Draft, len(dbs))
	for i, db := range dbs {
		bus[i] = automationbus.Draft{
			Run:              toBusRun(db.run),
			ClientID:         db.ClientID,
			AutomationName:   db.AutomationName,
			AutomationKey:    db.AutomationKey,
			AutomationConfig: db.AutomationConfig,
		}
	}

	return bus
}
