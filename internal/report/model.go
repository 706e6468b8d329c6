package report

import (
	"database/sql"
	"time"
)

const (
	StatusOpen      = "OPEN"
	StatusResolved  = "RESOLVED"
	StatusDismissed = "DISMISSED"
)

type Report struct {
	ID              int           `db:"id" json:"id"`
	ChargerID       int           `db:"charger_id" json:"charger_id"`
	ReporterID      int           `db:"reporter_id" json:"reporter_id"`
	Reason          string        `db:"reason" json:"reason"`
	Details         string        `db:"details" json:"details,omitempty"`
	Status          string        `db:"status" json:"status"`
	ResolvedBy      sql.NullInt64 `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolutionNotes string        `db:"resolution_notes" json:"resolution_notes,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

type ReportWithCharger struct {
	Report
	ChargerTitle string `db:"charger_title" json:"charger_title"`
	ChargerCity  string `db:"charger_city" json:"charger_city"`
}

type CreateReportRequest struct {
	ChargerID int    `json:"charger_id" binding:"required"`
	Reason    string `json:"reason" binding:"required,oneof=BROKEN UNSAFE WRONG_LOCATION PRICING OTHER"`
	Details   string `json:"details" binding:"max=2000"`
}

type ResolveReportRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}
