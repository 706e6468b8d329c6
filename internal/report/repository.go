package report

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrReportNotFound = errors.New("report not found")
	// ErrReportClosed means the report was already resolved or dismissed.
	ErrReportClosed = errors.New("report is already closed")
)

const reportColumns = `id, charger_id, reporter_id, reason, details, status, resolved_by, resolution_notes, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, rp *Report) (*Report, error)
	GetByID(ctx context.Context, id int) (*Report, error)
	List(ctx context.Context, status string) ([]ReportWithCharger, error)
	Close(ctx context.Context, id, adminID int, toStatus, notes string) (*Report, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rp *Report) (*Report, error) {
	query := `
		INSERT INTO reports (charger_id, reporter_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reportColumns

	var created Report
	err := r.db.GetContext(ctx, &created, query,
		rp.ChargerID, rp.ReporterID, rp.Reason, rp.Details, StatusOpen)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	var rp Report
	if err := r.db.GetContext(ctx, &rp, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	return &rp, nil
}

func (r *repository) List(ctx context.Context, status string) ([]ReportWithCharger, error) {
	query := `
		SELECT r.id, r.charger_id, r.reporter_id, r.reason, r.details, r.status,
		       r.resolved_by, r.resolution_notes, r.created_at, r.updated_at,
		       c.title AS charger_title,
		       c.city AS charger_city
		FROM reports r
		JOIN chargers c ON r.charger_id = c.id
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE r.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY r.created_at DESC`

	var reports []ReportWithCharger
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, err
	}

	return reports, nil
}

// Close only moves OPEN reports, so two admins cannot close the same report
// twice.
func (r *repository) Close(ctx context.Context, id, adminID int, toStatus, notes string) (*Report, error) {
	query := `
		UPDATE reports
		SET status = $1, resolved_by = $2, resolution_notes = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
		RETURNING ` + reportColumns

	var rp Report
	err := r.db.GetContext(ctx, &rp, query, toStatus, adminID, notes, id, StatusOpen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportClosed
		}
		return nil, err
	}

	return &rp, nil
}
