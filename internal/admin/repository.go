package admin

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const actionColumns = `id, admin_id, action, target_type, target_id, notes, created_at`

type Repository interface {
	RecordAction(ctx context.Context, a *AdminAction) (*AdminAction, error)
	ListActions(ctx context.Context, limit int) ([]AdminAction, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) RecordAction(ctx context.Context, a *AdminAction) (*AdminAction, error) {
	query := `
		INSERT INTO admin_actions (admin_id, action, target_type, target_id, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + actionColumns

	var created AdminAction
	err := r.db.GetContext(ctx, &created, query,
		a.AdminID, a.Action, a.TargetType, a.TargetID, a.Notes)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) ListActions(ctx context.Context, limit int) ([]AdminAction, error) {
	query := `SELECT ` + actionColumns + ` FROM admin_actions ORDER BY created_at DESC LIMIT $1`

	var actions []AdminAction
	if err := r.db.SelectContext(ctx, &actions, query, limit); err != nil {
		return nil, err
	}

	return actions, nil
}
