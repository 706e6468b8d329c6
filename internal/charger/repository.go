package charger

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"chargerbnb/internal/logger"
	"chargerbnb/internal/metrics"
)

var ErrChargerNotFound = errors.New("charger not found")

const chargerColumns = `id, host_id, title, description, charger_type, power_rating, charging_speed, plug_type, num_ports, price_per_hour, address, city, state, pincode, latitude, longitude, is_available, is_approved, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// normalize applies the status invariant before any write. This is the only
// place persistence meets the rule; callers never re-implement it.
func normalize(c *Charger) Charger {
	rc := Reconcile(*c)
	if rc.IsApproved != c.IsApproved {
		metrics.RecordStatusReconciliation()
		logger.Info("charger status reconciled",
			"charger_id", c.ID,
			"is_available", rc.IsAvailable,
		)
	}
	return rc
}

func (r *repository) Create(ctx context.Context, c *Charger) (*Charger, error) {
	rc := normalize(c)

	query := `
		INSERT INTO chargers (host_id, title, description, charger_type, power_rating, charging_speed, plug_type, num_ports, price_per_hour, address, city, state, pincode, latitude, longitude, is_available, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + chargerColumns

	var created Charger
	err := r.db.GetContext(ctx, &created, query,
		rc.HostID, rc.Title, rc.Description, rc.ChargerType, rc.PowerRating,
		rc.ChargingSpeed, rc.PlugType, rc.NumPorts, rc.PricePerHour,
		rc.Address, rc.City, rc.State, rc.Pincode, rc.Latitude, rc.Longitude,
		rc.IsAvailable, rc.IsApproved,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Charger, error) {
	query := `SELECT ` + chargerColumns + ` FROM chargers WHERE id = $1`

	var c Charger
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}

	return &c, nil
}

// Save is the single update path for chargers. Every caller that mutates a
// charger (host edits, admin approve/suspend) persists through here.
func (r *repository) Save(ctx context.Context, c *Charger) (*Charger, error) {
	rc := normalize(c)

	query := `
		UPDATE chargers
		SET title = $1, description = $2, charger_type = $3, power_rating = $4,
		    charging_speed = $5, plug_type = $6, num_ports = $7, price_per_hour = $8,
		    address = $9, city = $10, state = $11, pincode = $12,
		    latitude = $13, longitude = $14, is_available = $15, is_approved = $16,
		    updated_at = NOW()
		WHERE id = $17
		RETURNING ` + chargerColumns

	var saved Charger
	err := r.db.GetContext(ctx, &saved, query,
		rc.Title, rc.Description, rc.ChargerType, rc.PowerRating,
		rc.ChargingSpeed, rc.PlugType, rc.NumPorts, rc.PricePerHour,
		rc.Address, rc.City, rc.State, rc.Pincode, rc.Latitude, rc.Longitude,
		rc.IsAvailable, rc.IsApproved, rc.ID,
	)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (r *repository) ListPublic(ctx context.Context, city string) ([]Charger, error) {
	query := `
		SELECT ` + chargerColumns + `
		FROM chargers
		WHERE is_approved = TRUE AND is_available = TRUE
	`
	args := []interface{}{}

	if city != "" {
		query += " AND LOWER(city) = LOWER($1)"
		args = append(args, city)
	}

	query += " ORDER BY created_at DESC"

	var chargers []Charger
	if err := r.db.SelectContext(ctx, &chargers, query, args...); err != nil {
		return nil, err
	}

	return chargers, nil
}

func (r *repository) ListByHost(ctx context.Context, hostID int) ([]Charger, error) {
	query := `
		SELECT ` + chargerColumns + `
		FROM chargers
		WHERE host_id = $1
		ORDER BY created_at DESC
	`

	var chargers []Charger
	if err := r.db.SelectContext(ctx, &chargers, query, hostID); err != nil {
		return nil, err
	}

	return chargers, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Charger, error) {
	query := `SELECT ` + chargerColumns + ` FROM chargers WHERE 1=1`
	args := []interface{}{}

	switch filter.State {
	case StatePending:
		query += " AND is_available = TRUE AND is_approved = FALSE"
	case StateApproved:
		query += " AND is_available = TRUE AND is_approved = TRUE"
	case StateSuspended:
		query += " AND is_available = FALSE"
	}

	if filter.City != "" {
		args = append(args, filter.City)
		query += " AND LOWER(city) = LOWER($1)"
	}

	query += " ORDER BY id ASC"

	var chargers []Charger
	if err := r.db.SelectContext(ctx, &chargers, query, args...); err != nil {
		return nil, err
	}

	return chargers, nil
}
