package charger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charger is a host-owned listing. The IsAvailable/IsApproved pair is
// normalized by Reconcile on every write; see status.go.
type Charger struct {
	ID            int             `db:"id" json:"id"`
	HostID        int             `db:"host_id" json:"host_id"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	ChargerType   string          `db:"charger_type" json:"charger_type"`
	PowerRating   float64         `db:"power_rating" json:"power_rating"`
	ChargingSpeed string          `db:"charging_speed" json:"charging_speed"`
	PlugType      string          `db:"plug_type" json:"plug_type"`
	NumPorts      int             `db:"num_ports" json:"num_ports"`
	PricePerHour  decimal.Decimal `db:"price_per_hour" json:"price_per_hour"`
	Address       string          `db:"address" json:"address"`
	City          string          `db:"city" json:"city"`
	State         string          `db:"state" json:"state"`
	Pincode       string          `db:"pincode" json:"pincode"`
	Latitude      float64         `db:"latitude" json:"latitude"`
	Longitude     float64         `db:"longitude" json:"longitude"`
	IsAvailable   bool            `db:"is_available" json:"is_available"`
	IsApproved    bool            `db:"is_approved" json:"is_approved"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateChargerRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	ChargerType   string  `json:"charger_type" binding:"required"`
	PowerRating   float64 `json:"power_rating" binding:"required,gt=0"`
	ChargingSpeed string  `json:"charging_speed" binding:"required"`
	PlugType      string  `json:"plug_type" binding:"required"`
	NumPorts      int     `json:"num_ports" binding:"omitempty,min=1"`
	PricePerHour  string  `json:"price_per_hour" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	City          string  `json:"city" binding:"required"`
	State         string  `json:"state" binding:"required"`
	Pincode       string  `json:"pincode" binding:"required"`
	Latitude      float64 `json:"latitude" binding:"required"`
	Longitude     float64 `json:"longitude" binding:"required"`
}

type UpdateChargerRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	ChargerType   *string  `json:"charger_type"`
	PowerRating   *float64 `json:"power_rating"`
	ChargingSpeed *string  `json:"charging_speed"`
	PlugType      *string  `json:"plug_type"`
	NumPorts      *int     `json:"num_ports"`
	PricePerHour  *string  `json:"price_per_hour"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Pincode       *string  `json:"pincode"`
	IsAvailable   *bool    `json:"is_available"`
}

type ChargerWithState struct {
	Charger
	ApprovalState string `json:"approval_state"`
}

// WithState attaches the derived approval state for API responses.
func WithState(c Charger) ChargerWithState {
	return ChargerWithState{Charger: c, ApprovalState: ApprovalState(c)}
}
