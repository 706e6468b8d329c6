package admin

import "time"

const (
	ActionApproveCharger = "APPROVE_CHARGER"
	ActionSuspendCharger = "SUSPEND_CHARGER"
	ActionResolveReport  = "RESOLVE_REPORT"
	ActionDismissReport  = "DISMISS_REPORT"
)

// AdminAction is an audit row; every moderation decision writes one.
type AdminAction struct {
	ID         int       `db:"id" json:"id"`
	AdminID    int       `db:"admin_id" json:"admin_id"`
	Action     string    `db:"action" json:"action"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   int       `db:"target_id" json:"target_id"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type ModerationRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}
