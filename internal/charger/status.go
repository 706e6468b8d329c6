package charger

// Derived approval states. Not stored; computed from the flag pair.
const (
	StatePending   = "PENDING"   // is_available=true,  is_approved=false
	StateApproved  = "APPROVED"  // is_available=true,  is_approved=true
	StateSuspended = "SUSPENDED" // is_available=false, is_approved=false
)

// Reconcile enforces the listing invariant: a charger that is not available
// can never be approved. Pure and idempotent; every persistence path must
// route through it (the repository applies it inside each write), so the rule
// lives here and nowhere else.
func Reconcile(c Charger) Charger {
	if !c.IsAvailable && c.IsApproved {
		c.IsApproved = false
	}
	return c
}

// ApprovalState derives the moderation state from the flag pair. Assumes the
// charger has been reconciled; an unreconciled pair maps to SUSPENDED since
// is_available=false dominates.
func ApprovalState(c Charger) string {
	if !c.IsAvailable {
		return StateSuspended
	}
	if c.IsApproved {
		return StateApproved
	}
	return StatePending
}
