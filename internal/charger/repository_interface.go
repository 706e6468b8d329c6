package charger

import "context"

type ListFilter struct {
	City  string
	State string // derived approval state: PENDING, APPROVED, SUSPENDED
}

type Repository interface {
	Create(ctx context.Context, c *Charger) (*Charger, error)
	GetByID(ctx context.Context, id int) (*Charger, error)
	Save(ctx context.Context, c *Charger) (*Charger, error)
	ListPublic(ctx context.Context, city string) ([]Charger, error)
	ListByHost(ctx context.Context, hostID int) ([]Charger, error)
	List(ctx context.Context, filter ListFilter) ([]Charger, error)
}
