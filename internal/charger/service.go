package charger

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrNotOwner         = errors.New("charger does not belong to this host")
	ErrChargerSuspended = errors.New("suspended charger cannot be approved until the host restores availability")
	ErrInvalidPrice     = errors.New("invalid price per hour")
)

// GeoFilter narrows a public listing to chargers within RadiusKm of a point.
// A nil filter means no proximity search was requested; (0, 0) is a valid
// coordinate, not an absence marker.
type GeoFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

type Service interface {
	Create(ctx context.Context, hostID int, req CreateChargerRequest) (*Charger, error)
	Update(ctx context.Context, hostID, chargerID int, req UpdateChargerRequest) (*Charger, error)
	GetByID(ctx context.Context, id int) (*Charger, error)
	GetPublicByID(ctx context.Context, id int) (*Charger, error)
	ListPublic(ctx context.Context, city string, geo *GeoFilter) ([]Charger, error)
	ListByHost(ctx context.Context, hostID int) ([]Charger, error)
	List(ctx context.Context, filter ListFilter) ([]Charger, error)
	Approve(ctx context.Context, chargerID int) (*Charger, error)
	Suspend(ctx context.Context, chargerID int) (*Charger, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, hostID int, req CreateChargerRequest) (*Charger, error) {
	price, err := decimal.NewFromString(req.PricePerHour)
	if err != nil || price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	numPorts := req.NumPorts
	if numPorts == 0 {
		numPorts = 1
	}

	c := &Charger{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		ChargerType:   req.ChargerType,
		PowerRating:   req.PowerRating,
		ChargingSpeed: req.ChargingSpeed,
		PlugType:      req.PlugType,
		NumPorts:      numPorts,
		PricePerHour:  price,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		IsAvailable:   true,
		IsApproved:    false,
	}

	return s.repo.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, hostID, chargerID int, req UpdateChargerRequest) (*Charger, error) {
	c, err := s.repo.GetByID(ctx, chargerID)
	if err != nil {
		return nil, ErrChargerNotFound
	}

	if c.HostID != hostID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.ChargerType != nil {
		c.ChargerType = *req.ChargerType
	}
	if req.PowerRating != nil {
		c.PowerRating = *req.PowerRating
	}
	if req.ChargingSpeed != nil {
		c.ChargingSpeed = *req.ChargingSpeed
	}
	if req.PlugType != nil {
		c.PlugType = *req.PlugType
	}
	if req.NumPorts != nil {
		c.NumPorts = *req.NumPorts
	}
	if req.PricePerHour != nil {
		price, err := decimal.NewFromString(*req.PricePerHour)
		if err != nil || price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		c.PricePerHour = price
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.City != nil {
		c.City = *req.City
	}
	if req.State != nil {
		c.State = *req.State
	}
	if req.Pincode != nil {
		c.Pincode = *req.Pincode
	}
	if req.IsAvailable != nil {
		c.IsAvailable = *req.IsAvailable
	}

	return s.repo.Save(ctx, c)
}

func (s *service) GetByID(ctx context.Context, id int) (*Charger, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrChargerNotFound
	}
	return c, nil
}

func (s *service) GetPublicByID(ctx context.Context, id int) (*Charger, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrChargerNotFound
	}

	if !c.IsApproved || !c.IsAvailable {
		return nil, ErrChargerNotFound
	}

	return c, nil
}

func (s *service) ListPublic(ctx context.Context, city string, geo *GeoFilter) ([]Charger, error) {
	chargers, err := s.repo.ListPublic(ctx, city)
	if err != nil {
		return nil, err
	}

	if geo == nil {
		return chargers, nil
	}

	radiusKm := geo.RadiusKm
	if radiusKm <= 0 {
		radiusKm = 10
	}

	nearby := make([]Charger, 0, len(chargers))
	for _, c := range chargers {
		if haversineKm(geo.Latitude, geo.Longitude, c.Latitude, c.Longitude) <= radiusKm {
			nearby = append(nearby, c)
		}
	}

	return nearby, nil
}

func (s *service) ListByHost(ctx context.Context, hostID int) ([]Charger, error) {
	return s.repo.ListByHost(ctx, hostID)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Charger, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, chargerID int) (*Charger, error) {
	c, err := s.repo.GetByID(ctx, chargerID)
	if err != nil {
		return nil, ErrChargerNotFound
	}

	// Approval of a suspended listing would be silently undone by the
	// reconciler; reject it so the admin sees why.
	if !c.IsAvailable {
		return nil, ErrChargerSuspended
	}

	c.IsApproved = true
	return s.repo.Save(ctx, c)
}

func (s *service) Suspend(ctx context.Context, chargerID int) (*Charger, error) {
	c, err := s.repo.GetByID(ctx, chargerID)
	if err != nil {
		return nil, ErrChargerNotFound
	}

	c.IsAvailable = false
	return s.repo.Save(ctx, c)
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
