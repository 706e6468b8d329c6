package charger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChargerRepo struct{ mock.Mock }

func (m *MockChargerRepo) Create(ctx context.Context, c *Charger) (*Charger, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Charger), args.Error(1)
}

func (m *MockChargerRepo) GetByID(ctx context.Context, id int) (*Charger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Charger), args.Error(1)
}

func (m *MockChargerRepo) Save(ctx context.Context, c *Charger) (*Charger, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Charger), args.Error(1)
}

func (m *MockChargerRepo) ListPublic(ctx context.Context, city string) ([]Charger, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Charger), args.Error(1)
}

func (m *MockChargerRepo) ListByHost(ctx context.Context, hostID int) ([]Charger, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Charger), args.Error(1)
}

func (m *MockChargerRepo) List(ctx context.Context, filter ListFilter) ([]Charger, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Charger), args.Error(1)
}

func TestCreateNewListingStartsPending(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *Charger) bool {
		return c.IsAvailable && !c.IsApproved
	})).Return(&Charger{ID: 1, IsAvailable: true}, nil)

	_, err := svc.Create(context.Background(), 2, CreateChargerRequest{
		Title:         "Garage charger",
		ChargerType:   "CCS",
		PowerRating:   22,
		ChargingSpeed: "Fast",
		PlugType:      "Type-2",
		PricePerHour:  "100.00",
		Address:       "12 Main St",
		City:          "Pune",
		State:         "MH",
		Pincode:       "411001",
		Latitude:      18.52,
		Longitude:     73.85,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateRejectsBadPrice(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	for _, price := range []string{"not-a-number", "-5"} {
		_, err := svc.Create(context.Background(), 2, CreateChargerRequest{
			Title: "x", ChargerType: "CCS", PowerRating: 22,
			ChargingSpeed: "Fast", PlugType: "Type-2", PricePerHour: price,
			Address: "a", City: "b", State: "c", Pincode: "d",
			Latitude: 1, Longitude: 1,
		})
		assert.Equal(t, ErrInvalidPrice, err)
	}

	repo.AssertNotCalled(t, "Create")
}

func TestUpdateRejectsForeignCharger(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, 10).Return(&Charger{ID: 10, HostID: 99}, nil)

	_, err := svc.Update(context.Background(), 2, 10, UpdateChargerRequest{})
	assert.Equal(t, ErrNotOwner, err)
	repo.AssertNotCalled(t, "Save")
}

func TestApproveSuspendedChargerRejected(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, 10).
		Return(&Charger{ID: 10, IsAvailable: false, IsApproved: false}, nil)

	_, err := svc.Approve(context.Background(), 10)
	assert.Equal(t, ErrChargerSuspended, err)
	repo.AssertNotCalled(t, "Save")
}

func TestApprovePendingCharger(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, 10).
		Return(&Charger{ID: 10, IsAvailable: true, IsApproved: false}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *Charger) bool {
		return c.IsApproved && c.IsAvailable
	})).Return(&Charger{ID: 10, IsAvailable: true, IsApproved: true}, nil)

	c, err := svc.Approve(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, StateApproved, ApprovalState(*c))
	repo.AssertExpectations(t)
}

func TestSuspendApprovedCharger(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, 10).
		Return(&Charger{ID: 10, IsAvailable: true, IsApproved: true}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *Charger) bool {
		return !c.IsAvailable
	})).Return(&Charger{ID: 10, IsAvailable: false, IsApproved: false}, nil)

	c, err := svc.Suspend(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, StateSuspended, ApprovalState(*c))
	assert.False(t, c.IsApproved)
}

func TestGetPublicByIDHidesUnapproved(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, 10).
		Return(&Charger{ID: 10, IsAvailable: true, IsApproved: false}, nil)

	_, err := svc.GetPublicByID(context.Background(), 10)
	assert.Equal(t, ErrChargerNotFound, err)
}

func TestListPublicProximityFilter(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("ListPublic", mock.Anything, "").Return([]Charger{
		{ID: 1, Latitude: 18.52, Longitude: 73.85},  // ~0 km
		{ID: 2, Latitude: 19.07, Longitude: 72.87},  // Mumbai, ~120 km
	}, nil)

	chargers, err := svc.ListPublic(context.Background(), "",
		&GeoFilter{Latitude: 18.52, Longitude: 73.85, RadiusKm: 10})
	require.NoError(t, err)
	require.Len(t, chargers, 1)
	assert.Equal(t, 1, chargers[0].ID)
}

func TestListPublicNoGeoFilterReturnsAll(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	repo.On("ListPublic", mock.Anything, "").Return([]Charger{
		{ID: 1, Latitude: 18.52, Longitude: 73.85},
		{ID: 2, Latitude: 19.07, Longitude: 72.87},
	}, nil)

	chargers, err := svc.ListPublic(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, chargers, 2)
}

func TestListPublicAtNullIsland(t *testing.T) {
	repo := new(MockChargerRepo)
	svc := NewService(repo)

	// (0, 0) is a real coordinate; a filter there must still narrow results.
	repo.On("ListPublic", mock.Anything, "").Return([]Charger{
		{ID: 1, Latitude: 0.01, Longitude: 0.01}, // ~1.6 km from origin
		{ID: 2, Latitude: 18.52, Longitude: 73.85},
	}, nil)

	chargers, err := svc.ListPublic(context.Background(), "",
		&GeoFilter{Latitude: 0, Longitude: 0, RadiusKm: 10})
	require.NoError(t, err)
	require.Len(t, chargers, 1)
	assert.Equal(t, 1, chargers[0].ID)
}
