package report

import (
	"context"
	"errors"

	"chargerbnb/internal/charger"
	"chargerbnb/internal/metrics"
)

// ErrOwnCharger prevents hosts from reporting their own listings.
var ErrOwnCharger = errors.New("cannot report your own charger")

type Service interface {
	Create(ctx context.Context, reporterID int, req CreateReportRequest) (*Report, error)
	List(ctx context.Context, status string) ([]ReportWithCharger, error)
	Resolve(ctx context.Context, adminID, reportID int, notes string) (*Report, error)
	Dismiss(ctx context.Context, adminID, reportID int, notes string) (*Report, error)
}

type service struct {
	repo        Repository
	chargerRepo charger.Repository
}

func NewService(repo Repository, chargerRepo charger.Repository) Service {
	return &service{repo: repo, chargerRepo: chargerRepo}
}

func (s *service) Create(ctx context.Context, reporterID int, req CreateReportRequest) (*Report, error) {
	ch, err := s.chargerRepo.GetByID(ctx, req.ChargerID)
	if err != nil {
		return nil, charger.ErrChargerNotFound
	}

	if ch.HostID == reporterID {
		return nil, ErrOwnCharger
	}

	created, err := s.repo.Create(ctx, &Report{
		ChargerID:  req.ChargerID,
		ReporterID: reporterID,
		Reason:     req.Reason,
		Details:    req.Details,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReport(StatusOpen)
	return created, nil
}

func (s *service) List(ctx context.Context, status string) ([]ReportWithCharger, error) {
	return s.repo.List(ctx, status)
}

func (s *service) Resolve(ctx context.Context, adminID, reportID int, notes string) (*Report, error) {
	return s.close(ctx, adminID, reportID, StatusResolved, notes)
}

func (s *service) Dismiss(ctx context.Context, adminID, reportID int, notes string) (*Report, error) {
	return s.close(ctx, adminID, reportID, StatusDismissed, notes)
}

func (s *service) close(ctx context.Context, adminID, reportID int, toStatus, notes string) (*Report, error) {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	closed, err := s.repo.Close(ctx, reportID, adminID, toStatus, notes)
	if err != nil {
		return nil, err
	}

	metrics.RecordReport(toStatus)
	return closed, nil
}
