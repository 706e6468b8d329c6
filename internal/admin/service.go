package admin

import (
	"context"

	"chargerbnb/internal/charger"
	"chargerbnb/internal/email"
	"chargerbnb/internal/logger"
	"chargerbnb/internal/metrics"
	"chargerbnb/internal/report"
	"chargerbnb/internal/user"
)

type Service interface {
	ListUsers(ctx context.Context, role string) ([]user.User, error)
	ListChargers(ctx context.Context, filter charger.ListFilter) ([]charger.Charger, error)
	ApproveCharger(ctx context.Context, adminID, chargerID int, notes string) (*charger.Charger, error)
	SuspendCharger(ctx context.Context, adminID, chargerID int, notes string) (*charger.Charger, error)
	ListReports(ctx context.Context, status string) ([]report.ReportWithCharger, error)
	ResolveReport(ctx context.Context, adminID, reportID int, notes string) (*report.Report, error)
	DismissReport(ctx context.Context, adminID, reportID int, notes string) (*report.Report, error)
	ListActions(ctx context.Context, limit int) ([]AdminAction, error)
}

type service struct {
	repo           Repository
	chargerService charger.Service
	reportService  report.Service
	userRepo       user.Repository
	emailService   *email.Service
}

func NewService(repo Repository, chargerService charger.Service, reportService report.Service, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		repo:           repo,
		chargerService: chargerService,
		reportService:  reportService,
		userRepo:       userRepo,
		emailService:   emailService,
	}
}

func (s *service) ListUsers(ctx context.Context, role string) ([]user.User, error) {
	if role == "" {
		return s.userRepo.ListAll(ctx)
	}
	return s.userRepo.ListByRole(ctx, role)
}

func (s *service) ListChargers(ctx context.Context, filter charger.ListFilter) ([]charger.Charger, error) {
	return s.chargerService.List(ctx, filter)
}

func (s *service) ApproveCharger(ctx context.Context, adminID, chargerID int, notes string) (*charger.Charger, error) {
	ch, err := s.chargerService.Approve(ctx, chargerID)
	if err != nil {
		return nil, err
	}

	metrics.RecordChargerModeration("approve")
	s.audit(ctx, adminID, ActionApproveCharger, "charger", chargerID, notes)
	s.notifyHost(ctx, ch)

	return ch, nil
}

func (s *service) SuspendCharger(ctx context.Context, adminID, chargerID int, notes string) (*charger.Charger, error) {
	ch, err := s.chargerService.Suspend(ctx, chargerID)
	if err != nil {
		return nil, err
	}

	metrics.RecordChargerModeration("suspend")
	s.audit(ctx, adminID, ActionSuspendCharger, "charger", chargerID, notes)
	s.notifyHost(ctx, ch)

	return ch, nil
}

func (s *service) ListReports(ctx context.Context, status string) ([]report.ReportWithCharger, error) {
	return s.reportService.List(ctx, status)
}

func (s *service) ResolveReport(ctx context.Context, adminID, reportID int, notes string) (*report.Report, error) {
	rp, err := s.reportService.Resolve(ctx, adminID, reportID, notes)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, ActionResolveReport, "report", reportID, notes)
	return rp, nil
}

func (s *service) DismissReport(ctx context.Context, adminID, reportID int, notes string) (*report.Report, error) {
	rp, err := s.reportService.Dismiss(ctx, adminID, reportID, notes)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, ActionDismissReport, "report", reportID, notes)
	return rp, nil
}

func (s *service) ListActions(ctx context.Context, limit int) ([]AdminAction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListActions(ctx, limit)
}

// The audit trail must not block the moderation itself; a failed insert is
// logged and the decision stands.
func (s *service) audit(ctx context.Context, adminID int, action, targetType string, targetID int, notes string) {
	_, err := s.repo.RecordAction(ctx, &AdminAction{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Notes:      notes,
	})
	if err != nil {
		logger.Errorf("Failed to record admin action %s on %s %d: %v", action, targetType, targetID, err)
	}
}

func (s *service) notifyHost(ctx context.Context, ch *charger.Charger) {
	host, err := s.userRepo.FindByID(ctx, ch.HostID)
	if err != nil {
		logger.Errorf("Failed to load host %d for moderation email: %v", ch.HostID, err)
		return
	}
	s.emailService.SendChargerModerated(ctx, host.Email, host.FullName(), ch.Title, charger.ApprovalState(*ch))
}
