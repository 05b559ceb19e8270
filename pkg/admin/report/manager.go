package report

import (
	"context"
	"fmt"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"

	"github.com/google/uuid"
)

const AlreadyReportedMessage = "You have already reported this user"

// Manager is the moderation service for user reports.
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
	}
}

// Create files a report by reporterId. One report per (reported, reporter) pair.
func (m *Manager) Create(ctx context.Context, uow unitofwork.UnitOfWork, reporterId uuid.UUID, req dto.CreateReportRequest) (*entity.Report, error) {
	if req.UserId == reporterId {
		return nil, serverutils.BadRequest("You cannot report yourself")
	}

	reported, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if reported == nil {
		return nil, serverutils.NotFound("Reported user not found")
	}

	existing, err := uow.ReportRepository().FindOne(ctx, specification.ReportPair{UserID: req.UserId, ReportedBy: reporterId})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.BadRequest(AlreadyReportedMessage)
	}

	now := time.Now()
	report := &entity.Report{
		Id:          uuid.New(),
		UserId:      req.UserId,
		ReportedBy:  reporterId,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      entity.ReportStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		// Lost the race against a concurrent identical report.
		if serverutils.IsUniqueViolation(err) {
			return nil, serverutils.BadRequest(AlreadyReportedMessage)
		}
		return nil, err
	}
	report.ReportedUser = reported

	reporterName := ""
	if reporter, _ := uow.UserRepository().FindOne(ctx, specification.ByID{ID: reporterId}); reporter != nil {
		reporterName = reporter.FullName
		report.Reporter = reporter
	}

	m.logger.Info("MODERATION", "Report created", map[string]interface{}{
		"report_id":   report.Id.String(),
		"user_id":     report.UserId.String(),
		"reported_by": reporterId.String(),
	})
	m.publisher.PublishReportCreated(ctx, report.Id, report.UserId, reporterId, reported.FullName, reporterName, report.Reason)

	return report, nil
}

// List returns one page of reports, newest first.
func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, req dto.ReportListRequest) ([]*entity.Report, int64, error) {
	req.Normalize()

	filters := []specification.Specification{
		specification.ByStatus{Status: req.Status},
		specification.ReportSearch{Term: req.Search},
	}

	total, err := uow.ReportRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(req.Page, req.Limit),
	)
	reports, err := uow.ReportRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (m *Manager) Get(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Report, error) {
	report, err := uow.ReportRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, serverutils.NotFound("Report not found")
	}
	return report, nil
}

// UpdateStatus moves a report along its workflow. Re-sending the current
// status only updates the admin note.
func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, id, adminId uuid.UUID, req dto.UpdateReportStatusRequest) (*entity.Report, error) {
	report, err := m.Get(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	next := entity.ReportStatus(req.Status)
	changed := next != report.Status
	if changed && !report.CanTransitionTo(next) {
		return nil, serverutils.BadRequest(fmt.Sprintf("Cannot change report status from %s to %s", report.Status, next))
	}

	report.Status = next
	if req.AdminNote != "" {
		report.AdminNote = req.AdminNote
	}
	report.UpdatedAt = time.Now()

	if err := uow.ReportRepository().Update(ctx, report); err != nil {
		return nil, err
	}

	if changed {
		reportedName := ""
		if report.ReportedUser != nil {
			reportedName = report.ReportedUser.FullName
		}
		m.publisher.PublishReportStatusUpdated(ctx, report.Id, report.ReportedBy, adminId, reportedName, string(next))
	}
	return report, nil
}

func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) error {
	if _, err := m.Get(ctx, uow, id); err != nil {
		return err
	}

	m.logger.Info("MODERATION", "Deleted report", map[string]interface{}{"report_id": id.String()})
	return uow.ReportRepository().Delete(ctx, id)
}
