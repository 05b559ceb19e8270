package implementation

import (
	"context"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/mapper"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ModerationMapper
}

func NewReportRepository(db *gorm.DB) contract.ReportRepository {
	return &ReportRepositoryImpl{db: db, mapper: mapper.NewModerationMapper()}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *entity.Report) error {
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Omit("ReportedUser", "Reporter").Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ReportToEntity(m)
	return nil
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, report *entity.Report) error {
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Omit("ReportedUser", "Reporter").Save(m).Error; err != nil {
		return err
	}
	reported, reporter := report.ReportedUser, report.Reporter
	*report = *r.mapper.ReportToEntity(m)
	report.ReportedUser, report.Reporter = reported, reporter
	return nil
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Report{}).Error
}

func (r *ReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Report, error) {
	var m model.Report
	found, err := first(r.db.WithContext(ctx).Preload("ReportedUser").Preload("Reporter"), &m, specs...)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ReportToEntity(&m), nil
}

func (r *ReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Report, error) {
	var models []*model.Report
	query := applySpecifications(r.db.WithContext(ctx).Preload("ReportedUser").Preload("Reporter"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ReportsToEntities(models), nil
}

func (r *ReportRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count(r.db.WithContext(ctx), &model.Report{}, specs...)
}
