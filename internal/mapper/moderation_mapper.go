package mapper

import (
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
)

// ModerationMapper covers reports and feature requests.
type ModerationMapper struct {
	users *UserMapper
}

func NewModerationMapper() *ModerationMapper {
	return &ModerationMapper{users: NewUserMapper()}
}

func (m *ModerationMapper) ReportToEntity(r *model.Report) *entity.Report {
	if r == nil {
		return nil
	}
	return &entity.Report{
		Id:           r.Id,
		UserId:       r.UserId,
		ReportedBy:   r.ReportedBy,
		Reason:       r.Reason,
		Description:  r.Description,
		AdminNote:    r.AdminNote,
		Status:       entity.ReportStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		ReportedUser: m.users.ToEntity(r.ReportedUser),
		Reporter:     m.users.ToEntity(r.Reporter),
	}
}

func (m *ModerationMapper) ReportToModel(r *entity.Report) *model.Report {
	return &model.Report{
		Id:          r.Id,
		UserId:      r.UserId,
		ReportedBy:  r.ReportedBy,
		Reason:      r.Reason,
		Description: r.Description,
		AdminNote:   r.AdminNote,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (m *ModerationMapper) ReportsToEntities(reports []*model.Report) []*entity.Report {
	out := make([]*entity.Report, len(reports))
	for i, r := range reports {
		out[i] = m.ReportToEntity(r)
	}
	return out
}

func (m *ModerationMapper) FeatureRequestToEntity(f *model.FeatureRequest) *entity.FeatureRequest {
	if f == nil {
		return nil
	}
	return &entity.FeatureRequest{
		Id:          f.Id,
		UserId:      f.UserId,
		Title:       f.Title,
		Description: f.Description,
		Status:      entity.FeatureRequestStatus(f.Status),
		AdminNote:   f.AdminNote,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *ModerationMapper) FeatureRequestToModel(f *entity.FeatureRequest) *model.FeatureRequest {
	return &model.FeatureRequest{
		Id:          f.Id,
		UserId:      f.UserId,
		Title:       f.Title,
		Description: f.Description,
		Status:      string(f.Status),
		AdminNote:   f.AdminNote,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *ModerationMapper) FeatureRequestsToEntities(items []*model.FeatureRequest) []*entity.FeatureRequest {
	out := make([]*entity.FeatureRequest, len(items))
	for i, f := range items {
		out[i] = m.FeatureRequestToEntity(f)
	}
	return out
}
