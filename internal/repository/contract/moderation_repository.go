package contract

import (
	"context"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	Update(ctx context.Context, report *entity.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Report, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Report, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type FeatureRequestRepository interface {
	Create(ctx context.Context, request *entity.FeatureRequest) error
	Update(ctx context.Context, request *entity.FeatureRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
