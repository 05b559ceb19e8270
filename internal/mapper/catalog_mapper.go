package mapper

import (
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
)

// CatalogMapper converts the organizer-facing catalog: events, categories and coupons.
type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) EventToEntity(e *model.Event) *entity.Event {
	if e == nil {
		return nil
	}
	ev := &entity.Event{
		Id:          e.Id,
		OrganizerId: e.OrganizerId,
		CategoryId:  e.CategoryId,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Address:     e.Address,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		TicketPrice: e.TicketPrice,
		Capacity:    e.Capacity,
		BookedCount: e.BookedCount,
		ImageURL:    e.ImageURL,
		Status:      entity.EventStatus(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Category != nil {
		ev.CategoryName = e.Category.Name
	}
	return ev
}

func (m *CatalogMapper) EventToModel(e *entity.Event) *model.Event {
	return &model.Event{
		Id:          e.Id,
		OrganizerId: e.OrganizerId,
		CategoryId:  e.CategoryId,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Address:     e.Address,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		TicketPrice: e.TicketPrice,
		Capacity:    e.Capacity,
		BookedCount: e.BookedCount,
		ImageURL:    e.ImageURL,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *CatalogMapper) EventsToEntities(events []*model.Event) []*entity.Event {
	out := make([]*entity.Event, len(events))
	for i, e := range events {
		out[i] = m.EventToEntity(e)
	}
	return out
}

func (m *CatalogMapper) CategoryToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CatalogMapper) CategoryToModel(c *entity.Category) *model.Category {
	return &model.Category{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CatalogMapper) CategoriesToEntities(categories []*model.Category) []*entity.Category {
	out := make([]*entity.Category, len(categories))
	for i, c := range categories {
		out[i] = m.CategoryToEntity(c)
	}
	return out
}

func (m *CatalogMapper) CouponToEntity(c *model.Coupon) *entity.Coupon {
	if c == nil {
		return nil
	}
	return &entity.Coupon{
		Id:          c.Id,
		Code:        c.Code,
		Description: c.Description,
		Type:        entity.CouponType(c.Type),
		Value:       c.Value,
		MinAmount:   c.MinAmount,
		MaxDiscount: c.MaxDiscount,
		UsageLimit:  c.UsageLimit,
		UsedCount:   c.UsedCount,
		ExpiresAt:   c.ExpiresAt,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CatalogMapper) CouponToModel(c *entity.Coupon) *model.Coupon {
	return &model.Coupon{
		Id:          c.Id,
		Code:        c.Code,
		Description: c.Description,
		Type:        string(c.Type),
		Value:       c.Value,
		MinAmount:   c.MinAmount,
		MaxDiscount: c.MaxDiscount,
		UsageLimit:  c.UsageLimit,
		UsedCount:   c.UsedCount,
		ExpiresAt:   c.ExpiresAt,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CatalogMapper) CouponsToEntities(coupons []*model.Coupon) []*entity.Coupon {
	out := make([]*entity.Coupon, len(coupons))
	for i, c := range coupons {
		out[i] = m.CouponToEntity(c)
	}
	return out
}
