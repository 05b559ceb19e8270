package dto

import (
	"github.com/google/uuid"
)

// --- Moderation ---

type ReportListRequest struct {
	PageQuery
	Status string `query:"status"`
}

type UpdateReportStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending reviewed resolved dismissed"`
	AdminNote string `json:"admin_note" validate:"omitempty,max=1000"`
}

// --- Catalog ---

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool  `json:"is_active"`
}

type CouponRequest struct {
	Code        string `json:"code" validate:"required,alphanum,min=3,max=32"`
	Type        string `json:"type" validate:"required,oneof=percentage fixed"`
	Value       int64  `json:"value" validate:"gt=0"`
	MinAmount   int64  `json:"min_amount" validate:"gte=0"`
	MaxDiscount *int64 `json:"max_discount" validate:"omitempty,gt=0"`
	UsageLimit  int    `json:"usage_limit" validate:"gte=0"`
	ExpiresAt   string `json:"expires_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsActive    *bool  `json:"is_active"`
}

// --- Users ---

type AdminUserListRequest struct {
	PageQuery
	Role   string `query:"role"`
	Status string `query:"status"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

// --- Bookings and feature requests ---

type AdminBookingListRequest struct {
	PageQuery
	Status string `query:"status"`
}

type FeatureRequestListRequest struct {
	PageQuery
	Status string `query:"status"`
}

type UpdateFeatureRequestStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending planned in_progress completed rejected"`
	AdminNote string `json:"admin_note" validate:"omitempty,max=1000"`
}

// --- Wallets and broadcast ---

type WalletCreditRequest struct {
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

// --- Dashboard ---

type DashboardStats struct {
	TotalUsers     int64             `json:"total_users"`
	TotalEvents    int64             `json:"total_events"`
	TotalBookings  int64             `json:"total_bookings"`
	TotalRevenue   int64             `json:"total_revenue"`
	OpenReports    int64             `json:"open_reports"`
	RecentBookings []BookingResponse `json:"recent_bookings"`
}

type RevenuePoint struct {
	Month    string `json:"month"`
	Revenue  int64  `json:"revenue"`
	Bookings int64  `json:"bookings"`
}

type TopEventResponse struct {
	EventId     uuid.UUID `json:"event_id"`
	Title       string    `json:"title"`
	TicketsSold int64     `json:"tickets_sold"`
	Revenue     int64     `json:"revenue"`
}
