package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FullName  string `json:"full_name" validate:"required,min=3"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type CreateReportRequest struct {
	UserId      uuid.UUID `json:"user_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
}

type ReportUserSummary struct {
	Id       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type ReportResponse struct {
	Id           uuid.UUID          `json:"id"`
	UserId       uuid.UUID          `json:"user_id"`
	ReportedBy   uuid.UUID          `json:"reported_by"`
	Reason       string             `json:"reason"`
	Description  string             `json:"description,omitempty"`
	AdminNote    string             `json:"admin_note,omitempty"`
	Status       string             `json:"status"`
	ReportedUser *ReportUserSummary `json:"reported_user,omitempty"`
	Reporter     *ReportUserSummary `json:"reporter,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type CreateFeatureRequestRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
}

type FeatureRequestResponse struct {
	Id          uuid.UUID `json:"id"`
	UserId      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AdminNote   string    `json:"admin_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WalletResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WalletTransactionResponse struct {
	Id           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	Reference    string    `json:"reference,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CancelBookingResponse struct {
	Booking  BookingResponse `json:"booking"`
	Refunded int64           `json:"refunded"`
}
