package dto

import (
	"time"

	"github.com/google/uuid"
)

type EventListRequest struct {
	PageQuery
	Category string `query:"category"`
	Upcoming bool   `query:"upcoming"`
}

type EventRequest struct {
	CategoryId  *uuid.UUID `json:"category_id"`
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	Venue       string     `json:"venue" validate:"required,max=200"`
	Address     string     `json:"address" validate:"omitempty,max=500"`
	Latitude    *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64   `json:"longitude" validate:"omitempty,longitude"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      time.Time  `json:"ends_at" validate:"required,gtfield=StartsAt"`
	TicketPrice int64      `json:"ticket_price" validate:"gte=0"`
	Capacity    int        `json:"capacity" validate:"gt=0"`
	ImageURL    string     `json:"image_url" validate:"omitempty,url"`
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published cancelled completed"`
}

type EventResponse struct {
	Id           uuid.UUID  `json:"id"`
	OrganizerId  uuid.UUID  `json:"organizer_id"`
	CategoryId   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Venue        string     `json:"venue"`
	Address      string     `json:"address,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	TicketPrice  int64      `json:"ticket_price"`
	Capacity     int        `json:"capacity"`
	BookedCount  int        `json:"booked_count"`
	Remaining    int        `json:"remaining"`
	ImageURL     string     `json:"image_url,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CategoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type CouponResponse struct {
	Id          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Type        string     `json:"type"`
	Value       int64      `json:"value"`
	MinAmount   int64      `json:"min_amount"`
	MaxDiscount *int64     `json:"max_discount,omitempty"`
	UsageLimit  int        `json:"usage_limit"`
	UsedCount   int        `json:"used_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

type GeocodeResult struct {
	Formatted string  `json:"formatted"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
	Postcode  string  `json:"postcode,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GeocodeResponse struct {
	Query   string          `json:"query"`
	Results []GeocodeResult `json:"results"`
}
