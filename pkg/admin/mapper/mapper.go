package mapper

import (
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/repository/contract"
)

// UserToDTO converts an entity to the public user shape
func UserToDTO(u *entity.User) dto.UserDTO {
	if u == nil {
		return dto.UserDTO{}
	}
	res := dto.UserDTO{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
	if u.AvatarURL != nil {
		res.AvatarURL = *u.AvatarURL
	}
	return res
}

func UsersToDTO(users []*entity.User) []dto.UserDTO {
	res := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		res = append(res, UserToDTO(u))
	}
	return res
}

func CategoryToResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func CategoriesToResponse(items []*entity.Category) []dto.CategoryResponse {
	res := make([]dto.CategoryResponse, 0, len(items))
	for _, c := range items {
		res = append(res, CategoryToResponse(c))
	}
	return res
}

func CouponToResponse(c *entity.Coupon) dto.CouponResponse {
	return dto.CouponResponse{
		Id:          c.Id,
		Code:        c.Code,
		Type:        string(c.Type),
		Value:       c.Value,
		MinAmount:   c.MinAmount,
		MaxDiscount: c.MaxDiscount,
		UsageLimit:  c.UsageLimit,
		UsedCount:   c.UsedCount,
		ExpiresAt:   c.ExpiresAt,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func CouponsToResponse(items []*entity.Coupon) []dto.CouponResponse {
	res := make([]dto.CouponResponse, 0, len(items))
	for _, c := range items {
		res = append(res, CouponToResponse(c))
	}
	return res
}

func EventToResponse(e *entity.Event) dto.EventResponse {
	return dto.EventResponse{
		Id:           e.Id,
		OrganizerId:  e.OrganizerId,
		CategoryId:   e.CategoryId,
		CategoryName: e.CategoryName,
		Title:        e.Title,
		Description:  e.Description,
		Venue:        e.Venue,
		Address:      e.Address,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		StartsAt:     e.StartsAt,
		EndsAt:       e.EndsAt,
		TicketPrice:  e.TicketPrice,
		Capacity:     e.Capacity,
		BookedCount:  e.BookedCount,
		Remaining:    e.Remaining(),
		ImageURL:     e.ImageURL,
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
	}
}

func EventsToResponse(items []*entity.Event) []dto.EventResponse {
	res := make([]dto.EventResponse, 0, len(items))
	for _, e := range items {
		res = append(res, EventToResponse(e))
	}
	return res
}

func BookingToResponse(b *entity.Booking) dto.BookingResponse {
	res := dto.BookingResponse{
		Id:               b.Id,
		UserId:           b.UserId,
		EventId:          b.EventId,
		EventTitle:       b.EventTitle,
		Quantity:         b.Quantity,
		UnitPrice:        b.UnitPrice,
		Subtotal:         b.Subtotal,
		Discount:         b.Discount,
		Total:            b.Total,
		Status:           string(b.Status),
		PaymentMethod:    string(b.PaymentMethod),
		PaymentStatus:    string(b.PaymentStatus),
		PaymentReference: b.PaymentReference,
		CreatedAt:        b.CreatedAt,
	}
	if b.CouponCode != nil {
		res.CouponCode = *b.CouponCode
	}
	return res
}

func BookingsToResponse(items []*entity.Booking) []dto.BookingResponse {
	res := make([]dto.BookingResponse, 0, len(items))
	for _, b := range items {
		res = append(res, BookingToResponse(b))
	}
	return res
}

func reportUser(u *entity.User) *dto.ReportUserSummary {
	if u == nil {
		return nil
	}
	return &dto.ReportUserSummary{Id: u.Id, FullName: u.FullName, Email: u.Email}
}

func ReportToResponse(r *entity.Report) dto.ReportResponse {
	return dto.ReportResponse{
		Id:           r.Id,
		UserId:       r.UserId,
		ReportedBy:   r.ReportedBy,
		Reason:       r.Reason,
		Description:  r.Description,
		AdminNote:    r.AdminNote,
		Status:       string(r.Status),
		ReportedUser: reportUser(r.ReportedUser),
		Reporter:     reportUser(r.Reporter),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ReportsToResponse(items []*entity.Report) []dto.ReportResponse {
	res := make([]dto.ReportResponse, 0, len(items))
	for _, r := range items {
		res = append(res, ReportToResponse(r))
	}
	return res
}

func FeatureRequestToResponse(f *entity.FeatureRequest) dto.FeatureRequestResponse {
	return dto.FeatureRequestResponse{
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

func FeatureRequestsToResponse(items []*entity.FeatureRequest) []dto.FeatureRequestResponse {
	res := make([]dto.FeatureRequestResponse, 0, len(items))
	for _, f := range items {
		res = append(res, FeatureRequestToResponse(f))
	}
	return res
}

func WalletToResponse(w *entity.Wallet, currency string) dto.WalletResponse {
	return dto.WalletResponse{
		Id:        w.Id,
		UserId:    w.UserId,
		Balance:   w.Balance,
		Currency:  currency,
		UpdatedAt: w.UpdatedAt,
	}
}

func WalletTransactionsToResponse(items []*entity.WalletTransaction) []dto.WalletTransactionResponse {
	res := make([]dto.WalletTransactionResponse, 0, len(items))
	for _, t := range items {
		res = append(res, dto.WalletTransactionResponse{
			Id:           t.Id,
			Type:         string(t.Type),
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Reference:    t.Reference,
			Description:  t.Description,
			CreatedAt:    t.CreatedAt,
		})
	}
	return res
}

func RevenueToResponse(rows []contract.MonthlyRevenue) []dto.RevenuePoint {
	res := make([]dto.RevenuePoint, 0, len(rows))
	for _, r := range rows {
		res = append(res, dto.RevenuePoint{Month: r.Month, Revenue: r.Revenue, Bookings: r.Bookings})
	}
	return res
}

func TopEventsToResponse(rows []contract.EventSales) []dto.TopEventResponse {
	res := make([]dto.TopEventResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, dto.TopEventResponse{
			EventId:     r.EventId,
			Title:       r.Title,
			TicketsSold: r.TicketsSold,
			Revenue:     r.Revenue,
		})
	}
	return res
}

// LogToListResponse converts a parsed log line. Unparseable timestamps stay zero.
func LogToListResponse(e logger.LogEntry) dto.LogListResponse {
	return dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: parseLogTime(e.Timestamp),
	}
}

func LogToDetailResponse(e logger.LogEntry) dto.LogDetailResponse {
	return dto.LogDetailResponse{
		LogListResponse: LogToListResponse(e),
		Caller:          e.Caller,
		Details:         e.Details,
	}
}

func parseLogTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
