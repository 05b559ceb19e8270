package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Recorded is one call captured by Recorder.
type Recorded struct {
	Type   string
	UserId uuid.UUID
	Data   map[string]interface{}
}

// Recorder keeps published events in memory. Managers and services are
// tested against it instead of a broker.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(eventType string, userId uuid.UUID, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Type: eventType, UserId: userId, Data: data})
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the recorded event codes in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}

func (r *Recorder) PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, role string) {
	r.add(UserRegistered, userId, map[string]interface{}{"email": email, "full_name": fullName, "role": role})
}

func (r *Recorder) PublishUserBlocked(ctx context.Context, userId, adminId uuid.UUID, fullName string) {
	r.add(UserBlocked, userId, map[string]interface{}{"actor_id": adminId, "full_name": fullName})
}

func (r *Recorder) PublishReportCreated(ctx context.Context, reportId, reportedId, reporterId uuid.UUID, reportedName, reporterName, reason string) {
	r.add(ReportCreated, reporterId, map[string]interface{}{
		"report_id": reportId, "reported_id": reportedId, "reported_name": reportedName,
		"reporter_name": reporterName, "reason": reason,
	})
}

func (r *Recorder) PublishReportStatusUpdated(ctx context.Context, reportId, reporterId, adminId uuid.UUID, reportedName, status string) {
	r.add(ReportStatusUpdated, reporterId, map[string]interface{}{
		"report_id": reportId, "actor_id": adminId, "reported_name": reportedName, "status": status,
	})
}

func (r *Recorder) PublishBookingConfirmed(ctx context.Context, bookingId, userId, organizerId uuid.UUID, eventTitle string, quantity int, total int64) {
	r.add(BookingConfirmed, userId, map[string]interface{}{
		"booking_id": bookingId, "organizer_id": organizerId, "event_title": eventTitle, "quantity": quantity, "total": total,
	})
}

func (r *Recorder) PublishBookingCancelled(ctx context.Context, bookingId, userId uuid.UUID, eventTitle string, refunded int64) {
	r.add(BookingCancelled, userId, map[string]interface{}{"booking_id": bookingId, "event_title": eventTitle, "refunded": refunded})
}

func (r *Recorder) PublishWalletCredited(ctx context.Context, userId, transactionId uuid.UUID, amount, balance int64, description string) {
	r.add(WalletCredited, userId, map[string]interface{}{
		"transaction_id": transactionId, "amount": amount, "balance": balance, "description": description,
	})
}

func (r *Recorder) PublishFeatureRequestCreated(ctx context.Context, requestId, userId uuid.UUID, title string) {
	r.add(FeatureRequestCreated, userId, map[string]interface{}{"request_id": requestId, "title": title})
}

func (r *Recorder) PublishFeatureRequestUpdated(ctx context.Context, requestId, userId uuid.UUID, title, status string) {
	r.add(FeatureRequestUpdated, userId, map[string]interface{}{"request_id": requestId, "title": title, "status": status})
}

func (r *Recorder) PublishBroadcast(ctx context.Context, adminId uuid.UUID, title, message string) {
	r.add(SystemBroadcast, adminId, map[string]interface{}{"title": title, "message": message})
}
