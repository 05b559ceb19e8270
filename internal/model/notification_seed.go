package model

import "gorm.io/datatypes"

var (
	webOnly     = datatypes.JSON(`["web"]`)
	webAndEmail = datatypes.JSON(`["web","email"]`)
)

// DefaultNotificationTypes is the registry seeded into a fresh database.
// Codes match the domain events published by the admin and booking flows.
func DefaultNotificationTypes() []NotificationType {
	return []NotificationType{
		{Code: "REPORT_CREATED", DisplayName: "New user report", Template: "{reporter_name} reported {reported_name}: {reason}", TargetType: TargetAdmin, Priority: "HIGH", Channels: webOnly, IsActive: true},
		{Code: "REPORT_STATUS_UPDATED", DisplayName: "Report updated", Template: "Your report about {reported_name} is now {status}", TargetType: TargetSelf, Priority: "MEDIUM", Channels: webOnly, IsActive: true},
		{Code: "BOOKING_CONFIRMED", DisplayName: "Booking confirmed", Template: "You're going to {event_title}! {quantity} ticket(s) confirmed.", TargetType: TargetSelf, Priority: "HIGH", Channels: webAndEmail, IsActive: true},
		{Code: "BOOKING_CANCELLED", DisplayName: "Booking cancelled", Template: "Your booking for {event_title} was cancelled.", TargetType: TargetSelf, Priority: "MEDIUM", Channels: webOnly, IsActive: true},
		{Code: "EVENT_BOOKED", DisplayName: "New booking", Template: "{quantity} ticket(s) sold for {event_title}", TargetType: TargetSelf, Priority: "MEDIUM", Channels: webOnly, IsActive: true},
		{Code: "WALLET_CREDITED", DisplayName: "Wallet credited", Template: "{description}. New balance: {balance}", TargetType: TargetSelf, Priority: "MEDIUM", Channels: webOnly, IsActive: true},
		{Code: "FEATURE_REQUEST_CREATED", DisplayName: "New feature request", Template: "New feature request: {title}", TargetType: TargetAdmin, Priority: "LOW", Channels: webOnly, IsActive: true},
		{Code: "FEATURE_REQUEST_UPDATED", DisplayName: "Feature request updated", Template: "Your request \"{title}\" is now {status}", TargetType: TargetSelf, Priority: "LOW", Channels: webOnly, IsActive: true},
		{Code: "USER_REGISTERED", DisplayName: "New user", Template: "{full_name} joined as {role}", TargetType: TargetAdmin, Priority: "LOW", Channels: webOnly, IsActive: true},
		{Code: "USER_BLOCKED", DisplayName: "Account blocked", Template: "Your account has been blocked by an administrator.", TargetType: TargetSelf, Priority: "HIGH", Channels: webAndEmail, IsActive: true},
		{Code: "SYSTEM_BROADCAST", DisplayName: "Announcement", Template: "{message}", TargetType: TargetBroadcast, Priority: "MEDIUM", Channels: webOnly, IsActive: true},
	}
}
