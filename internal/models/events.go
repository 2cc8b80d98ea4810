package models

import "time"

// NATS event types
const (
	EventSessionReserved  = "session.reserved"
	EventSessionCheckedIn = "session.checked_in"
	EventSessionPaused    = "session.paused"
	EventSessionResumed   = "session.resumed"
	EventSessionCompleted = "session.completed"
	EventSessionCancelled = "session.cancelled"
	EventWalletCredited   = "wallet.credited"
)

// SessionEvent is the common payload for session lifecycle events. It
// carries the snapshot fields the consumers need to build notifications
// without a read back to the database.
type SessionEvent struct {
	SessionID        string    `json:"session_id"`
	ParkingSpaceID   string    `json:"parking_space_id"`
	ParkingSpaceName string    `json:"parking_space_name"`
	DriverID         string    `json:"driver_id"`
	DriverName       string    `json:"driver_name"`
	OperatorID       string    `json:"operator_id"`
	BookingCode      string    `json:"booking_code"`
	Timestamp        time.Time `json:"timestamp"`
}

// SessionCompletedEvent carries the final billing breakdown computed at
// checkout. Amounts are kobo.
type SessionCompletedEvent struct {
	SessionEvent
	TotalHours         int   `json:"total_hours"`
	TotalAmount        int64 `json:"total_amount"`
	DiscountAmount     int64 `json:"discount_amount"`
	FinalAmount        int64 `json:"final_amount"`
	PlatformCommission int64 `json:"platform_commission"`
	OperatorEarnings   int64 `json:"operator_earnings"`
}

// SessionCancelledEvent represents a cancellation, either by the driver or
// by the reservation expiration job
type SessionCancelledEvent struct {
	SessionEvent
	Reason string `json:"reason"`
}

// WalletCreditedEvent represents a wallet credit (operator earnings or
// driver top-up)
type WalletCreditedEvent struct {
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	SessionID *string   `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
