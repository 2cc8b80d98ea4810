package models

import (
	"time"

	"github.com/lib/pq"
)

// Session status values. Transitions between them are owned by the
// session engine; nothing else may move a session between statuses.
const (
	SessionReserved  = "reserved"
	SessionActive    = "active"
	SessionPaused    = "paused"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Payment status values
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// User types
const (
	UserTypeDriver   = "driver"
	UserTypeOperator = "operator"
	UserTypeBoth     = "both"
	UserTypeAdmin    = "admin"
)

// User represents a user in the system
type User struct {
	ID                 string    `json:"id" db:"id"`
	Email              string    `json:"email" db:"email"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	FullName           string    `json:"full_name" db:"full_name"`
	Phone              string    `json:"phone" db:"phone"`
	UserType           string    `json:"user_type" db:"user_type"`
	VehiclePlate       string    `json:"vehicle_plate" db:"vehicle_plate"`
	WalletBalance      int64     `json:"wallet_balance" db:"wallet_balance"`
	IsVerified         bool      `json:"is_verified" db:"is_verified"`
	DiscountPercentage float64   `json:"discount_percentage" db:"discount_percentage"`
	BonusPercentage    float64   `json:"bonus_percentage" db:"bonus_percentage"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// ParkingSpace represents a listed parking location. Monetary fields are
// integer kobo (minor units).
type ParkingSpace struct {
	ID              string         `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Area            string         `json:"area" db:"area"`
	Address         string         `json:"address" db:"address"`
	Phone           string         `json:"phone" db:"phone"`
	TotalSpaces     int            `json:"total_spaces" db:"total_spaces"`
	AvailableSpaces int            `json:"available_spaces" db:"available_spaces"`
	Amenities       pq.StringArray `json:"amenities" db:"amenities"`
	PricePerHour    int64          `json:"price_per_hour" db:"price_per_hour"`
	Latitude        float64        `json:"latitude" db:"latitude"`
	Longitude       float64        `json:"longitude" db:"longitude"`
	QRCode          string         `json:"qr_code" db:"qr_code"`
	Status          string         `json:"status" db:"status"`
	OperatorID      string         `json:"operator_id" db:"operator_id"`
	ImageURL        *string        `json:"image_url" db:"image_url"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// ParkingSession is one driver's occupancy of one parking space from
// reservation through completion or cancellation. Space details are
// snapshotted at reservation time so the session reads consistently even
// if the space record later changes; in particular HourlyRate never
// changes for the life of the session.
//
// Monetary fields are integer kobo. Billing fields are written exactly
// once, at the completed transition, and are immutable afterwards.
type ParkingSession struct {
	ID                  string `json:"id" db:"id"`
	ParkingSpaceID      string `json:"parking_space_id" db:"parking_space_id"`
	ParkingSpaceName    string `json:"parking_space_name" db:"parking_space_name"`
	ParkingSpaceAddress string `json:"parking_space_address" db:"parking_space_address"`
	DriverID            string `json:"driver_id" db:"driver_id"`
	DriverName          string `json:"driver_name" db:"driver_name"`
	DriverEmail         string `json:"driver_email" db:"driver_email"`
	DriverPhone         string `json:"driver_phone" db:"driver_phone"`
	VehiclePlate        string `json:"vehicle_plate" db:"vehicle_plate"`
	OperatorID          string `json:"operator_id" db:"operator_id"`
	OperatorEmail       string `json:"operator_email" db:"operator_email"`
	BookingCode         string `json:"booking_code" db:"booking_code"`

	ReservedAt       time.Time  `json:"reserved_at" db:"reserved_at"`
	CheckInTime      *time.Time `json:"check_in_time" db:"check_in_time"`
	CheckOutTime     *time.Time `json:"check_out_time" db:"check_out_time"`
	PauseTime        *time.Time `json:"pause_time" db:"pause_time"`
	ResumeTime       *time.Time `json:"resume_time" db:"resume_time"`
	CancellationTime *time.Time `json:"cancellation_time" db:"cancellation_time"`

	TotalPausedDurationMs int64 `json:"total_paused_duration_ms" db:"total_paused_duration_ms"`

	HourlyRate         int64   `json:"hourly_rate" db:"hourly_rate"`
	TotalHours         int     `json:"total_hours" db:"total_hours"`
	TotalAmount        int64   `json:"total_amount" db:"total_amount"`
	DiscountPercentage float64 `json:"discount_percentage" db:"discount_percentage"`
	DiscountAmount     int64   `json:"discount_amount" db:"discount_amount"`
	FinalAmount        int64   `json:"final_amount" db:"final_amount"`
	PlatformCommission int64   `json:"platform_commission" db:"platform_commission"`
	OperatorEarnings   int64   `json:"operator_earnings" db:"operator_earnings"`

	Status        string    `json:"status" db:"status"`
	PaymentStatus string    `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Notification represents an in-app notification for a user
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	Link      *string   `json:"link" db:"link"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WalletTransaction is one entry in a user's wallet ledger. Amount is kobo.
type WalletTransaction struct {
	ID           int64     `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Amount       int64     `json:"amount" db:"amount"`
	Type         string    `json:"type" db:"type"` // credit | debit
	Method       string    `json:"method" db:"method"`
	Description  string    `json:"description" db:"description"`
	Reference    string    `json:"reference" db:"reference"`
	Status       string    `json:"status" db:"status"`
	BalanceAfter int64     `json:"balance_after" db:"balance_after"`
	SessionID    *string   `json:"session_id" db:"session_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ManagerInvite is an operator's invitation for a manager to co-run
// parking spaces
type ManagerInvite struct {
	ID              string         `json:"id" db:"id"`
	OperatorID      string         `json:"operator_id" db:"operator_id"`
	OperatorName    string         `json:"operator_name" db:"operator_name"`
	Email           string         `json:"email" db:"email"`
	ParkingSpaceIDs pq.StringArray `json:"parking_space_ids" db:"parking_space_ids"`
	Status          string         `json:"status" db:"status"` // pending | accepted | expired
	InviteCode      string         `json:"invite_code" db:"invite_code"`
	ExpiresAt       time.Time      `json:"expires_at" db:"expires_at"`
	AcceptedAt      *time.Time     `json:"accepted_at" db:"accepted_at"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}
