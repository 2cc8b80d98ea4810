package models

import "fmt"

// Naira formats an amount in kobo for display, e.g. 150000 -> "1500.00".
// Rounding to two decimals only ever happens here, at the point of
// presentation; everything upstream is integer kobo.
func Naira(kobo int64) string {
	return fmt.Sprintf("%d.%02d", kobo/100, kobo%100)
}

// RegisterRequest - request body for creating an account
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone"`
	UserType     string `json:"user_type" binding:"omitempty,oneof=driver operator both"`
	VehiclePlate string `json:"vehicle_plate"`
}

// RegisterResponse - response body for a newly created account
type RegisterResponse struct {
	ID string `json:"id"`
}

// CreateSpaceRequest - request body for listing a new parking space
type CreateSpaceRequest struct {
	Name         string   `json:"name" binding:"required"`
	Area         string   `json:"area" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Phone        string   `json:"phone"`
	TotalSpaces  int      `json:"total_spaces" binding:"required,min=1"`
	Amenities    []string `json:"amenities"`
	PricePerHour int64    `json:"price_per_hour" binding:"required,min=1"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	ImageURL     *string  `json:"image_url"`
}

// CreateSpaceResponse - response body for a newly listed space
type CreateSpaceResponse struct {
	ID     string `json:"id"`
	QRCode string `json:"qr_code"`
}

// UpdateSpaceRequest - partial update of a parking space listing
type UpdateSpaceRequest struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	Amenities    []string `json:"amenities"`
	PricePerHour *int64   `json:"price_per_hour"`
	Status       *string  `json:"status"`
	ImageURL     *string  `json:"image_url"`
}

// SpaceResponseItem - a parking space as presented by the API; money is a
// formatted decimal string
type SpaceResponseItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Area            string   `json:"area"`
	Address         string   `json:"address"`
	TotalSpaces     int      `json:"total_spaces"`
	AvailableSpaces int      `json:"available_spaces"`
	Amenities       []string `json:"amenities"`
	PricePerHour    string   `json:"price_per_hour"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Status          string   `json:"status"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
}

// SearchSpacesRequest - query parameters for space search
type SearchSpacesRequest struct {
	Query    string  `form:"query"`
	Area     string  `form:"area"`
	Lat      float64 `form:"lat"`
	Lon      float64 `form:"lon"`
	RadiusKm float64 `form:"radius_km"`
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}

// ReserveSessionRequest - request body for reserving a spot
type ReserveSessionRequest struct {
	ParkingSpaceID string `json:"parking_space_id" binding:"required"`
}

// ReserveSessionResponse - response body for a new reservation
type ReserveSessionResponse struct {
	ID          string `json:"id"`
	BookingCode string `json:"booking_code"`
}

// CheckInRequest - check in a reserved session; the booking code is what
// the QR scan at the lot yields
type CheckInRequest struct {
	BookingCode string `json:"booking_code" binding:"required"`
}

// SessionActionRequest - pause/resume/checkout/cancel an existing session
type SessionActionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// SessionResponseItem - a parking session as presented by the API
type SessionResponseItem struct {
	ID                  string  `json:"id"`
	ParkingSpaceID      string  `json:"parking_space_id"`
	ParkingSpaceName    string  `json:"parking_space_name"`
	ParkingSpaceAddress string  `json:"parking_space_address"`
	VehiclePlate        string  `json:"vehicle_plate"`
	BookingCode         string  `json:"booking_code"`
	Status              string  `json:"status"`
	PaymentStatus       string  `json:"payment_status"`
	ReservedAt          string  `json:"reserved_at"`
	CheckInTime         *string `json:"check_in_time,omitempty"`
	CheckOutTime        *string `json:"check_out_time,omitempty"`
	HourlyRate          string  `json:"hourly_rate"`
	TotalHours          int     `json:"total_hours"`
	TotalAmount         string  `json:"total_amount"`
	DiscountAmount      string  `json:"discount_amount"`
	FinalAmount         string  `json:"final_amount"`
	PlatformCommission  string  `json:"platform_commission"`
	OperatorEarnings    string  `json:"operator_earnings"`
}

// FundWalletRequest - request body for crediting a wallet. Amount is kobo.
type FundWalletRequest struct {
	Amount int64  `json:"amount" binding:"required,min=1"`
	Method string `json:"method"`
}

// WalletResponse - wallet balance plus ledger
type WalletResponse struct {
	Balance      string                  `json:"balance"`
	Transactions []WalletTransactionItem `json:"transactions"`
}

// WalletTransactionItem - one ledger entry as presented by the API
type WalletTransactionItem struct {
	ID           int64  `json:"id"`
	Amount       string `json:"amount"`
	Type         string `json:"type"`
	Method       string `json:"method"`
	Description  string `json:"description"`
	Reference    string `json:"reference"`
	BalanceAfter string `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

// VerifyUserRequest - admin request to set a user's verification flag
type VerifyUserRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Verified *bool  `json:"verified" binding:"required"`
}

// SetDiscountRequest - admin request to grant a user a discount percentage
type SetDiscountRequest struct {
	UserID             string  `json:"user_id" binding:"required"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// SetBonusRequest - admin request to grant a user a bonus percentage
type SetBonusRequest struct {
	UserID          string  `json:"user_id" binding:"required"`
	BonusPercentage float64 `json:"bonus_percentage"`
}

// CreateInviteRequest - operator request to invite a manager by email
type CreateInviteRequest struct {
	Email           string   `json:"email" binding:"required,email"`
	ParkingSpaceIDs []string `json:"parking_space_ids"`
}

// CreateInviteResponse - response body for a new manager invite
type CreateInviteResponse struct {
	ID         string `json:"id"`
	InviteCode string `json:"invite_code"`
	ExpiresAt  string `json:"expires_at"`
}

// AcceptInviteRequest - accept a manager invite by code
type AcceptInviteRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// MarkNotificationsReadRequest - mark notifications as read
type MarkNotificationsReadRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}
