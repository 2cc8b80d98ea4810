package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"epark/internal/models"
	"epark/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleSessionReserved(m *stan.Msg) {
	var event models.SessionEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal session reserved event", "error", err)
		return
	}

	ctx := context.Background()

	h.notify(ctx, event.DriverID, "Reservation confirmed", "session",
		fmt.Sprintf("Your spot at %s is reserved. Booking code: %s", event.ParkingSpaceName, event.BookingCode))
	h.notify(ctx, event.OperatorID, "New reservation", "session",
		fmt.Sprintf("%s reserved a spot at %s", event.DriverName, event.ParkingSpaceName))

	m.Ack()
}

func (h *Handlers) HandleSessionCheckedIn(m *stan.Msg) {
	var event models.SessionEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal session checked in event", "error", err)
		return
	}

	ctx := context.Background()

	h.notify(ctx, event.DriverID, "Parking session started", "session",
		fmt.Sprintf("You are checked in at %s. Billing has started.", event.ParkingSpaceName))
	h.notify(ctx, event.OperatorID, "Driver checked in", "session",
		fmt.Sprintf("%s checked in at %s", event.DriverName, event.ParkingSpaceName))

	m.Ack()
}

func (h *Handlers) HandleSessionPaused(m *stan.Msg) {
	var event models.SessionEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal session paused event", "error", err)
		return
	}

	h.notify(context.Background(), event.DriverID, "Session paused", "session",
		fmt.Sprintf("Your session at %s is paused. You are not being billed.", event.ParkingSpaceName))

	m.Ack()
}

func (h *Handlers) HandleSessionResumed(m *stan.Msg) {
	var event models.SessionEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal session resumed event", "error", err)
		return
	}

	h.notify(context.Background(), event.DriverID, "Session resumed", "session",
		fmt.Sprintf("Your session at %s has resumed. Billing restarted.", event.ParkingSpaceName))

	m.Ack()
}

// HandleSessionCompleted credits the operator's share of the settled
// amount and sends both parties their receipts. If the credit fails the
// message is not acked and will be redelivered; a redelivery that finds
// the credit already recorded skips the payout and just resends the
// receipts.
func (h *Handlers) HandleSessionCompleted(m *stan.Msg) {
	var event models.SessionCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal session completed event", "error", err)
		return
	}

	ctx := context.Background()

	txn := &models.WalletTransaction{
		UserID:      event.OperatorID,
		Amount:      event.OperatorEarnings,
		Type:        "credit",
		Method:      "session",
		Description: fmt.Sprintf("Earnings from session at %s", event.ParkingSpaceName),
		Reference:   event.BookingCode,
		Status:      "completed",
		SessionID:   &event.SessionID,
	}
	applied, err := h.repos.Wallet.Credit(ctx, txn)
	if err != nil {
		slog.Error("Failed to credit operator earnings",
			"error", err, "session_id", event.SessionID, "operator_id", event.OperatorID)
		return
	}
	if !applied {
		slog.Info("Operator earnings already credited, skipping payout",
			"session_id", event.SessionID, "booking_code", event.BookingCode)
	}

	h.notify(ctx, event.DriverID, "Parking session completed", "session",
		fmt.Sprintf("Your session at %s is complete. %d hour(s), total ₦%s.",
			event.ParkingSpaceName, event.TotalHours, models.Naira(event.FinalAmount)))
	h.notify(ctx, event.OperatorID, "You earned money", "wallet",
		fmt.Sprintf("You earned ₦%s from %s's session at %s.",
			models.Naira(event.OperatorEarnings), event.DriverName, event.ParkingSpaceName))

	m.Ack()
}

func (h *Handlers) HandleSessionCancelled(m *stan.Msg) {
	var event models.SessionCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal session cancelled event", "error", err)
		return
	}

	ctx := context.Background()

	h.notify(ctx, event.DriverID, "Session cancelled", "session",
		fmt.Sprintf("Your session at %s was cancelled (%s). No charge.", event.ParkingSpaceName, event.Reason))
	h.notify(ctx, event.OperatorID, "Reservation cancelled", "session",
		fmt.Sprintf("%s's session at %s was cancelled (%s).", event.DriverName, event.ParkingSpaceName, event.Reason))

	m.Ack()
}

func (h *Handlers) HandleWalletCredited(m *stan.Msg) {
	var event models.WalletCreditedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal wallet credited event", "error", err)
		return
	}

	h.notify(context.Background(), event.UserID, "Wallet credited", "wallet",
		fmt.Sprintf("Your wallet was credited with ₦%s.", models.Naira(event.Amount)))

	m.Ack()
}

func (h *Handlers) notify(ctx context.Context, userID, title, kind, message string) {
	if userID == "" {
		return
	}

	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}
	if err := h.repos.Notifications.Create(ctx, n); err != nil {
		slog.Error("Failed to create notification",
			"error", err, "user_id", userID, "title", title)
	}
}
