package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"epark/internal/config"
	"epark/internal/database"
	"epark/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// testRepos connects to the Postgres configured through the usual DB_*
// env vars. Gated so the package tests stay runnable without a database.
func testRepos(t *testing.T) *Repositories {
	t.Helper()
	if os.Getenv("TEST_DATABASE") == "" {
		t.Skip("set TEST_DATABASE=1 to run database tests against a local Postgres")
	}

	cfg := config.Load()
	db, err := database.Connect(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return NewRepositories(db)
}

func createTestUser(t *testing.T, repos *Repositories, userType string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s@epark.test", uuid.New().String()),
		PasswordHash: "0000000000000000000000000000000000000000000000000000000000000000",
		FullName:     "Test User",
		UserType:     userType,
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func createTestSpace(t *testing.T, repos *Repositories, operatorID string, total int) *models.ParkingSpace {
	t.Helper()
	space := &models.ParkingSpace{
		Name:            "Test Garage",
		Area:            "Yaba",
		Address:         "1 Test Close",
		TotalSpaces:     total,
		AvailableSpaces: total,
		Amenities:       pq.StringArray{"cctv"},
		PricePerHour:    50000,
		Latitude:        6.5,
		Longitude:       3.37,
		QRCode:          "epark:space:" + uuid.New().String(),
		Status:          "active",
		OperatorID:      operatorID,
	}
	require.NoError(t, repos.Spaces.Create(context.Background(), space))
	return space
}

func createTestSession(t *testing.T, repos *Repositories, space *models.ParkingSpace, driver, operator *models.User, status string) *models.ParkingSession {
	t.Helper()
	sess := &models.ParkingSession{
		ID:                  uuid.New().String(),
		ParkingSpaceID:      space.ID,
		ParkingSpaceName:    space.Name,
		ParkingSpaceAddress: space.Address,
		DriverID:            driver.ID,
		DriverName:          driver.FullName,
		DriverEmail:         driver.Email,
		VehiclePlate:        "LAG-123-XY",
		OperatorID:          operator.ID,
		OperatorEmail:       operator.Email,
		BookingCode:         "EPK-TEST-" + uuid.New().String()[:8],
		ReservedAt:          time.Now(),
		HourlyRate:          space.PricePerHour,
		Status:              models.SessionReserved,
		PaymentStatus:       "pending",
	}
	require.NoError(t, repos.Sessions.Create(context.Background(), sess))

	if status != models.SessionReserved {
		now := time.Now()
		sess.CheckInTime = &now
		sess.Status = status
		ok, err := repos.Sessions.UpdateFromStatus(context.Background(), sess, models.SessionReserved)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return sess
}

// A settlement event can be delivered more than once. The operator must
// be paid exactly once per session no matter how often the credit runs.
func TestCreditSessionEarningsOnce(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	operator := createTestUser(t, repos, models.UserTypeOperator)
	driver := createTestUser(t, repos, models.UserTypeDriver)
	space := createTestSpace(t, repos, operator.ID, 3)
	sess := createTestSession(t, repos, space, driver, operator, models.SessionCompleted)

	earnings := func() *models.WalletTransaction {
		return &models.WalletTransaction{
			UserID:      operator.ID,
			Amount:      85000,
			Type:        "credit",
			Method:      "session",
			Description: "Earnings from session at " + space.Name,
			Reference:   sess.BookingCode,
			Status:      "completed",
			SessionID:   &sess.ID,
		}
	}

	applied, err := repos.Wallet.Credit(ctx, earnings())
	require.NoError(t, err)
	require.True(t, applied)

	// Redelivery of the same settlement.
	applied, err = repos.Wallet.Credit(ctx, earnings())
	require.NoError(t, err)
	require.False(t, applied)

	balance, err := repos.Wallet.GetBalance(ctx, operator.ID)
	require.NoError(t, err)
	require.Equal(t, int64(85000), balance)

	txns, err := repos.Wallet.ListByUser(ctx, operator.ID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, int64(85000), txns[0].BalanceAfter)
}

// Top-ups have no session id, so repeated funding is never mistaken for
// a duplicate settlement.
func TestCreditTopUpsAccumulate(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	driver := createTestUser(t, repos, models.UserTypeDriver)

	for i := 0; i < 2; i++ {
		txn := &models.WalletTransaction{
			UserID:      driver.ID,
			Amount:      100000,
			Type:        "credit",
			Method:      "card",
			Description: "Wallet top-up",
			Reference:   uuid.New().String(),
			Status:      "completed",
		}
		applied, err := repos.Wallet.Credit(ctx, txn)
		require.NoError(t, err)
		require.True(t, applied)
	}

	balance, err := repos.Wallet.GetBalance(ctx, driver.ID)
	require.NoError(t, err)
	require.Equal(t, int64(200000), balance)
}

// Reservations do not hold slots; checked-in sessions do. A drifted
// counter is put back to total minus the open checked-in sessions.
func TestReconcileAvailability(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	operator := createTestUser(t, repos, models.UserTypeOperator)
	driver := createTestUser(t, repos, models.UserTypeDriver)
	space := createTestSpace(t, repos, operator.ID, 3)

	createTestSession(t, repos, space, driver, operator, models.SessionActive)
	createTestSession(t, repos, space, driver, operator, models.SessionPaused)
	createTestSession(t, repos, space, driver, operator, models.SessionReserved)
	createTestSession(t, repos, space, driver, operator, models.SessionCompleted)

	// Counter was never decremented for the two checked-in sessions,
	// as if both releases and claims raced or failed.
	require.NoError(t, repos.Spaces.ReconcileAvailability(ctx, space.ID))

	fresh, err := repos.Spaces.GetByID(ctx, space.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	require.Equal(t, 1, fresh.AvailableSpaces)
}
