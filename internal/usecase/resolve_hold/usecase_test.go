package resolve_hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBookingService/pkg/memtxmanager"
)

type spyNotifier struct {
	cancelled []int64
	resolved  []domain.BookingStatus
}

func (n *spyNotifier) CancelHoldWarning(bookingID int64) {
	n.cancelled = append(n.cancelled, bookingID)
}

func (n *spyNotifier) NotifyResolution(b *domain.Booking) {
	n.resolved = append(n.resolved, b.Status)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func at(hour, min int) time.Time {
	return time.Date(2025, 10, 15, hour, min, 0, 0, time.UTC)
}

func heldBooking(t *testing.T, repo *bookingRepo.MemoryRepository) *domain.Booking {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.Booking{
		Customer: domain.Customer{FullName: "Иван Петров", Phone: "+79991234567", Guests: 4},
		Span:     domain.TimeSpan{Start: at(18, 0), End: at(20, 0)},
		Status:   domain.StatusDraft,
	})
	require.NoError(t, err)

	require.NoError(t, domain.SetHold(created, at(12, 0), 45*time.Minute))
	require.NoError(t, repo.Update(context.Background(), created))
	return created
}

func TestExecute_ResolveActions(t *testing.T) {
	actions := []struct {
		action Action
		want   domain.BookingStatus
	}{
		{ActionConfirm, domain.StatusConfirmed},
		{ActionReject, domain.StatusCancelledByAdmin},
		{ActionCancel, domain.StatusCancelledByClient},
		{ActionNoShow, domain.StatusNoShow},
	}

	for _, tt := range actions {
		t.Run(string(tt.action), func(t *testing.T) {
			repo := bookingRepo.NewMemoryRepository()
			notifier := &spyNotifier{}
			uc := NewUseCase(repo, notifier, memtxmanager.NewTransactionManager(), nopLogger{})
			held := heldBooking(t, repo)

			resp, err := uc.Execute(context.Background(), &Request{BookingID: held.ID, Action: tt.action})
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), resp.Status)

			stored, err := repo.GetByID(context.Background(), held.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Status)
			assert.Nil(t, stored.HoldDeadline)

			// Предупреждение снято, клиент уведомлен о решении
			assert.Equal(t, []int64{held.ID}, notifier.cancelled)
			assert.Equal(t, []domain.BookingStatus{tt.want}, notifier.resolved)
		})
	}
}

func TestExecute_AlreadyResolved(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	notifier := &spyNotifier{}
	uc := NewUseCase(repo, notifier, memtxmanager.NewTransactionManager(), nopLogger{})
	held := heldBooking(t, repo)

	_, err := uc.Execute(context.Background(), &Request{BookingID: held.ID, Action: ActionConfirm})
	require.NoError(t, err)

	// Второе решение по той же заявке отклоняется, статус не перезаписывается
	_, err = uc.Execute(context.Background(), &Request{BookingID: held.ID, Action: ActionReject})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	stored, err := repo.GetByID(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Len(t, notifier.resolved, 1)
}

func TestExecute_SweptByManagerBeforeDecision(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	uc := NewUseCase(repo, &spyNotifier{}, memtxmanager.NewTransactionManager(), nopLogger{})
	held := heldBooking(t, repo)

	// Метла успела погасить холд раньше администратора
	expired, err := repo.SweepExpiredHolds(context.Background(), at(13, 0))
	require.NoError(t, err)
	require.Equal(t, []int64{held.ID}, expired)

	_, err = uc.Execute(context.Background(), &Request{BookingID: held.ID, Action: ActionConfirm})
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestExecute_Validation(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	uc := NewUseCase(repo, &spyNotifier{}, memtxmanager.NewTransactionManager(), nopLogger{})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: 999, Action: ActionConfirm})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("unknown action", func(t *testing.T) {
		held := heldBooking(t, repo)
		_, err := uc.Execute(context.Background(), &Request{BookingID: held.ID, Action: Action("approve")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-positive id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: 0, Action: ActionConfirm})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
