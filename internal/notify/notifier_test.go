package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
)

type spySender struct {
	mu       sync.Mutex
	alerts   []string
	personal map[int64][]string
}

func newSpySender() *spySender {
	return &spySender{personal: make(map[int64][]string)}
}

func (s *spySender) SendAdminAlert(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, text)
	return nil
}

func (s *spySender) SendClientMessage(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personal[chatID] = append(s.personal[chatID], text)
	return nil
}

func (s *spySender) alertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

func (s *spySender) alert(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts[i]
}

func (s *spySender) clientMessages(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.personal[chatID]...)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func heldBooking(t *testing.T, repo *bookingRepo.MemoryRepository, hold time.Duration) *domain.Booking {
	t.Helper()
	start := time.Now().Add(6 * time.Hour)
	created, err := repo.Create(context.Background(), &domain.Booking{
		Customer:     domain.Customer{FullName: "Иван Петров", Phone: "+79991234567", Guests: 4},
		Span:         domain.TimeSpan{Start: start, End: start.Add(2 * time.Hour)},
		Status:       domain.StatusDraft,
		OriginChatID: 555,
	})
	require.NoError(t, err)

	require.NoError(t, domain.SetHold(created, time.Now(), hold))
	require.NoError(t, repo.Update(context.Background(), created))
	return created
}

func TestScheduleHoldWarning_Fires(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	sender := newSpySender()
	// Запас больше холда: таймер схлопывается в ноль и срабатывает сразу
	n := NewNotifier(repo, sender, time.Hour, time.UTC, nil, nopLogger{})
	defer n.Stop()

	held := heldBooking(t, repo, 30*time.Minute)
	n.ScheduleHoldWarning(held.ID)

	require.Eventually(t, func() bool {
		return sender.alertCount() > 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, sender.alert(0), "ждет решения")
}

func TestScheduleHoldWarning_NoopWhenResolved(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	sender := newSpySender()
	n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})
	defer n.Stop()

	// Холд 100мс, предупреждение взводится на момент дедлайна
	held := heldBooking(t, repo, 100*time.Millisecond)
	n.ScheduleHoldWarning(held.ID)

	// Администратор подтверждает заявку до срабатывания таймера
	require.NoError(t, domain.Transition(held, domain.StatusConfirmed, nil))
	require.NoError(t, repo.Update(context.Background(), held))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, sender.alertCount(), "warning must be a no-op for a resolved booking")
}

func TestCancelHoldWarning(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	sender := newSpySender()
	n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})

	held := heldBooking(t, repo, time.Hour)
	n.ScheduleHoldWarning(held.ID)
	n.CancelHoldWarning(held.ID)

	t.Run("cancel for unknown booking is safe", func(t *testing.T) {
		n.CancelHoldWarning(999)
	})

	// Stop не зависает на снятом таймере
	done := make(chan struct{})
	go func() {
		n.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after CancelHoldWarning")
	}
	assert.Zero(t, sender.alertCount())
}

func TestScheduleHoldWarning_NotOnHold(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	sender := newSpySender()
	n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})
	defer n.Stop()

	held := heldBooking(t, repo, time.Hour)
	require.NoError(t, domain.Transition(held, domain.StatusConfirmed, nil))
	require.NoError(t, repo.Update(context.Background(), held))

	// Для разрешенной заявки таймер даже не взводится
	n.ScheduleHoldWarning(held.ID)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sender.alertCount())
}

func TestNotifyExpired(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	sender := newSpySender()
	n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})
	defer n.Stop()

	held := heldBooking(t, repo, time.Hour)
	_, err := repo.SweepExpiredHolds(context.Background(), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	n.NotifyExpired(held.ID)

	require.Equal(t, 1, sender.alertCount())
	assert.Contains(t, sender.alert(0), "холд истек")

	personal := sender.clientMessages(555)
	require.Len(t, personal, 1)
	assert.Contains(t, personal[0], "не была подтверждена")
}

func TestNotifyResolution(t *testing.T) {
	tests := []struct {
		status   domain.BookingStatus
		fragment string
	}{
		{domain.StatusConfirmed, "подтверждена"},
		{domain.StatusCancelledByAdmin, "отклонена"},
		{domain.StatusCancelledByClient, "отменена"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo := bookingRepo.NewMemoryRepository()
			sender := newSpySender()
			n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})
			defer n.Stop()

			held := heldBooking(t, repo, time.Hour)
			require.NoError(t, domain.Transition(held, tt.status, nil))

			n.NotifyResolution(held)

			personal := sender.clientMessages(555)
			require.Len(t, personal, 1)
			assert.True(t, strings.Contains(personal[0], tt.fragment),
				"message %q must mention %q", personal[0], tt.fragment)
		})
	}

	t.Run("no_show is not reported to the client", func(t *testing.T) {
		repo := bookingRepo.NewMemoryRepository()
		sender := newSpySender()
		n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})
		defer n.Stop()

		held := heldBooking(t, repo, time.Hour)
		require.NoError(t, domain.Transition(held, domain.StatusNoShow, nil))

		n.NotifyResolution(held)
		assert.Empty(t, sender.clientMessages(555))
	})
}

func TestNotifyNewBooking(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	sender := newSpySender()
	n := NewNotifier(repo, sender, 0, time.UTC, nil, nopLogger{})
	defer n.Stop()

	held := heldBooking(t, repo, time.Hour)
	n.NotifyNewBooking(held)

	require.Equal(t, 1, sender.alertCount())
	assert.Contains(t, sender.alert(0), "Новая заявка")
	assert.Contains(t, sender.alert(0), "+79991234567")
}
