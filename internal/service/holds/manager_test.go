package holds

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
)

type fixedTime struct {
	mu  sync.Mutex
	now time.Time
}

func (p *fixedTime) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *fixedTime) set(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func at(hour, min int) time.Time {
	return time.Date(2025, 10, 15, hour, min, 0, 0, time.UTC)
}

func heldBooking(t *testing.T, repo *bookingRepo.MemoryRepository, deadline time.Time) *domain.Booking {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.Booking{
		Customer: domain.Customer{FullName: "Иван Петров", Phone: "+79991234567", Guests: 4},
		Span:     domain.TimeSpan{Start: at(18, 0), End: at(20, 0)},
		Status:   domain.StatusDraft,
	})
	require.NoError(t, err)

	require.NoError(t, domain.Transition(created, domain.StatusPendingReview, &deadline))
	require.NoError(t, repo.Update(context.Background(), created))
	return created
}

func newManager(t *testing.T, repo *bookingRepo.MemoryRepository, interval time.Duration, clock TimeProvider, onExpired ExpiryObserver) *Manager {
	t.Helper()
	m, err := NewManager(repo, interval, time.UTC, onExpired, nil, nopLogger{})
	require.NoError(t, err)
	if clock != nil {
		m.timeProvider = clock
	}
	return m
}

func TestNewManager_InvalidInterval(t *testing.T) {
	_, err := NewManager(bookingRepo.NewMemoryRepository(), 0, time.UTC, nil, nil, nopLogger{})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestManager_ExpiresOverdueHold(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	clock := &fixedTime{now: at(12, 0)}

	expired := make(chan int64, 1)
	m := newManager(t, repo, 10*time.Millisecond, clock, func(id int64) {
		expired <- id
	})

	held := heldBooking(t, repo, at(12, 30))

	m.Start()
	defer m.Stop()

	// Пока дедлайн не наступил, метла заявку не трогает
	time.Sleep(50 * time.Millisecond)
	got, err := repo.GetByID(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, got.Status)

	// Сдвигаем часы за дедлайн: ближайший тик должен погасить холд
	clock.set(at(12, 31))

	select {
	case id := <-expired:
		assert.Equal(t, held.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not expire the overdue hold")
	}

	got, err = repo.GetByID(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
	assert.Nil(t, got.HoldDeadline)
}

func TestManager_StartIsIdempotent(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	clock := &fixedTime{now: at(13, 0)}

	var mu sync.Mutex
	seen := make(map[int64]int)
	m := newManager(t, repo, 10*time.Millisecond, clock, func(id int64) {
		mu.Lock()
		seen[id]++
		mu.Unlock()
	})

	held := heldBooking(t, repo, at(12, 30))

	m.Start()
	m.Start()
	defer m.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen[held.ID] > 0
	}, 2*time.Second, 10*time.Millisecond)

	// Повторный Start не поднял второй цикл: заявка погашена ровно один раз
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, seen[held.ID])
}

func TestManager_StopBlocksUntilLoopExits(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	m := newManager(t, repo, 10*time.Millisecond, nil, nil)

	m.Start()
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	t.Run("stop on stopped manager is a no-op", func(t *testing.T) {
		m.Stop()
	})

	t.Run("manager can be restarted after stop", func(t *testing.T) {
		m.Start()
		m.Stop()
	})
}

func TestManager_ConcurrentStop(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	m := newManager(t, repo, 10*time.Millisecond, nil, nil)

	// Канал остановки должен закрываться ровно один раз, сколько бы
	// горутин ни вызвало Stop одновременно
	for i := 0; i < 50; i++ {
		m.Start()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Stop()
			}()
		}
		wg.Wait()
	}
}
