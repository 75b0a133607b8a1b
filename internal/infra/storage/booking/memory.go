package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// MemoryRepository потокобезопасное in-memory хранилище бронирований.
// Единственный разделяемый мутабельный ресурс ядра: обработчики запросов,
// фоновая метла холдов и планировщик предупреждений ходят сюда конкурентно,
// поэтому всё состояние закрыто одним мьютексом.
//
// Идентификаторы выдаются монотонной последовательностью и никогда
// не переиспользуются.
type MemoryRepository struct {
	mu    sync.Mutex
	seq   int64
	items map[int64]*domain.Booking
}

// NewMemoryRepository создает пустое in-memory хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[int64]*domain.Booking),
	}
}

// clone копирует бронирование вместе со слайсом услуг,
// чтобы вызывающий код не мог менять хранимое состояние мимо Update
func clone(b *domain.Booking) *domain.Booking {
	c := *b
	if b.HoldDeadline != nil {
		deadline := *b.HoldDeadline
		c.HoldDeadline = &deadline
	}
	if b.Services != nil {
		c.Services = append([]string(nil), b.Services...)
	}
	return &c
}

// Create сохраняет бронирование, присваивая ему свежий id,
// и возвращает сохраненную копию
func (r *MemoryRepository) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stored := clone(b)
	stored.ID = r.seq
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.items[stored.ID] = stored
	return clone(stored), nil
}

// GetByID возвращает бронирование по id
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return clone(stored), nil
}

// List возвращает все бронирования, отсортированные по id
func (r *MemoryRepository) List(_ context.Context) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Booking, 0, len(r.items))
	for _, b := range r.items {
		result = append(result, clone(b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update заменяет сохраненную запись с id бронирования.
// Неизвестный id - ошибка вызывающего кода, ErrBookingNotFound.
func (r *MemoryRepository) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[b.ID]
	if !ok {
		return ErrBookingNotFound
	}

	updated := clone(b)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	r.items[b.ID] = updated
	return nil
}

// ListForSpan возвращает бронирования, пересекающиеся с интервалом,
// без фильтра по статусу, отсортированные по началу
func (r *MemoryRepository) ListForSpan(_ context.Context, span domain.TimeSpan) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.items {
		if domain.Overlaps(b.Span, span) {
			result = append(result, clone(b))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Span.Start.Before(result[j].Span.Start) })
	return result, nil
}

// Conflicts возвращает все бронирования со статусом confirmed или
// pending_review, чьи интервалы реально пересекаются с указанным.
// Граничащие интервалы (end == start) конфликтом не считаются.
func (r *MemoryRepository) Conflicts(_ context.Context, span domain.TimeSpan) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.items {
		if b.Status.IsActive() && domain.Overlaps(b.Span, span) {
			result = append(result, clone(b))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Span.Start.Before(result[j].Span.Start) })
	return result, nil
}

// SweepExpiredHolds атомарно переводит в expired все заявки со статусом
// pending_review и истекшим дедлайном, возвращая их id (каждый ровно один раз).
// Проверка статуса под мьютексом играет роль compare-and-swap: заявка,
// которую обработчик успел разрешить раньше, метлой не трогается.
func (r *MemoryRepository) SweepExpiredHolds(_ context.Context, now time.Time) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expired := make([]int64, 0)
	for _, b := range r.items {
		if b.Status == domain.StatusPendingReview && b.HoldDeadline != nil && !b.HoldDeadline.After(now) {
			if err := domain.Transition(b, domain.StatusExpired, nil); err != nil {
				continue
			}
			b.UpdatedAt = time.Now()
			expired = append(expired, b.ID)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired, nil
}
