package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	// Conflicts - авторитет при приеме заявки: активные бронирования,
	// пересекающиеся с запрошенным интервалом
	Conflicts(ctx context.Context, span domain.TimeSpan) ([]*domain.Booking, error)
}

// ServiceCatalog интерфейс справочника услуг
type ServiceCatalog interface {
	GetByName(ctx context.Context, name string) (*domain.Service, error)
}

// HoldNotifier интерфейс планировщика предупреждений и исходящих уведомлений.
// Уведомления best-effort: их сбой не откатывает бронирование.
type HoldNotifier interface {
	ScheduleHoldWarning(bookingID int64)
	NotifyNewBooking(b *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
