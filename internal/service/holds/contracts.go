package holds

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	SweepExpiredHolds(ctx context.Context, now time.Time) ([]int64, error)
}

// ExpiryObserver получает id заявки, переведенной меткой в expired.
// Вызывается вне блокировок хранилища, после фиксации перехода.
type ExpiryObserver func(bookingID int64)

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
