package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// UseCase use case для получения свободных слотов на день
type UseCase struct {
	bookingRepo BookingRepository
	settings    Settings
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, settings Settings, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		settings:    settings,
		logger:      logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Результат детерминирован для одинаковых входов; пустой список слотов -
// ожидаемый ответ (например, день полностью занят), не ошибка.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, duration=%dm",
		req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Выбираем длительность
	duration, err := resolveDuration(req, uc.settings)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: duration validation failed: %v", err)
		return nil, err
	}

	// 3. Строим операционное окно дня
	window, err := dayWindow(req.Date, uc.settings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build day window: %v", err)
		return nil, fmt.Errorf("%w: failed to build day window: %v", ErrInternal, err)
	}

	// 4. Забираем активные бронирования вокруг окна.
	// Окно запроса расширено на буферы: бронирование за пределами окна
	// может блокировать его край временем уборки краевого кандидата.
	querySpan := domain.TimeSpan{
		Start: window.Start.Add(-uc.settings.PreBuffer),
		End:   window.End.Add(uc.settings.PostBuffer),
	}
	bookings, err := uc.bookingRepo.Conflicts(ctx, querySpan)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get busy bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get busy bookings: %v", ErrInternal, err)
	}

	// 5. Расширяем занятые интервалы буферами и склеиваем
	busy := expandBusy(bookings, uc.settings)

	// 6. Генерируем свободные начала и применяем видимый диапазон часов
	starts := generateFreeStarts(window, duration, uc.settings.Step, busy)
	starts = filterVisible(starts, uc.settings)

	slots := make([]Slot, len(starts))
	for i, start := range starts {
		slots[i] = Slot{StartsAt: start, EndsAt: start.Add(duration)}
	}

	uc.logger.Info("GetAvailableSlots: %d free slots for %s (busy=%d)",
		len(slots), req.Date.Format(domain.DateFormat), len(busy))

	return &Response{Date: req.Date, Slots: slots}, nil
}
