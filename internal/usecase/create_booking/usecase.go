package create_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// UseCase use case для создания бронирования с постановкой на холд
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      ServiceCatalog
	notifier     HoldNotifier
	txManager    TransactionManager
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog ServiceCatalog,
	notifier HoldNotifier,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		notifier:     notifier,
		txManager:    txManager,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликтов и вставка идут в одной сериализуемой транзакции,
// чтобы два конкурирующих запроса не заняли один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: start=%s, duration=%dm, guests=%d, chat=%d",
		req.StartsAt.Format("2006-01-02 15:04"), req.DurationMinutes, req.Guests, req.OriginChatID)

	// 1. Валидация анкеты клиента
	customer, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Выбираем длительность
	duration, err := resolveDuration(req, uc.settings)
	if err != nil {
		uc.logger.Warn("CreateBooking: duration validation failed: %v", err)
		return nil, err
	}

	// 3. Собираем интервал
	startsAt := req.StartsAt.In(uc.settings.Location)
	span, err := domain.NewTimeSpan(startsAt, startsAt.Add(duration))
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}

	// 4. Проверяем запрошенные услуги по справочнику
	if err := validateServices(ctx, uc.catalog, req.Services); err != nil {
		uc.logger.Warn("CreateBooking: service validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем текущее время
	now := uc.timeProvider.Now().In(uc.settings.Location)

	var result *domain.Booking

	// 6. Критическая секция: конфликты + вставка + постановка на холд
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Проверяем конфликты по "сырым" интервалам: граница к границе -
		// не конфликт, буферы уборки учитываются только при показе доступности
		conflicts, err := uc.bookingRepo.Conflicts(txCtx, span)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: slot conflict, %d overlapping bookings", len(conflicts))
			return ErrSlotConflict
		}

		// 6.2. Вставляем черновик
		draft := &domain.Booking{
			Customer:     customer,
			Span:         span,
			Status:       domain.StatusDraft,
			OriginChatID: req.OriginChatID,
			Services:     req.Services,
		}
		created, err := uc.bookingRepo.Create(txCtx, draft)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 6.3. Сразу переводим на холд: слот занят, ждем решения администратора
		if err := domain.SetHold(created, now, uc.settings.Hold); err != nil {
			uc.logger.Error("CreateBooking: failed to set hold on booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to set hold: %v", ErrInternal, err)
		}
		if err := uc.bookingRepo.Update(txCtx, created); err != nil {
			uc.logger.Error("CreateBooking: failed to persist hold on booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to persist hold: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Вне транзакции: взводим предупреждение и уведомляем администраторов.
	// Обе операции best-effort и не могут откатить уже принятую заявку.
	uc.notifier.ScheduleHoldWarning(result.ID)
	uc.notifier.NotifyNewBooking(result)

	uc.logger.Info("CreateBooking: booking id=%d on hold until %s",
		result.ID, result.HoldDeadline.Format("15:04"))

	return &Response{
		ID:           result.ID,
		Customer:     result.Customer,
		StartsAt:     result.Span.Start,
		EndsAt:       result.Span.End,
		Status:       string(result.Status),
		HoldDeadline: *result.HoldDeadline,
		Services:     result.Services,
		CreatedAt:    result.CreatedAt,
	}, nil
}
