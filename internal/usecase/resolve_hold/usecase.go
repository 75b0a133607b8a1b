package resolve_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
)

// UseCase use case для решения по заявке на холде
type UseCase struct {
	bookingRepo BookingRepository
	notifier    ResolutionNotifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	notifier ResolutionNotifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case решения по заявке.
// Чтение статуса и переход идут в одной транзакции: если свипер успел
// перевести заявку в expired, администратор получит ErrAlreadyResolved,
// а не молчаливую перезапись статуса.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveHold: booking id=%d, action=%s", req.BookingID, req.Action)

	// 1. Валидация запроса
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	target, ok := req.Action.targetStatus()
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	var result *domain.Booking

	// 2. Критическая секция: чтение + переход + сохранение
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, req.BookingID)
			}
			uc.logger.Error("ResolveHold: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if err := domain.Transition(booking, target, nil); err != nil {
			uc.logger.Warn("ResolveHold: booking id=%d is %s, cannot apply %s",
				req.BookingID, booking.Status, req.Action)
			return fmt.Errorf("%w: booking id=%d is %s", ErrAlreadyResolved, req.BookingID, booking.Status)
		}

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			uc.logger.Error("ResolveHold: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Вне транзакции: снимаем предупреждение и уведомляем клиента.
	// Обе операции best-effort: решение уже сохранено.
	uc.notifier.CancelHoldWarning(result.ID)
	uc.notifier.NotifyResolution(result)

	uc.logger.Info("ResolveHold: booking id=%d resolved to %s", result.ID, result.Status)

	return &Response{
		ID:       result.ID,
		Customer: result.Customer,
		StartsAt: result.Span.Start,
		EndsAt:   result.Span.End,
		Status:   string(result.Status),
		Services: result.Services,
	}, nil
}
