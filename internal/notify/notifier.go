package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
)

// Notifier планировщик предупреждений и рассылка уведомлений.
//
// Предупреждение о скором истечении холда взводится таймером на момент
// "дедлайн минус запас". В момент срабатывания заявка перечитывается из
// хранилища: если администратор уже принял решение или метла успела
// погасить холд, предупреждение молча пропускается. Перезапуск процесса
// теряет взведенные таймеры, но не корректность: сами холды живут в
// хранилище и гасятся метлой независимо.
//
// Все отправки best-effort: ошибки транспорта логируются и не
// распространяются к вызывающему коду.
type Notifier struct {
	bookingRepo  BookingRepository
	sender       Sender
	warnBefore   time.Duration
	location     *time.Location
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger

	mu      sync.Mutex
	timers  map[int64]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

// NewNotifier создает планировщик уведомлений. Метрики опциональны (nil - не пишем).
func NewNotifier(
	bookingRepo BookingRepository,
	sender Sender,
	warnBefore time.Duration,
	location *time.Location,
	m *metrics.Metrics,
	logger Logger,
) *Notifier {
	return &Notifier{
		bookingRepo:  bookingRepo,
		sender:       sender,
		warnBefore:   warnBefore,
		location:     location,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
		timers:       make(map[int64]*time.Timer),
	}
}

// ScheduleHoldWarning взводит предупреждение о скором истечении холда.
// Повторный вызов для той же заявки перевзводит таймер.
func (n *Notifier) ScheduleHoldWarning(bookingID int64) {
	booking, err := n.bookingRepo.GetByID(context.Background(), bookingID)
	if err != nil {
		n.logger.Error("Notifier: failed to get booking id=%d for warning: %v", bookingID, err)
		return
	}
	if !booking.IsOnHold() {
		n.logger.Warn("Notifier: booking id=%d is not on hold, warning not scheduled", bookingID)
		return
	}

	// Момент срабатывания: дедлайн минус запас, но не в прошлом
	delay := booking.HoldDeadline.Add(-n.warnBefore).Sub(n.timeProvider.Now())
	if delay < 0 {
		delay = 0
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return
	}
	if old, ok := n.timers[bookingID]; ok {
		if old.Stop() {
			n.wg.Done()
		}
	}

	n.wg.Add(1)
	n.timers[bookingID] = time.AfterFunc(delay, func() {
		defer n.wg.Done()
		n.fireHoldWarning(bookingID)
	})

	n.logger.Info("Notifier: hold warning for booking id=%d armed in %s", bookingID, delay.Round(time.Second))
}

// CancelHoldWarning снимает взведенное предупреждение. Вызов для заявки
// без таймера безопасен.
func (n *Notifier) CancelHoldWarning(bookingID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	timer, ok := n.timers[bookingID]
	if !ok {
		return
	}
	delete(n.timers, bookingID)
	if timer.Stop() {
		// Колбек уже не выполнится, возвращаем его долг wg
		n.wg.Done()
	}
	n.logger.Info("Notifier: hold warning for booking id=%d cancelled", bookingID)
}

// fireHoldWarning тело таймера: перечитывает заявку и шлет предупреждение,
// только если она все еще ждет решения
func (n *Notifier) fireHoldWarning(bookingID int64) {
	n.mu.Lock()
	delete(n.timers, bookingID)
	n.mu.Unlock()

	ctx := context.Background()
	booking, err := n.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		n.logger.Error("Notifier: failed to re-read booking id=%d on warning: %v", bookingID, err)
		n.observeWarning("error")
		return
	}
	if !booking.IsOnHold() {
		n.logger.Info("Notifier: booking id=%d already resolved (%s), warning skipped", bookingID, booking.Status)
		n.observeWarning("skipped")
		return
	}

	text := fmt.Sprintf(msgHoldWarning,
		booking.ID,
		booking.Customer.FullName,
		booking.Span.Start.In(n.location).Format(domain.TimeFormat),
		booking.Span.End.In(n.location).Format(domain.TimeFormat),
		booking.HoldDeadline.In(n.location).Format(domain.TimeFormat),
	)
	if err := n.sender.SendAdminAlert(ctx, text); err != nil {
		n.logger.Error("Notifier: failed to send hold warning for booking id=%d: %v", bookingID, err)
		n.observeWarning("error")
		return
	}

	n.logger.Info("Notifier: hold warning for booking id=%d sent", bookingID)
	n.observeWarning("sent")
}

// NotifyNewBooking сообщает администраторам о новой заявке на холде
func (n *Notifier) NotifyNewBooking(b *domain.Booking) {
	if b.HoldDeadline == nil {
		n.logger.Warn("Notifier: booking id=%d has no hold deadline, new booking alert skipped", b.ID)
		return
	}

	text := fmt.Sprintf(msgNewBooking,
		b.ID,
		b.Customer.FullName,
		b.Customer.Phone,
		b.Customer.Guests,
		b.Span.Start.In(n.location).Format(domain.TimeFormat),
		b.Span.End.In(n.location).Format(domain.TimeFormat),
		b.HoldDeadline.In(n.location).Format(domain.TimeFormat),
	)
	if n.metrics != nil {
		n.metrics.BookingsCreatedTotal.WithLabelValues(string(b.Status)).Inc()
	}
	if err := n.sender.SendAdminAlert(context.Background(), text); err != nil {
		n.logger.Error("Notifier: failed to send new booking alert for id=%d: %v", b.ID, err)
	}
}

// NotifyExpired сообщает администраторам и клиенту, что холд заявки истек.
// Вызывается метлой холдов после перевода заявки в expired.
func (n *Notifier) NotifyExpired(bookingID int64) {
	n.CancelHoldWarning(bookingID)

	ctx := context.Background()
	booking, err := n.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		n.logger.Error("Notifier: failed to get expired booking id=%d: %v", bookingID, err)
		return
	}

	if err := n.sender.SendAdminAlert(ctx, fmt.Sprintf(msgHoldExpiredAdmin, booking.ID)); err != nil {
		n.logger.Error("Notifier: failed to send expiry alert for booking id=%d: %v", booking.ID, err)
	}
	if booking.OriginChatID != 0 {
		if err := n.sender.SendClientMessage(ctx, booking.OriginChatID, fmt.Sprintf(msgHoldExpiredClient, booking.ID)); err != nil {
			n.logger.Error("Notifier: failed to send expiry message to client for booking id=%d: %v", booking.ID, err)
		}
	}
}

// NotifyResolution сообщает клиенту решение по его заявке
func (n *Notifier) NotifyResolution(b *domain.Booking) {
	if b.OriginChatID == 0 {
		return
	}

	var text string
	switch b.Status {
	case domain.StatusConfirmed:
		text = fmt.Sprintf(msgConfirmedClient,
			b.ID,
			b.Span.Start.In(n.location).Format(domain.DateFormat),
			b.Span.Start.In(n.location).Format(domain.TimeFormat),
		)
	case domain.StatusCancelledByAdmin:
		text = fmt.Sprintf(msgRejectedClient, b.ID)
	case domain.StatusCancelledByClient:
		text = fmt.Sprintf(msgCancelledClient, b.ID)
	default:
		// no_show и прочие терминальные статусы клиенту не сообщаем
		return
	}

	if err := n.sender.SendClientMessage(context.Background(), b.OriginChatID, text); err != nil {
		n.logger.Error("Notifier: failed to send resolution message for booking id=%d: %v", b.ID, err)
	}
}

// Stop снимает все взведенные таймеры и дожидается завершения уже
// сработавших колбеков. После Stop новые предупреждения не взводятся.
func (n *Notifier) Stop() {
	n.mu.Lock()
	n.stopped = true
	for id, timer := range n.timers {
		delete(n.timers, id)
		if timer.Stop() {
			n.wg.Done()
		}
	}
	n.mu.Unlock()

	n.wg.Wait()
	n.logger.Info("Notifier: stopped")
}

func (n *Notifier) observeWarning(result string) {
	if n.metrics != nil {
		n.metrics.HoldWarningsTotal.WithLabelValues(result).Inc()
	}
}
