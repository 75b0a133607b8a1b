package domain

import (
	"time"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusDraft             BookingStatus = "draft"
	StatusPendingReview     BookingStatus = "pending_review"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCancelledByClient BookingStatus = "cancelled_by_client"
	StatusCancelledByAdmin  BookingStatus = "cancelled_by_admin"
	StatusExpired           BookingStatus = "expired"
	StatusNoShow            BookingStatus = "no_show"
)

// Valid проверяет, что статус принадлежит закрытому перечислению
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusConfirmed,
		StatusCancelledByClient, StatusCancelledByAdmin, StatusExpired, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal проверяет, что статус финальный: из него переходов нет
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusCancelledByClient, StatusCancelledByAdmin,
		StatusExpired, StatusNoShow:
		return true
	}
	return false
}

// IsActive проверяет, что бронирование блокирует слот для новых заявок
func (s BookingStatus) IsActive() bool {
	return s == StatusConfirmed || s == StatusPendingReview
}

// Customer клиент, сделавший заявку. Иммутабелен после захвата анкеты,
// отдельного жизненного цикла не имеет - живет внутри Booking.
type Customer struct {
	FullName string
	Phone    string // нормализованный, см. NormalizePhone
	Guests   int    // 1..MaxGuests
}

// Booking заявка на бронирование слота
type Booking struct {
	ID           int64 // присваивается хранилищем при вставке, 0 до этого
	Customer     Customer
	Span         TimeSpan
	Status       BookingStatus
	HoldDeadline *time.Time // установлен тогда и только тогда, когда Status == pending_review
	OriginChatID int64      // внешний идентификатор канала (чат клиента)
	Services     []string   // имена услуг, прикрепленных при создании
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOnHold проверяет, что заявка находится на холде
func (b *Booking) IsOnHold() bool {
	return b.Status == StatusPendingReview && b.HoldDeadline != nil
}

// Transition единственная точка смены статуса бронирования.
// Правила:
//   - draft -> pending_review: требуется дедлайн холда
//   - pending_review -> любой терминальный: дедлайн сбрасывается
//   - из терминального статуса переходов нет
//
// Все остальные комбинации отклоняются с ErrInvalidTransition.
func Transition(b *Booking, target BookingStatus, holdDeadline *time.Time) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}

	switch {
	case b.Status == StatusDraft && target == StatusPendingReview:
		if holdDeadline == nil {
			return ErrInvalidTransition
		}
		b.Status = StatusPendingReview
		b.HoldDeadline = holdDeadline
		return nil

	case b.Status == StatusPendingReview && target.IsTerminal():
		b.Status = target
		b.HoldDeadline = nil
		return nil

	default:
		return ErrInvalidTransition
	}
}

// SetHold переводит заявку на холд с дедлайном now + hold
func SetHold(b *Booking, now time.Time, hold time.Duration) error {
	deadline := now.Add(hold)
	return Transition(b, StatusPendingReview, &deadline)
}
