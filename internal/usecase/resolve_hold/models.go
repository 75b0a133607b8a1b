package resolve_hold

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Action решение по заявке, находящейся на холде
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionNoShow  Action = "no_show"
)

// targetStatus возвращает целевой статус для решения
func (a Action) targetStatus() (domain.BookingStatus, bool) {
	switch a {
	case ActionConfirm:
		return domain.StatusConfirmed, true
	case ActionReject:
		return domain.StatusCancelledByAdmin, true
	case ActionCancel:
		return domain.StatusCancelledByClient, true
	case ActionNoShow:
		return domain.StatusNoShow, true
	default:
		return "", false
	}
}

// Request модель запроса на решение по заявке
type Request struct {
	BookingID int64
	Action    Action
}

// Response модель ответа с заявкой после решения
type Response struct {
	ID       int64
	Customer domain.Customer
	StartsAt time.Time
	EndsAt   time.Time
	Status   string
	Services []string
}
