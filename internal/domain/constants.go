package domain

// Ограничения на анкету клиента
const (
	MinGuests = 1
	MaxGuests = 12

	MaxFullNameLength = 200
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, блокирующие слот для новых бронирований.
// Используется в запросах конфликтов.
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusPendingReview,
}

// TerminalStatuses финальные статусы жизненного цикла заявки
var TerminalStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCancelledByClient,
	StatusCancelledByAdmin,
	StatusExpired,
	StatusNoShow,
}
