package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных анкеты
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidInterval возвращается при некорректном временном интервале
	ErrInvalidInterval = errors.New("invalid booking interval")

	// ErrInvalidDuration возвращается, когда длительность не входит в список допустимых
	ErrInvalidDuration = errors.New("duration is not allowed")

	// ErrSlotConflict возвращается, когда интервал пересекается с активным
	// бронированием. Не ретраится: клиент должен выбрать другое время.
	ErrSlotConflict = errors.New("slot conflicts with an existing booking")

	// ErrServiceNotFound возвращается, когда запрошенная услуга отсутствует в справочнике
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда запрошенная услуга выключена
	ErrServiceInactive = errors.New("service is not active")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
