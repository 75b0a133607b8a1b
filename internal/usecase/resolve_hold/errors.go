package resolve_hold

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrBookingNotFound возвращается, когда заявка не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyResolved возвращается, когда заявка уже не на холде:
	// администратор успел принять решение или холд истек по таймеру
	ErrAlreadyResolved = errors.New("booking is already resolved")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
