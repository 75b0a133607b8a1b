package domain

import "errors"

var (
	// ErrInvalidInterval возвращается при попытке создать интервал с end <= start
	ErrInvalidInterval = errors.New("domain: interval end must be after start")

	// ErrInvalidStatus возвращается для статуса вне закрытого перечисления
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("domain: invalid status transition")

	// ErrInvalidPhone возвращается, когда телефон не удалось нормализовать
	ErrInvalidPhone = errors.New("domain: invalid phone number")

	// ErrInvalidGuests возвращается при количестве гостей вне допустимого диапазона
	ErrInvalidGuests = errors.New("domain: guest count out of range")

	// ErrInvalidFullName возвращается при пустом или слишком длинном имени
	ErrInvalidFullName = errors.New("domain: invalid full name")
)
