package holds

import "errors"

var (
	// ErrInvalidInterval возвращается при неположительном интервале обхода
	ErrInvalidInterval = errors.New("holds: sweep interval must be positive")
)
