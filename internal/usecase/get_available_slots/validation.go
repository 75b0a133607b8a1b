package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be non-negative", ErrInvalidInput)
	}
	return nil
}

// resolveDuration выбирает длительность: явную из запроса или по умолчанию,
// сверяясь со списком допустимых
func resolveDuration(req *Request, settings Settings) (time.Duration, error) {
	duration := settings.DefaultDuration
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}

	if len(settings.AllowedDuration) == 0 {
		return duration, nil
	}
	for _, allowed := range settings.AllowedDuration {
		if duration == allowed {
			return duration, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, duration)
}
