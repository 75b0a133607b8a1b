package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/service"
)

// validateRequest валидирует анкету и собирает доменного клиента
func validateRequest(req *Request) (domain.Customer, error) {
	customer, err := domain.NewCustomer(req.FullName, req.Phone, req.Guests)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.StartsAt.IsZero() {
		return domain.Customer{}, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 {
		return domain.Customer{}, fmt.Errorf("%w: duration must be non-negative", ErrInvalidInput)
	}
	return customer, nil
}

// resolveDuration выбирает длительность: явную из запроса или по умолчанию
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

// validateServices проверяет, что все запрошенные услуги существуют и активны
func validateServices(ctx context.Context, catalog ServiceCatalog, names []string) error {
	for _, name := range names {
		s, err := catalog.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return fmt.Errorf("%w: %q", ErrServiceNotFound, name)
			}
			return fmt.Errorf("%w: failed to get service %q: %v", ErrInternal, name, err)
		}
		if !s.IsActive {
			return fmt.Errorf("%w: %q", ErrServiceInactive, name)
		}
	}
	return nil
}
