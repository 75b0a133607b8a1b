package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FullName        string   `json:"fullName"`
	Phone           string   `json:"phone"`
	Guests          int      `json:"guests"`
	StartsAt        string   `json:"startsAt"` // RFC 3339
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	Services        []string `json:"services,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"fullName"`
	Phone        string   `json:"phone"`
	Guests       int      `json:"guests"`
	StartsAt     string   `json:"startsAt"`
	EndsAt       string   `json:"endsAt"`
	Status       string   `json:"status"`
	HoldDeadline string   `json:"holdDeadline"`
	Services     []string `json:"services,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(originChatID int64) (*createBooking.Request, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		FullName:        r.FullName,
		Phone:           r.Phone,
		Guests:          r.Guests,
		StartsAt:        startsAt,
		DurationMinutes: r.DurationMinutes,
		Services:        r.Services,
		OriginChatID:    originChatID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.ID,
		FullName:     resp.Customer.FullName,
		Phone:        resp.Customer.Phone,
		Guests:       resp.Customer.Guests,
		StartsAt:     resp.StartsAt.Format(time.RFC3339),
		EndsAt:       resp.EndsAt.Format(time.RFC3339),
		Status:       resp.Status,
		HoldDeadline: resp.HoldDeadline.Format(time.RFC3339),
		Services:     resp.Services,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
