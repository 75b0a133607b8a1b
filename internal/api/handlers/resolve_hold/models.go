package resolve_hold

import (
	"time"

	resolveHold "github.com/m04kA/SMC-VenueBookingService/internal/usecase/resolve_hold"
)

// ResolveHoldRequest HTTP request model
type ResolveHoldRequest struct {
	Action string `json:"action"` // confirm | reject | cancel | no_show
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID       int64    `json:"id"`
	FullName string   `json:"fullName"`
	Phone    string   `json:"phone"`
	Guests   int      `json:"guests"`
	StartsAt string   `json:"startsAt"`
	EndsAt   string   `json:"endsAt"`
	Status   string   `json:"status"`
	Services []string `json:"services,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveHold.Response) *BookingResponse {
	return &BookingResponse{
		ID:       resp.ID,
		FullName: resp.Customer.FullName,
		Phone:    resp.Customer.Phone,
		Guests:   resp.Customer.Guests,
		StartsAt: resp.StartsAt.Format(time.RFC3339),
		EndsAt:   resp.EndsAt.Format(time.RFC3339),
		Status:   resp.Status,
		Services: resp.Services,
	}
}
