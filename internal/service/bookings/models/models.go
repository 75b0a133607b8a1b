package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetDayBookingsRequest запрос на получение бронирований за день
type GetDayBookingsRequest struct {
	Date   time.Time `json:"date"`
	Status *string   `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"fullName"`
	Phone        string   `json:"phone"`
	Guests       int      `json:"guests"`
	StartsAt     string   `json:"startsAt"` // ISO 8601 format
	EndsAt       string   `json:"endsAt"`   // ISO 8601 format
	Status       string   `json:"status"`
	HoldDeadline *string  `json:"holdDeadline,omitempty"` // ISO 8601 format
	Services     []string `json:"services,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:        b.ID,
		FullName:  b.Customer.FullName,
		Phone:     b.Customer.Phone,
		Guests:    b.Customer.Guests,
		StartsAt:  b.Span.Start.Format(time.RFC3339),
		EndsAt:    b.Span.End.Format(time.RFC3339),
		Status:    string(b.Status),
		Services:  b.Services,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.HoldDeadline != nil {
		resp.HoldDeadline = ptr.Ptr(b.HoldDeadline.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
