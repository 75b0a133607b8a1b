package create_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Settings параметры приема заявок, фиксируются при старте сервиса
type Settings struct {
	Location        *time.Location
	DefaultDuration time.Duration
	AllowedDuration []time.Duration // пустой список = любая положительная длительность
	Hold            time.Duration   // сколько держим слот до решения администратора
}

// Request модель запроса на создание бронирования
type Request struct {
	FullName        string
	Phone           string
	Guests          int
	StartsAt        time.Time
	DurationMinutes int // 0 = длительность по умолчанию
	Services        []string
	OriginChatID    int64
}

// Response модель ответа с созданной заявкой на холде
type Response struct {
	ID           int64
	Customer     domain.Customer
	StartsAt     time.Time
	EndsAt       time.Time
	Status       string
	HoldDeadline time.Time
	Services     []string
	CreatedAt    time.Time
}
