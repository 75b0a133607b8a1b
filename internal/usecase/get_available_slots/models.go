package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// Settings параметры движка доступности, фиксируются при старте сервиса
type Settings struct {
	Location        *time.Location
	OpenTime        types.TimeString // локальное время открытия
	CloseTime       types.TimeString // локальное время закрытия; раньше открытия = переход через полночь
	Step            time.Duration    // шаг кандидатов
	DefaultDuration time.Duration
	AllowedDuration []time.Duration // пустой список = любая положительная длительность
	PreBuffer       time.Duration   // уборка перед бронированием
	PostBuffer      time.Duration   // уборка после бронирования
	VisibleFrom     types.TimeString // презентационный фильтр часов; "" = без фильтра
	VisibleTo       types.TimeString
}

// Request модель запроса свободных слотов
type Request struct {
	Date            time.Time // дата (время внутри дня игнорируется)
	DurationMinutes int       // 0 = длительность по умолчанию
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date  time.Time
	Slots []Slot
}

// Slot свободный слот для бронирования
type Slot struct {
	StartsAt time.Time
	EndsAt   time.Time
}
