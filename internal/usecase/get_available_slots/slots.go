package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// dayWindow строит операционное окно дня в таймзоне площадки.
// Запрошенный день - календарная дата входного значения как есть:
// конвертация инстанта в таймзону площадки сдвинула бы полночь UTC
// на предыдущие сутки для зон западнее Гринвича.
// Если время закрытия численно не позже открытия, окно переходит
// через полночь на следующий день.
func dayWindow(date time.Time, settings Settings) (domain.TimeSpan, error) {
	start, err := settings.OpenTime.At(date, settings.Location)
	if err != nil {
		return domain.TimeSpan{}, err
	}
	end, err := settings.CloseTime.At(date, settings.Location)
	if err != nil {
		return domain.TimeSpan{}, err
	}

	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return domain.TimeSpan{Start: start, End: end}, nil
}

// expandBusy строит занятую область с учетом буферов уборки.
// Буферы принадлежат кандидату: перед слотом нужен PreBuffer, после -
// PostBuffer. Кандидат [s, e] конфликтует с бронированием [bs, be], когда
// [s-pre, e+post] пересекает [bs, be], что эквивалентно пересечению
// сырого кандидата с зеркально расширенным [bs-post, be+pre]. Зеркальное
// расширение позволяет склеить занятые интервалы один раз и дальше
// сравнивать кандидатов как есть.
func expandBusy(bookings []*domain.Booking, settings Settings) []domain.TimeSpan {
	busy := make([]domain.TimeSpan, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, domain.WithBuffers(b.Span, settings.PostBuffer, settings.PreBuffer))
	}
	return domain.MergeSpans(busy)
}

// generateFreeStarts генерирует свободные начала слотов.
// От открытия окна с фиксированным шагом; кандидат принимается, пока
// start + duration строго раньше конца окна (слот, заканчивающийся ровно
// в закрытие, не выдается) и его интервал не пересекает занятые.
// Пустой результат - нормальный ответ, а не ошибка.
func generateFreeStarts(window domain.TimeSpan, duration, step time.Duration, busy []domain.TimeSpan) []time.Time {
	free := make([]time.Time, 0)

	for start := window.Start; start.Add(duration).Before(window.End); start = start.Add(step) {
		candidate := domain.TimeSpan{Start: start, End: start.Add(duration)}

		conflict := false
		for _, b := range busy {
			if domain.Overlaps(candidate, b) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, start)
		}
	}
	return free
}

// filterVisible оставляет кандидатов с началом в видимом диапазоне часов.
// Это презентационное ограничение, применяется строго ПОСЛЕ фильтрации
// конфликтов и не влияет на правила доступности.
func filterVisible(starts []time.Time, settings Settings) []time.Time {
	if settings.VisibleFrom == "" || settings.VisibleTo == "" {
		return starts
	}

	visible := make([]time.Time, 0, len(starts))
	for _, start := range starts {
		ts := types.NewTimeString(start.In(settings.Location))
		if ts.IsBefore(settings.VisibleFrom) || ts.IsAfter(settings.VisibleTo) {
			continue
		}
		visible = append(visible, start)
	}
	return visible
}
