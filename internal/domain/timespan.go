package domain

import (
	"sort"
	"time"
)

// TimeSpan временной интервал [Start, End), End строго позже Start.
// Иммутабельное значение: все операции возвращают новые интервалы.
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// NewTimeSpan создает интервал, проверяя инвариант End > Start
func NewTimeSpan(start, end time.Time) (TimeSpan, error) {
	if !end.After(start) {
		return TimeSpan{}, ErrInvalidInterval
	}
	return TimeSpan{Start: start, End: end}, nil
}

// Duration возвращает длительность интервала
func (s TimeSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps проверяет РЕАЛЬНОЕ пересечение интервалов.
// Интервалы, граничащие по концам (a.End == b.Start), не пересекаются:
// бронирование, заканчивающееся ровно в начале другого, конфликтом не считается.
func Overlaps(a, b TimeSpan) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// WithBuffers расширяет интервал наружу: pre перед началом, post после конца.
// Так интервал учитывает прилегающее время уборки вокруг себя.
func WithBuffers(span TimeSpan, pre, post time.Duration) TimeSpan {
	return TimeSpan{
		Start: span.Start.Add(-pre),
		End:   span.End.Add(post),
	}
}

// MergeSpans сортирует интервалы по началу и склеивает пересекающиеся
// и примыкающие, возвращая минимальное дизъюнктное покрытие.
// Используется перед поиском свободных слотов, чтобы накладывающиеся
// занятые интервалы не учитывались дважды.
func MergeSpans(spans []TimeSpan) []TimeSpan {
	if len(spans) == 0 {
		return []TimeSpan{}
	}

	sorted := make([]TimeSpan, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]TimeSpan, 0, len(sorted))
	current := sorted[0]

	for _, span := range sorted[1:] {
		// Примыкающий интервал (start == текущий end) тоже склеивается
		if !span.Start.After(current.End) {
			if span.End.After(current.End) {
				current.End = span.End
			}
			continue
		}
		merged = append(merged, current)
		current = span
	}

	return append(merged, current)
}
