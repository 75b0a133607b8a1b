package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

type stubRepo struct {
	bookings []*domain.Booking
}

func (r *stubRepo) Conflicts(_ context.Context, span domain.TimeSpan) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if domain.Overlaps(b.Span, span) {
			result = append(result, b)
		}
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSettings() Settings {
	return Settings{
		Location:        time.UTC,
		OpenTime:        "11:00",
		CloseTime:       "23:00",
		Step:            30 * time.Minute,
		DefaultDuration: 2 * time.Hour,
		PreBuffer:       30 * time.Minute,
		PostBuffer:      time.Hour,
	}
}

func day() time.Time {
	return time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
}

func at(hour, min int) time.Time {
	return time.Date(2025, 10, 15, hour, min, 0, 0, time.UTC)
}

func activeBooking(start, end time.Time) *domain.Booking {
	return &domain.Booking{
		Span:   domain.TimeSpan{Start: start, End: end},
		Status: domain.StatusConfirmed,
	}
}

func starts(slots []Slot) []time.Time {
	result := make([]time.Time, len(slots))
	for i, s := range slots {
		result[i] = s.StartsAt
	}
	return result
}

func TestExecute_EmptyDay(t *testing.T) {
	uc := NewUseCase(&stubRepo{}, testSettings(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	// Окно 11:00-23:00, длительность 2ч, шаг 30м: первый кандидат 11:00,
	// последний 20:30 (21:00+2ч=23:00 ровно в закрытие - не выдается)
	got := starts(resp.Slots)
	require.Len(t, got, 20)
	assert.Equal(t, at(11, 0), got[0])
	assert.Equal(t, at(20, 30), got[len(got)-1])

	for _, s := range resp.Slots {
		assert.Equal(t, 2*time.Hour, s.EndsAt.Sub(s.StartsAt))
	}
}

func TestExecute_BusySpanWithBuffers(t *testing.T) {
	// Занято 13:00-15:00, буферы кандидата 30м до / 60м после.
	// Кандидат отклоняется, когда его интервал с буферами задевает
	// бронирование. Первый свободный старт после брони - 15:30: его
	// PreBuffer 15:00-15:30 упирается ровно в конец брони, а границы
	// не конфликтуют
	busySpan := domain.TimeSpan{Start: at(13, 0), End: at(15, 0)}
	repo := &stubRepo{bookings: []*domain.Booking{activeBooking(busySpan.Start, busySpan.End)}}
	settings := testSettings()
	uc := NewUseCase(repo, settings, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	got := starts(resp.Slots)

	// Двухчасовые кандидаты до брони заканчиваются позже 12:00
	// (им нужен PostBuffer 60м перед началом брони) и отсекаются
	assert.NotContains(t, got, at(11, 0))
	assert.NotContains(t, got, at(11, 30))
	assert.NotContains(t, got, at(14, 0))
	assert.NotContains(t, got, at(15, 0))

	require.Len(t, got, 11)
	assert.Equal(t, at(15, 30), got[0])
	assert.Equal(t, at(20, 30), got[len(got)-1])

	// У каждого принятого кандидата интервал с буферами не задевает бронь
	for _, s := range resp.Slots {
		buffered := domain.WithBuffers(
			domain.TimeSpan{Start: s.StartsAt, End: s.EndsAt},
			settings.PreBuffer,
			settings.PostBuffer,
		)
		assert.False(t, domain.Overlaps(buffered, busySpan),
			"accepted slot %s overlaps the booking with buffers applied", s.StartsAt)
	}

	t.Run("asymmetric buffers reject early starts for short slots", func(t *testing.T) {
		// Полуторачасовой кандидат 11:00-12:30 сам бронь не задевает,
		// но его PostBuffer 12:30-13:30 - задевает
		resp, err := uc.Execute(context.Background(), &Request{Date: day(), DurationMinutes: 90})
		require.NoError(t, err)

		got := starts(resp.Slots)
		assert.NotContains(t, got, at(11, 0))
		assert.Equal(t, at(15, 30), got[0])
	})
}

func TestExecute_PendingHoldBlocksSlots(t *testing.T) {
	deadline := at(14, 0)
	held := &domain.Booking{
		Span:         domain.TimeSpan{Start: at(13, 0), End: at(15, 0)},
		Status:       domain.StatusPendingReview,
		HoldDeadline: &deadline,
	}
	uc := NewUseCase(&stubRepo{bookings: []*domain.Booking{held}}, testSettings(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	// Заявка на холде блокирует слоты наравне с подтвержденной
	got := starts(resp.Slots)
	assert.NotContains(t, got, at(13, 0))
	assert.Equal(t, at(15, 30), got[0])
}

func TestExecute_FullyBookedDay(t *testing.T) {
	repo := &stubRepo{bookings: []*domain.Booking{activeBooking(at(10, 0), at(23, 0))}}
	uc := NewUseCase(repo, testSettings(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	// Полностью занятый день - пустой список, не ошибка
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_OvernightWindow(t *testing.T) {
	settings := testSettings()
	settings.OpenTime = "18:00"
	settings.CloseTime = "02:00"

	uc := NewUseCase(&stubRepo{}, settings, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	// Закрытие раньше открытия - окно до 02:00 следующего дня
	got := starts(resp.Slots)
	require.Len(t, got, 12)
	assert.Equal(t, at(18, 0), got[0])
	assert.Equal(t, time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC), got[len(got)-1])
}

func TestExecute_VenueTimezoneBehindUTC(t *testing.T) {
	settings := testSettings()
	settings.Location = time.FixedZone("UTC-5", -5*60*60)

	uc := NewUseCase(&stubRepo{}, settings, nopLogger{})

	// Дата из API парсится как полночь UTC; окно должно лечь на
	// запрошенный календарный день по местному времени площадки,
	// а не на предыдущие сутки
	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	got := starts(resp.Slots)
	require.Len(t, got, 20)

	wantFirst := time.Date(2025, 10, 15, 11, 0, 0, 0, settings.Location)
	assert.True(t, got[0].Equal(wantFirst), "first slot %s, want %s", got[0], wantFirst)
	assert.Equal(t, 15, got[0].In(settings.Location).Day())
}

func TestExecute_VisibleHoursFilter(t *testing.T) {
	settings := testSettings()
	settings.VisibleFrom = "12:00"
	settings.VisibleTo = "20:00"

	uc := NewUseCase(&stubRepo{}, settings, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: day()})
	require.NoError(t, err)

	got := starts(resp.Slots)
	require.Len(t, got, 17)
	assert.Equal(t, at(12, 0), got[0])
	assert.Equal(t, at(20, 0), got[len(got)-1])
}

func TestExecute_ExplicitDuration(t *testing.T) {
	settings := testSettings()
	settings.AllowedDuration = []time.Duration{time.Hour, 2 * time.Hour}

	uc := NewUseCase(&stubRepo{}, settings, nopLogger{})

	t.Run("allowed duration accepted", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{Date: day(), DurationMinutes: 60})
		require.NoError(t, err)

		got := starts(resp.Slots)
		// Часовой слот: последний кандидат 21:30 (22:00+1ч=23:00 не выдается)
		assert.Equal(t, at(21, 30), got[len(got)-1])
	})

	t.Run("duration outside the allowed list rejected", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{Date: day(), DurationMinutes: 45})
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&stubRepo{}, testSettings(), nopLogger{})

	t.Run("zero date rejected", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{Date: day(), DurationMinutes: -30})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
