package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftBooking(t *testing.T) *Booking {
	t.Helper()
	return &Booking{
		Customer: Customer{FullName: "Иван Петров", Phone: "+79991234567", Guests: 4},
		Span:     span(t, 18, 0, 20, 0),
		Status:   StatusDraft,
	}
}

func TestTransition(t *testing.T) {
	deadline := time.Date(2025, 10, 15, 18, 45, 0, 0, time.UTC)

	t.Run("draft to pending_review requires deadline", func(t *testing.T) {
		b := draftBooking(t)
		require.NoError(t, Transition(b, StatusPendingReview, &deadline))
		assert.Equal(t, StatusPendingReview, b.Status)
		require.NotNil(t, b.HoldDeadline)
		assert.Equal(t, deadline, *b.HoldDeadline)
	})

	t.Run("draft to pending_review without deadline rejected", func(t *testing.T) {
		b := draftBooking(t)
		assert.ErrorIs(t, Transition(b, StatusPendingReview, nil), ErrInvalidTransition)
		assert.Equal(t, StatusDraft, b.Status)
	})

	t.Run("pending_review to every terminal status clears deadline", func(t *testing.T) {
		for _, target := range TerminalStatuses {
			b := draftBooking(t)
			require.NoError(t, Transition(b, StatusPendingReview, &deadline))

			require.NoError(t, Transition(b, target, nil), "target=%s", target)
			assert.Equal(t, target, b.Status)
			assert.Nil(t, b.HoldDeadline, "target=%s", target)
		}
	})

	t.Run("draft straight to terminal rejected", func(t *testing.T) {
		for _, target := range TerminalStatuses {
			b := draftBooking(t)
			assert.ErrorIs(t, Transition(b, target, nil), ErrInvalidTransition, "target=%s", target)
		}
	})

	t.Run("no transitions out of terminal statuses", func(t *testing.T) {
		for _, from := range TerminalStatuses {
			b := draftBooking(t)
			b.Status = from

			assert.ErrorIs(t, Transition(b, StatusPendingReview, &deadline), ErrInvalidTransition, "from=%s", from)
			assert.ErrorIs(t, Transition(b, StatusConfirmed, nil), ErrInvalidTransition, "from=%s", from)
			assert.Equal(t, from, b.Status)
		}
	})

	t.Run("unknown target status rejected", func(t *testing.T) {
		b := draftBooking(t)
		assert.ErrorIs(t, Transition(b, BookingStatus("archived"), nil), ErrInvalidStatus)
	})
}

func TestSetHold(t *testing.T) {
	now := time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC)

	b := draftBooking(t)
	require.NoError(t, SetHold(b, now, 45*time.Minute))

	assert.True(t, b.IsOnHold())
	require.NotNil(t, b.HoldDeadline)
	assert.Equal(t, now.Add(45*time.Minute), *b.HoldDeadline)

	t.Run("hold on already held booking rejected", func(t *testing.T) {
		assert.ErrorIs(t, SetHold(b, now, 45*time.Minute), ErrInvalidTransition)
	})
}

func TestBookingStatus(t *testing.T) {
	t.Run("active statuses block the slot", func(t *testing.T) {
		assert.True(t, StatusConfirmed.IsActive())
		assert.True(t, StatusPendingReview.IsActive())

		assert.False(t, StatusDraft.IsActive())
		assert.False(t, StatusExpired.IsActive())
		assert.False(t, StatusCancelledByClient.IsActive())
		assert.False(t, StatusCancelledByAdmin.IsActive())
		assert.False(t, StatusNoShow.IsActive())
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.False(t, StatusDraft.IsTerminal())
		assert.False(t, StatusPendingReview.IsTerminal())
		for _, s := range TerminalStatuses {
			assert.True(t, s.IsTerminal(), "status=%s", s)
		}
	})

	t.Run("valid recognizes the closed enumeration only", func(t *testing.T) {
		assert.True(t, StatusDraft.Valid())
		assert.True(t, StatusNoShow.Valid())
		assert.False(t, BookingStatus("archived").Valid())
		assert.False(t, BookingStatus("").Valid())
	})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "canonical plus seven", raw: "+79991234567", want: "+79991234567"},
		{name: "leading eight", raw: "89991234567", want: "+79991234567"},
		{name: "formatted with punctuation", raw: "8 (999) 123-45-67", want: "+79991234567"},
		{name: "too short", raw: "12345", wantErr: ErrInvalidPhone},
		{name: "too long", raw: "+799912345678", wantErr: ErrInvalidPhone},
		{name: "foreign prefix", raw: "19991234567", wantErr: ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCustomer(t *testing.T) {
	t.Run("valid customer", func(t *testing.T) {
		c, err := NewCustomer("  Иван Петров  ", "89991234567", 4)
		require.NoError(t, err)
		assert.Equal(t, "Иван Петров", c.FullName)
		assert.Equal(t, "+79991234567", c.Phone)
		assert.Equal(t, 4, c.Guests)
	})

	t.Run("guests out of bounds", func(t *testing.T) {
		_, err := NewCustomer("Иван", "89991234567", 0)
		assert.ErrorIs(t, err, ErrInvalidGuests)

		_, err = NewCustomer("Иван", "89991234567", MaxGuests+1)
		assert.ErrorIs(t, err, ErrInvalidGuests)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewCustomer("   ", "89991234567", 2)
		assert.ErrorIs(t, err, ErrInvalidFullName)
	})
}
