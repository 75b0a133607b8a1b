package resolve_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	resolveHold "github.com/m04kA/SMC-VenueBookingService/internal/usecase/resolve_hold"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAction      = "некорректное действие, ожидается confirm, reject, cancel или no_show"
	msgNotFound           = "бронирование не найдено"
	msgAlreadyResolved    = "решение по заявке уже принято"
)

type Handler struct {
	useCase ResolveHoldUseCase
	logger  Logger
}

func NewHandler(useCase ResolveHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/resolve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/resolve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ResolveHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/resolve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveHold.Request{
		BookingID: bookingID,
		Action:    resolveHold.Action(req.Action),
	})
	if err != nil {
		switch {
		case errors.Is(err, resolveHold.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/resolve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resolveHold.ErrAlreadyResolved):
			h.logger.Warn("PATCH /bookings/{id}/resolve - Already resolved: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyResolved)

		case errors.Is(err, resolveHold.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/resolve - Invalid action: booking_id=%d, action=%s", bookingID, req.Action)
			handlers.RespondBadRequest(w, msgInvalidAction)

		default:
			h.logger.Error("PATCH /bookings/{id}/resolve - Failed to resolve: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /bookings/{id}/resolve - Booking resolved: booking_id=%d, status=%s",
		result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, response)
}
