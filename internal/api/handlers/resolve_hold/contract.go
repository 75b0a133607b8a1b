package resolve_hold

import (
	"context"

	resolveHold "github.com/m04kA/SMC-VenueBookingService/internal/usecase/resolve_hold"
)

type ResolveHoldUseCase interface {
	Execute(ctx context.Context, req *resolveHold.Request) (*resolveHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
