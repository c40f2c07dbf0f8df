package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID tags ctx so that timings logged under it can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts timing op and returns a func to defer with a pointer to the
// caller's named error result.
func Time(ctx context.Context, logger *slog.Logger, op string) func(errp *error) {
	start := time.Now()
	if logger == nil {
		logger = slog.Default()
	}
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "op failed",
				slog.String("req_id", reqID),
				slog.String("op", op),
				slog.Int64("dur_ms", dur.Milliseconds()),
				slog.Any("err", *errp),
			)
			return
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "op done",
			slog.String("req_id", reqID),
			slog.String("op", op),
			slog.Int64("dur_ms", dur.Milliseconds()),
		)
	}
}
