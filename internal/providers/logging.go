package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
)

// logWithProvider logs through the request-scoped logger when ctx carries
// one, else fallback, tagging the entry with the upstream name.
func logWithProvider(ctx context.Context, fallback *slog.Logger, level slog.Level, provider string, msg string, args ...any) {
	logger := logging.FromContext(ctx, fallback)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldProvider, provider))
	logger.Log(ctx, level, msg, args...)
}
