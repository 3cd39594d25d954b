package observability

import (
	"context"
	"log/slog"
	"time"
)

// Enabled reports whether observability has been toggled on.
func Enabled() bool {
	_, cfg := currentLogger()
	return cfg.Enabled
}

// StartSpan marks the start of an operation and returns a completion
// callback. Pass the callback the terminal error, nil on success. Spans
// degrade to leveled log lines until a real exporter is configured.
func StartSpan(ctx context.Context, component, operation string) (context.Context, func(error)) {
	logger, _ := currentLogger()
	if logger == nil {
		return ctx, func(error) {}
	}

	started := time.Now()
	logger.LogAttrs(ctx, slog.LevelDebug, "span start", spanAttrs(component, operation)...)

	return ctx, func(err error) {
		attrs := append(spanAttrs(component, operation),
			slog.Duration("duration", time.Since(started)))

		if err == nil {
			logger.LogAttrs(ctx, slog.LevelDebug, "span end", attrs...)
			return
		}
		attrs = append(attrs, slog.Any("error", err))
		logger.LogAttrs(ctx, slog.LevelError, "span end", attrs...)
	}
}

// RecordMetric emits one best-effort datapoint through the configured
// logger.
func RecordMetric(ctx context.Context, name string, value float64, labels map[string]string) {
	logger, _ := currentLogger()
	if logger == nil {
		return
	}

	attrs := make([]slog.Attr, 0, 2+len(labels))
	attrs = append(attrs,
		slog.String("metric", name),
		slog.Float64("value", value),
	)
	for k, v := range labels {
		attrs = append(attrs, slog.String(k, v))
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "metric", attrs...)
}

func spanAttrs(component, operation string) []slog.Attr {
	return []slog.Attr{
		slog.String("component", component),
		slog.String("operation", operation),
	}
}
