package remote

import (
	"go.uber.org/zap"
)

// CallEvent records metadata about one backend call.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about backend calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zap logger at debug level, and
// failures at warn.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log.Named("remote")}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("method", event.Method),
		zap.String("path", event.Path),
		zap.Int("status", event.Status),
		zap.Int("attempts", event.Attempts),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if event.Success {
		o.log.Debug("backend_call", fields...)
		return
	}
	o.log.Warn("backend_call", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
