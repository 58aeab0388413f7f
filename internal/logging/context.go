package logging

import "context"

type contextKey struct{}

var logDataKey = contextKey{}

// WithLogData attaches a LogData to the context so downstream layers can
// record timings and fields onto the same request log line.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, logDataKey, logData)
}

// GetLogData retrieves the request's LogData. It returns nil when the
// context carries none; callers must tolerate that.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(logDataKey).(*LogData)
	return logData
}
