package logging

import "github.com/rs/zerolog"

// RefreshLogger adapts a zerolog.Logger to the narrow Warn/Error
// shape internal/refresh.Logger needs, so Manager/Scheduler narrate
// through the same diagnostic channel as everything else (spec §5
// "Transport invariant" — stderr only).
type RefreshLogger struct {
	Logger zerolog.Logger
}

func (l RefreshLogger) Warn(msg string, fields map[string]any) {
	ev := l.Logger.Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l RefreshLogger) Error(msg string, fields map[string]any) {
	ev := l.Logger.Error()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
