package logging

import "log/slog"

func levelVar(level string) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(parseLevel(level))
	return v
}

func newTestLogger(h slog.Handler) *slog.Logger {
	return slog.New(h)
}
