package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API on log/slog.
type SlogAPI struct{}

func (SlogAPI) pairs(id string, params []any) []any {
	out := []any{"id", id}
	for i, p := range params {
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", s.pairs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", s.pairs(id, params)...)
}

func (s SlogAPI) ReportDebug(id string, params ...any) {
	slog.Debug("debug", s.pairs(id, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
}
