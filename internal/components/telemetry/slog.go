package telemetry

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAPI writes reports to a [*slog.Logger]. The zero value logs to slog.Default().
type SlogAPI struct {
	logger *slog.Logger
}

func NewSlogAPI(logger *slog.Logger) SlogAPI {
	return SlogAPI{logger: logger}
}

func (s SlogAPI) log(level slog.Level, msg string, attrs []slog.Attr) {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// attrs turns params into attributes. Errors go under "err", everything else is keyed by its
// position so repeated reports line up in structured output.
func attrs(out []slog.Attr, params []any) []slog.Attr {
	errCount := 0
	for i, p := range params {
		if err, ok := p.(error); ok {
			key := "err"
			if errCount > 0 {
				key = fmt.Sprintf("err.%d", errCount)
			}
			errCount++
			out = append(out, slog.String(key, err.Error()))
			continue
		}
		out = append(out, slog.Any(fmt.Sprintf("arg.%d", i), p))
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.log(slog.LevelError, id, attrs([]slog.Attr{slog.Bool("broken", true)}, params))
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.log(slog.LevelWarn, id, attrs(nil, params))
}

func (s SlogAPI) ReportDebug(msg string, params ...any) {
	s.log(slog.LevelDebug, msg, attrs(nil, params))
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.log(slog.LevelInfo, id, []slog.Attr{slog.Int64("count", count)})
}
