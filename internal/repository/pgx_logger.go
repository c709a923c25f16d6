package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger forwards pgx tracing to zerolog using the same field names the
// paginator logs with, so a page fetch and its SQL line up in one stream.
type pgxLogger struct {
	logger zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	return &pgxLogger{logger: logger.With().Str("component", "pgx").Logger()}
}

// Log implements tracelog.Logger.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	event := l.event(level)
	if event == nil {
		return
	}

	// data is owned by pgx for the duration of the call only; read, don't mutate
	rest := make(map[string]any, len(data))
	for k, v := range data {
		switch k {
		case "sql":
			if s, ok := v.(string); ok {
				event = event.Str("sql", s)
				continue
			}
			rest[k] = v
		case "args":
			if level == tracelog.LogLevelTrace {
				event = event.Interface("args", v)
			}
		case "time":
			if d, ok := v.(time.Duration); ok {
				event = event.Dur("took", d)
				continue
			}
			rest[k] = v
		case "err":
			if err, ok := v.(error); ok {
				event = event.Err(err)
				continue
			}
			rest[k] = v
		case "commandTag":
			event = event.Interface("command_tag", v)
		default:
			rest[k] = v
		}
	}
	if limit, offset, ok := pageWindow(data); ok {
		event = event.Interface("limit", limit).Interface("offset", offset)
	}
	if len(rest) > 0 {
		event = event.Fields(rest)
	}
	event.Msg(msg)
}

func (l *pgxLogger) event(level tracelog.LogLevel) *zerolog.Event {
	switch level {
	case tracelog.LogLevelNone:
		return nil
	case tracelog.LogLevelTrace:
		return l.logger.Trace()
	case tracelog.LogLevelDebug:
		return l.logger.Debug()
	case tracelog.LogLevelInfo:
		return l.logger.Info()
	case tracelog.LogLevelWarn:
		return l.logger.Warn()
	case tracelog.LogLevelError:
		return l.logger.Error()
	default:
		return l.logger.Info().Str("pgx_log_level", level.String())
	}
}

// pageWindow picks LIMIT and OFFSET out of a window query; the query adapter
// always binds them as the last two arguments.
func pageWindow(data map[string]any) (limit, offset any, ok bool) {
	sql, _ := data["sql"].(string)
	args, _ := data["args"].([]any)
	if len(args) < 2 || !strings.Contains(sql, " LIMIT $") || !strings.Contains(sql, " OFFSET $") {
		return nil, nil, false
	}
	return args[len(args)-2], args[len(args)-1], true
}
