package shutdownlog

import (
	"github.com/rs/zerolog"

	"github.com/evan-idocoding/onshutdown"
)

type zerologLogger struct {
	l zerolog.Logger
}

// Zerolog returns a Logger backed by l. Key/value args become event fields.
func Zerolog(l zerolog.Logger) onshutdown.Logger {
	return zerologLogger{l: l}
}

func (z zerologLogger) Debug(msg string, args ...any) { z.l.Debug().Fields(args).Msg(msg) }
func (z zerologLogger) Warn(msg string, args ...any)  { z.l.Warn().Fields(args).Msg(msg) }
func (z zerologLogger) Error(msg string, args ...any) { z.l.Error().Fields(args).Msg(msg) }
