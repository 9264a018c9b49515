package shutdownlog

import (
	"go.uber.org/zap"

	"github.com/evan-idocoding/onshutdown"
)

type zapLogger struct {
	s *zap.SugaredLogger
}

// Zap returns a Logger backed by l. Key/value args become zap fields.
// A nil l yields a no-op logger.
func Zap(l *zap.Logger) onshutdown.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (z zapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z zapLogger) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z zapLogger) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }
