package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/evan-idocoding/onshutdown"
	"github.com/evan-idocoding/onshutdown/shutdownlog"
)

// newLogger builds the configured logging backend writing to w.
// The returned flush func must be called before exit.
func newLogger(v *viper.Viper, w io.Writer) (onshutdown.Logger, func(), error) {
	format := strings.ToLower(v.GetString("log-format"))
	level := strings.ToLower(v.GetString("log-level"))

	switch format {
	case "", "slog":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", level, err)
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), func() {}, nil

	case "zap":
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", level, err)
		}
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.RFC3339TimeEncoder
		l := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl))
		return shutdownlog.Zap(l), func() { _ = l.Sync() }, nil

	case "zerolog":
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", level, err)
		}
		zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(lvl).With().Timestamp().Logger()
		return shutdownlog.Zerolog(zl), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown log format %q (want slog, zap or zerolog)", format)
	}
}
