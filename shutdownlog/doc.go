// Package shutdownlog adapts zap and zerolog loggers to onshutdown.Logger.
//
// *slog.Logger already satisfies onshutdown.Logger and needs no adapter.
package shutdownlog
