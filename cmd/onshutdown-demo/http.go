package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/evan-idocoding/onshutdown"
	"github.com/evan-idocoding/onshutdown/internal/reportz"
	"github.com/evan-idocoding/onshutdown/internal/sigflag"
	"github.com/evan-idocoding/onshutdown/shutdownprom"
	"github.com/evan-idocoding/onshutdown/shutdowntrace"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 30 * time.Second
)

// newRouter serves the demo endpoints. /work opens a scope per request so
// its guard shows up in /reportz and /metrics as soon as the response is written.
func newRouter(reg *prometheus.Registry, rec *reportz.Recorder, opts ...onshutdown.Option) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello World"))
	})
	r.Get("/work", func(w http.ResponseWriter, req *http.Request) {
		err := onshutdown.RunContext(req.Context(), func(_ context.Context, s *onshutdown.Scope) error {
			s.OnShutdown(func() {}, onshutdown.WithName("request"))
			_, err := w.Write([]byte("done\n"))
			return err
		}, opts...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	r.Handle("/reportz", reportz.Handler(rec))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func newHTTPCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve HTTP until SIGINT/SIGTERM with a guard inside the server entry point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, flush, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer flush()

			reg := prometheus.NewRegistry()
			obs, err := shutdownprom.NewObserver(reg)
			if err != nil {
				return err
			}
			rec := reportz.NewRecorder(v.GetInt("http.reports"))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			tp, shutdownTracing, err := newTracerProvider(ctx, v.GetString("http.otlp-endpoint"))
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			scopeOpts := []onshutdown.Option{
				onshutdown.WithLogger(logger),
				onshutdown.WithObserver(obs),
				onshutdown.WithObserver(rec),
				onshutdown.WithObserver(shutdowntrace.NewObserver(ctx, tp)),
			}
			ctx, stop := signal.NotifyContext(ctx, sigflag.DefaultSignals()...)
			defer stop()

			out := cmd.OutOrStdout()
			srv := &http.Server{
				Addr:              v.GetString("http.addr"),
				Handler:           newRouter(reg, rec, scopeOpts...),
				ReadHeaderTimeout: defaultReadHeaderTimeout,
				IdleTimeout:       defaultIdleTimeout,
			}
			shutdownTimeout := v.GetDuration("http.shutdown-timeout")

			return onshutdown.RunContext(ctx, func(ctx context.Context, s *onshutdown.Scope) error {
				s.OnShutdown(say(out, "This gets executed during shutdown. Don't do expensive operations here."),
					onshutdown.WithName("http"))

				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "listening on %s\n", ln.Addr())

				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					return srv.Shutdown(sctx)
				})
				return g.Wait()
			}, scopeOpts...)
		},
	}
	f := cmd.Flags()
	f.String("addr", "localhost:8080", "listen address")
	f.Duration("shutdown-timeout", defaultShutdownTimeout, "graceful shutdown timeout")
	f.Int("reports", 64, "number of shutdown reports kept for /reportz")
	f.String("otlp-endpoint", "", "OTLP/HTTP trace endpoint URL (empty disables export)")
	for _, name := range []string{"addr", "shutdown-timeout", "reports", "otlp-endpoint"} {
		_ = v.BindPFlag("http."+name, f.Lookup(name))
	}
	return cmd
}
