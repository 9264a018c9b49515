package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evan-idocoding/onshutdown"
	"github.com/evan-idocoding/onshutdown/internal/sigflag"
)

func newSignalCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Run a work loop until SIGINT/SIGTERM, then let the guard fire",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, flush, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer flush()

			out := cmd.OutOrStdout()
			var stopRequested sigflag.Flag
			stopSignals := sigflag.Notify(&stopRequested, func(sig os.Signal) {
				fmt.Fprintf(out, "Received %v\n", sig)
			})
			defer stopSignals()

			if d := v.GetDuration("signal.stop-after"); d > 0 {
				t := time.AfterFunc(d, stopRequested.Set)
				defer t.Stop()
			}
			poll := v.GetDuration("signal.poll")

			onshutdown.Run(func(s *onshutdown.Scope) {
				s.OnShutdown(onshutdown.Block(
					say(out, "The signal handler only sets a flag; this guard fires because the loop returned."),
					say(out, "A process killed the hard way never gets here."),
				), onshutdown.WithName("signal"))
				fmt.Fprintln(out, "Stop me with CTRL+C or kill me with another method")

				for !stopRequested.IsSet() {
					time.Sleep(poll)
				}
				fmt.Fprintln(out, "Exiting work loop")
			}, onshutdown.WithLogger(logger))
			return nil
		},
	}
	cmd.Flags().Duration("poll", 10*time.Millisecond, "how often the work loop checks the stop flag")
	cmd.Flags().Duration("stop-after", 0, "request a stop after this long (0 waits for a signal)")
	_ = v.BindPFlag("signal.poll", cmd.Flags().Lookup("poll"))
	_ = v.BindPFlag("signal.stop-after", cmd.Flags().Lookup("stop-after"))
	return cmd
}
