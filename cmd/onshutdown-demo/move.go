package main

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evan-idocoding/onshutdown"
)

// worker is the state moved into the shutdown callback.
type worker struct {
	stop  *atomic.Bool
	done  *sync.WaitGroup
	ticks *atomic.Int64
}

func startWorker(tick time.Duration) worker {
	w := worker{
		stop:  new(atomic.Bool),
		done:  new(sync.WaitGroup),
		ticks: new(atomic.Int64),
	}
	w.done.Add(1)
	go func() {
		defer w.done.Done()
		for !w.stop.Load() {
			w.ticks.Add(1)
			time.Sleep(tick)
		}
	}()
	return w
}

func (w worker) shutdown(out io.Writer) {
	w.stop.Store(true)
	w.done.Wait()
	fmt.Fprintf(out, "worker stopped=%v\n", w.stop.Load())
}

func newMoveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a stop flag and a worker handle into a guard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, flush, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer flush()

			out := cmd.OutOrStdout()
			w := startWorker(10 * time.Millisecond)

			onshutdown.Run(func(s *onshutdown.Scope) {
				onshutdown.OnShutdownMove(s, w, func(w worker) { w.shutdown(out) },
					onshutdown.WithName("worker"))
				time.Sleep(v.GetDuration("move.wait"))
				fmt.Fprintln(out, "main done")
			}, onshutdown.WithLogger(logger))

			if !w.stop.Load() {
				return fmt.Errorf("worker still running after scope exit")
			}
			return nil
		},
	}
	cmd.Flags().Duration("wait", 100*time.Millisecond, "how long the body runs before returning")
	_ = v.BindPFlag("move.wait", cmd.Flags().Lookup("wait"))
	return cmd
}
