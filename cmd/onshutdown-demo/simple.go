package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evan-idocoding/onshutdown"
)

func newSimpleCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Bind a block guard in a plain function and wait",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, flush, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer flush()

			out := cmd.OutOrStdout()
			wait := v.GetDuration("simple.wait")

			onshutdown.Run(func(s *onshutdown.Scope) {
				s.OnShutdown(onshutdown.Block(
					say(out, "shut"),
					say(out, "down"),
					say(out, "with"),
					say(out, "success"),
				), onshutdown.WithName("simple"))
				fmt.Fprintln(out, "registered on_shutdown")

				time.Sleep(wait)
				fmt.Fprintf(out, "waited %s\n", wait)
			}, onshutdown.WithLogger(logger))
			return nil
		},
	}
	cmd.Flags().Duration("wait", time.Second, "how long the body runs before returning")
	_ = v.BindPFlag("simple.wait", cmd.Flags().Lookup("wait"))
	return cmd
}
