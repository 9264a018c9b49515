package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evan-idocoding/onshutdown"
)

func newFormsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "Bind one guard with every registration form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, flush, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer flush()

			out := cmd.OutOrStdout()
			onshutdown.Run(func(s *onshutdown.Scope) {
				// direct expression
				s.OnShutdown(say(out, "expression"))
				// closure
				s.OnShutdown(func() { fmt.Fprintln(out, "closure") })
				// move closure
				onshutdown.OnShutdownMove(s, "move", func(msg string) { fmt.Fprintln(out, msg) })
				// block
				s.OnShutdown(onshutdown.Block(say(out, "block 1"), say(out, "block 2")))
				// identifier
				identifier := func() { fmt.Fprintln(out, "identifier") }
				s.OnShutdown(identifier)
			}, onshutdown.WithLogger(logger))
			return nil
		},
	}
}
