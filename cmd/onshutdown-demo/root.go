package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "ONSHUTDOWN"

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "onshutdown-demo",
		Short: "Examples of on shutdown guards",
		Long: `onshutdown-demo runs small programs that bind on shutdown guards and shows
when the guards fire. Every flag can also be set with an ONSHUTDOWN_* environment
variable (for example ONSHUTDOWN_LOG_FORMAT=zap or ONSHUTDOWN_HTTP_ADDR=:9090) or
from a config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig(v, cfgFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("log-format", "slog", "log backend: slog, zap or zerolog")
	pf.String("log-level", "debug", "minimum log level")
	_ = v.BindPFlag("log-format", pf.Lookup("log-format"))
	_ = v.BindPFlag("log-level", pf.Lookup("log-level"))

	root.AddCommand(
		newSimpleCmd(v),
		newMoveCmd(v),
		newSignalCmd(v),
		newHTTPCmd(v),
		newFormsCmd(v),
	)
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// say returns a callback that prints line to w.
func say(w io.Writer, line string) func() {
	return func() { fmt.Fprintln(w, line) }
}
