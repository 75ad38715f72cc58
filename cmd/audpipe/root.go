// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ik5/audpipe"
	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/internal/conf"
	"github.com/ik5/audpipe/internal/logging"
	"github.com/ik5/audpipe/metrics"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"bufsize":      "cache.buffersize",
	"errors":       "decode.errors",
	"track":        "decode.track",
	"format":       "decode.format",
	"sampleformat": "output.sampleformat",
	"rate":         "output.rate",
	"mono":         "output.mono",
	"container":    "output.container",
	"bitdepth":     "output.bitdepth",
	"step":         "output.step",
}

// app is the state shared by the subcommands once the configuration is
// loaded.
type app struct {
	configFile  string
	showMetrics bool

	cfg      *conf.Config
	log      *slog.Logger
	registry *prometheus.Registry
	env      audio.Env
}

// rootCommand creates the audpipe command tree.
func rootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "audpipe",
		Short:        "Decode and filter audio files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "Print cache counters when done")

	rootCmd.AddCommand(
		decodeCommand(a),
		infoCommand(a),
		configCommand(a),
		kindsCommand(a),
	)

	return rootCmd
}

// initialize loads the configuration with the flags of cmd taking
// precedence, then builds the logger, metrics and environment.
func (a *app) initialize(cmd *cobra.Command) error {
	v := conf.New()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := conf.Load(v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = logging.Module(logger, "cli")

	a.registry = prometheus.NewRegistry()
	m, err := metrics.New(a.registry)
	if err != nil {
		return err
	}
	a.env = audpipe.NewEnv(logger, m)

	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("error binding flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// printMetrics writes every cache counter as "name value".
func (a *app) printMetrics(cmd *cobra.Command) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	out := cmd.ErrOrStderr()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(out, "%s %g\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}
	return nil
}
