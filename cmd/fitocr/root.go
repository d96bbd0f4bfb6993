package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitocr/pkg/config"
	"fitocr/pkg/store"
)

// globals are the flags every subcommand shares.
type globals struct {
	configPath string
	variant    string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   "fitocr",
		Short: "Extract workout data from fitness-tracker screenshots",
		Long: `fitocr reads workout screenshots with Tesseract, recovers the total time,
pause, distance, calories and clock time, and writes one row per workout.

The route and mode come from the file name:
  2024-03-09.1 Corsa Parco - Casa (note).jpg`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv()
		},
	}
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "heuristics TOML file (default $FITOCR_CONFIG or ~/.config/fitocr/config.toml)")
	cmd.PersistentFlags().StringVar(&g.variant, "variant", "", "screenshot layout: total or training (default from config)")

	cmd.AddCommand(newBatchCmd(g))
	cmd.AddCommand(newWatchCmd(g))
	cmd.AddCommand(newExtractCmd(g))
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newRetryCmd(g))
	return cmd
}

// settings resolves env, the config file and the --variant flag.
func (g *globals) settings() (config.Env, config.Settings, error) {
	env := config.FromEnv()
	if g.configPath != "" {
		env.ConfigPath = g.configPath
	}
	s, err := env.Resolve()
	if err != nil {
		return env, s, fmt.Errorf("config: %w", err)
	}
	if g.variant != "" {
		v, err := config.ParseVariant(g.variant)
		if err != nil {
			return env, s, err
		}
		s.Extract.Variant = v
	}
	return env, s, nil
}

func openStore(env config.Env) (*store.Store, error) {
	if env.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	return store.Open(env.DSN, env.AutoMigrate)
}
