package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	bind          string
	port          int
	storageType   string
	redisURL      string
	targetScore   int
	sweepInterval time.Duration
	passagesFile  string
	verbose       bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.storageType == "redis" && c.redisURL == "" {
		return errors.New("--redis-url is required when --storage is redis")
	}
	if c.targetScore < 1 {
		return fmt.Errorf("invalid target score: %d", c.targetScore)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TYPEDUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "typeduel-server",
		Short: "Realtime two-player typing race server.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "", "address to bind to (env: TYPEDUEL_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TYPEDUEL_PORT)")
	fs.StringVar(&cfg.storageType, "storage", "memory", "storage backend: memory or redis (env: TYPEDUEL_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL (env: TYPEDUEL_REDIS_URL)")
	fs.IntVar(&cfg.targetScore, "target-score", 100, "score a player must reach to win (env: TYPEDUEL_TARGET_SCORE)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", 5*time.Second, "how often the anonymous queue is matched (env: TYPEDUEL_SWEEP_INTERVAL)")
	fs.StringVar(&cfg.passagesFile, "passages", "", "path to a passages file to load at startup (env: TYPEDUEL_PASSAGES)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: TYPEDUEL_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
