package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobmatch-backend/internal/shared/telemetry"
)

const (
	app       = "matchctl"
	envPrefix = "MATCHCTL"
)

// Config is decoded from flags, MATCHCTL_* variables and the optional config file.
type Config struct {
	DatabaseURL string        `mapstructure:"database-url"`
	Env         string        `mapstructure:"env"`
	JWTSecret   string        `mapstructure:"jwt-secret"`
	JWTIssuer   string        `mapstructure:"jwt-issuer"`
	JWTTTL      time.Duration `mapstructure:"jwt-ttl"`
	Debug       bool          `mapstructure:"debug"`
}

type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	c.v.SetDefault("env", "dev")
	c.v.SetDefault("jwt-issuer", "jobmatch")
	c.v.SetDefault("jwt-ttl", 24*time.Hour)

	root := &cobra.Command{
		Use:           app,
		Short:         "matchctl manages the job-matching backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.readConfig(); err != nil {
				return err
			}
			level := "info"
			if c.v.GetBool("debug") {
				level = "debug"
			}
			telemetry.Configure(level, "console")
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is matchctl.yaml in the current directory when present)")
	flags.String("database-url", "", "Postgres connection URL")
	flags.String("env", "dev", "environment name")
	flags.String("jwt-secret", "", "HS256 signing secret")
	flags.BoolP("debug", "d", false, "verbose output")
	for _, name := range []string{"database-url", "env", "jwt-secret", "debug"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(c.migrateCmd(), c.tokenCmd())
	return root
}

func (c *cli) readConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		return c.v.ReadInConfig()
	}
	c.v.AddConfigPath(".")
	c.v.SetConfigName(app)
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func (c *cli) config() (Config, error) {
	var cfg Config
	if err := c.v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
