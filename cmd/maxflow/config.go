package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/preflow/flow"
)

// config is resolved from flags, then MAXFLOW_* environment variables, then
// an optional config file, in viper's usual precedence.
type config struct {
	Input      string        `mapstructure:"input" validate:"required"`
	Source     int           `mapstructure:"source" validate:"gte=0"`
	Sink       int           `mapstructure:"sink" validate:"gte=0,nefield=Source"`
	Selection  string        `mapstructure:"selection" validate:"policy"`
	Duplicates string        `mapstructure:"duplicates" validate:"oneof=sum reject"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Flows      bool          `mapstructure:"flows"`
	Verify     bool          `mapstructure:"verify"`
	Debug      bool          `mapstructure:"debug"`
}

func loadConfig(args []string) (config, error) {
	fs := pflag.NewFlagSet("maxflow", pflag.ContinueOnError)
	fs.StringP("input", "i", "", "edge list file, or - for stdin")
	fs.IntP("source", "s", 0, "source node index")
	fs.IntP("sink", "t", 1, "sink node index")
	fs.String("selection", "fifo", "active node selection: fifo or highest-label (alias highest)")
	fs.String("duplicates", "sum", "repeated arcs: sum or reject")
	fs.Duration("timeout", 0, "abort the computation after this long (0 = no limit)")
	fs.Bool("flows", false, "print the flow on every arc")
	fs.Bool("verify", false, "re-check conservation, capacities and cut equality")
	fs.Bool("debug", false, "development logging at debug level")
	cfgFile := fs.String("config", "", "optional config file (yaml, toml, json)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return config{}, err
	}
	v.SetEnvPrefix("MAXFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if *cfgFile != "" {
		v.SetConfigFile(*cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config %s: %w", *cfgFile, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decoding config: %w", err)
	}
	validate := validator.New()
	if err := validate.RegisterValidation("policy", validPolicy); err != nil {
		return config{}, err
	}
	if err := validate.Struct(cfg); err != nil {
		return config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// validPolicy accepts exactly the names flow.ParsePolicy accepts.
func validPolicy(fl validator.FieldLevel) bool {
	_, err := flow.ParsePolicy(fl.Field().String())
	return err == nil
}
