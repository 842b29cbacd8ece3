package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval = 120
	defaultCycle    = 86400
	defaultDataDir  = "data"
	defaultPlotDir  = "plots"
	defaultListen   = ":5000"

	maxCycleSeconds = 24 * 3600
)

type Config struct {
	// Collector settings
	Interval   int    `mapstructure:"interval"` // seconds between samples
	Cycle      int    `mapstructure:"cycle"`    // seconds per segment rotation cycle
	SensorName string `mapstructure:"sensor_name"`
	HubAddress string `mapstructure:"hub_address"`
	HubToken   string `mapstructure:"hub_token"`
	StorePlots bool   `mapstructure:"store_plots"`

	// Shared settings
	DataDir string `mapstructure:"data_dir"`
	PlotDir string `mapstructure:"plot_dir"`

	// Web settings
	Listen         string   `mapstructure:"listen"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
	Verbose  bool   `mapstructure:"verbose"`
}

// IntervalDuration returns the sampling interval as a time.Duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// CycleDuration returns the segment rotation cycle as a time.Duration.
func (c *Config) CycleDuration() time.Duration {
	return time.Duration(c.Cycle) * time.Second
}

func Load() (*Config, error) {
	errFactory := errors.New()

	// Load a .env file if present; hub credentials are usually kept there.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("cycle", defaultCycle)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("plot_dir", defaultPlotDir)
	v.SetDefault("listen", defaultListen)
	v.SetDefault("store_plots", false)
	v.SetDefault("log_level", DefaultLogLevel)
	// Registered so AutomaticEnv picks these up without a flag or file entry;
	// the hub token in particular is usually supplied via ROOMLOG_HUB_TOKEN.
	v.SetDefault("sensor_name", "")
	v.SetDefault("hub_address", "")
	v.SetDefault("hub_token", "")
	v.SetDefault("allowed_origins", []string{})

	flags := pflag.NewFlagSet("roomlog", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetNormalizeFunc(normalizeFlag)
	flags.Int("interval", defaultInterval, "Seconds between sensor samples")
	flags.Int("cycle", defaultCycle, "Seconds per segment rotation cycle")
	flags.String("sensor-name", "", "Custom name of the environment sensor to log")
	flags.String("hub-address", "", "Address of the sensor hub")
	flags.String("data-dir", defaultDataDir, "Directory for segment files")
	flags.String("plot-dir", defaultPlotDir, "Directory for rendered plots")
	flags.Bool("store-plots", false, "Render a plot when a segment closes")
	flags.String("listen", defaultListen, "Listen address for the query server")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix("ROOMLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath := os.Getenv("ROOMLOG_CONFIG"); configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("roomlog")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/roomlog")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").WithData(err.Error())
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	// Query-time candidate selection pads one day backward, which only covers
	// segments spanning at most 24 hours.
	if c.Cycle <= 0 || c.Cycle > maxCycleSeconds {
		return errFactory.WithData(errors.ErrInvalidCycle, c.Cycle)
	}

	if !isValidLogLevel(c.LogLevel) {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}

// normalizeFlag maps dashed flag names to their config file keys
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}
