package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/ivlev/storyboard/internal/storyboard"
)

// Keys shared by flags, the osb.yaml file and OSB_* environment variables
const (
	KeyInput        = "input"
	KeyOutput       = "output"
	KeyFPS          = "fps"
	KeyWorkers      = "workers"
	KeyMaxLoopCount = "max-loop-count"
	KeyMaxExpanded  = "max-expanded-commands"
	KeyStats        = "stats"
	KeyStatsLog     = "stats-log"
	KeyJSON         = "json"
	KeyQuiet        = "quiet"
)

const (
	DefaultFPS      = 30.0
	DefaultStatsLog = "benchmark.log"
	DefaultInputDir = "input"
)

type Config struct {
	InputPath    string
	OutputPath   string
	FPS          float64
	Workers      int
	MaxLoopCount int
	MaxExpanded  int // commands per object after loop expansion
	ShowStats    bool
	StatsLog     string
	JSON         bool
	Quiet        bool
	BuildVersion string
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyInput, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyFPS, DefaultFPS)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyMaxLoopCount, storyboard.DefaultMaxLoopCount)
	v.SetDefault(KeyMaxExpanded, storyboard.DefaultMaxExpandedCommands)
	v.SetDefault(KeyStats, false)
	v.SetDefault(KeyStatsLog, DefaultStatsLog)
	v.SetDefault(KeyJSON, false)
	v.SetDefault(KeyQuiet, false)
}

// Load reads settings from v, in order of precedence: bound flags, OSB_*
// environment variables, an optional osb.yaml in the working directory,
// defaults.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("OSB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("osb")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		InputPath:    v.GetString(KeyInput),
		OutputPath:   v.GetString(KeyOutput),
		FPS:          v.GetFloat64(KeyFPS),
		Workers:      v.GetInt(KeyWorkers),
		MaxLoopCount: v.GetInt(KeyMaxLoopCount),
		MaxExpanded:  v.GetInt(KeyMaxExpanded),
		ShowStats:    v.GetBool(KeyStats),
		StatsLog:     v.GetString(KeyStatsLog),
		JSON:         v.GetBool(KeyJSON),
		Quiet:        v.GetBool(KeyQuiet),
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 1000 {
		return fmt.Errorf("fps must be in (0, 1000], got %v", c.FPS)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxLoopCount < 1 {
		return fmt.Errorf("max-loop-count must be at least 1, got %d", c.MaxLoopCount)
	}
	if c.MaxExpanded < 1 {
		return fmt.Errorf("max-expanded-commands must be at least 1, got %d", c.MaxExpanded)
	}
	return nil
}

// ParseOptions returns the parser limits derived from the config
func (c *Config) ParseOptions() storyboard.Options {
	return storyboard.Options{
		MaxLoopCount:        c.MaxLoopCount,
		MaxExpandedCommands: c.MaxExpanded,
	}
}
