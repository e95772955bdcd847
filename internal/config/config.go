// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and the environment, in increasing order of precedence.
//
// Environment variables use the GREENERY_ prefix with dots replaced by
// underscores (GREENERY_SERVER_ADDR, GREENERY_DETECTION_HUE_MIN, ...). The
// provider token is read from MAPBOX_ACCESS_TOKEN.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ironsheep/greenery-detector/internal/analysis"
	"github.com/ironsheep/greenery-detector/internal/detection"
	"github.com/ironsheep/greenery-detector/internal/imaging"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GREENERY"

type Config struct {
	Server    ServerConfig       `mapstructure:"server"`
	Log       LogConfig          `mapstructure:"log"`
	Mapbox    tiles.MapboxConfig `mapstructure:"mapbox"`
	Detection detection.Config   `mapstructure:"detection"`
	Overlay   OverlayConfig      `mapstructure:"overlay"`
	Analysis  analysis.Config    `mapstructure:"analysis"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OverlayConfig struct {
	Alpha       float64 `mapstructure:"alpha"`
	Beta        float64 `mapstructure:"beta"`
	Color       string  `mapstructure:"color"`
	JPEGQuality int     `mapstructure:"jpeg_quality"`
}

// Load reads configuration. configPath may be empty, in which case only
// defaults, .env and the environment are used. A missing .env file is not an
// error; a missing explicit config file is.
func Load(configPath string) (*Config, error) {
	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("mapbox.access_token", "MAPBOX_ACCESS_TOKEN", EnvPrefix+"_MAPBOX_ACCESS_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_bytes", 10*1024*1024)

	v.SetDefault("log.level", "info")

	mb := tiles.DefaultMapboxConfig()
	v.SetDefault("mapbox.access_token", "")
	v.SetDefault("mapbox.base_url", mb.BaseURL)
	v.SetDefault("mapbox.style", mb.Style)
	v.SetDefault("mapbox.zoom", mb.Zoom)
	v.SetDefault("mapbox.width", mb.Width)
	v.SetDefault("mapbox.height", mb.Height)
	v.SetDefault("mapbox.timeout", mb.Timeout)

	v.SetDefault("detection.hue_min", detection.DefaultHueMin)
	v.SetDefault("detection.hue_max", detection.DefaultHueMax)
	v.SetDefault("detection.sat_min", detection.DefaultSatMin)
	v.SetDefault("detection.sat_max", detection.DefaultSatMax)
	v.SetDefault("detection.val_min", detection.DefaultValMin)
	v.SetDefault("detection.val_max", detection.DefaultValMax)
	v.SetDefault("detection.kernel_size", detection.DefaultKernelSize)

	v.SetDefault("overlay.alpha", imaging.DefaultAlpha)
	v.SetDefault("overlay.beta", imaging.DefaultBeta)
	v.SetDefault("overlay.color", imaging.HexString(imaging.DefaultHighlight))
	v.SetDefault("overlay.jpeg_quality", imaging.DefaultJPEGQuality)

	an := analysis.DefaultConfig()
	v.SetDefault("analysis.max_concurrent", an.MaxConcurrent)
	v.SetDefault("analysis.queue_timeout", an.QueueTimeout)
}

// Validate checks every section. Errors are *imaging.ConfigError.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return imaging.BadConfig("server.mode", "%q is not one of debug, release, test", c.Server.Mode)
	}
	if c.Server.Addr == "" {
		return imaging.BadConfig("server.addr", "must not be empty")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return imaging.BadConfig("server.max_upload_bytes", "must be positive")
	}
	if c.Overlay.JPEGQuality < 1 || c.Overlay.JPEGQuality > 100 {
		return imaging.BadConfig("overlay.jpeg_quality", "%d outside [1, 100]", c.Overlay.JPEGQuality)
	}
	if err := c.Mapbox.Validate(); err != nil {
		return err
	}
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	_, err := c.AnalysisOptions()
	return err
}

// AnalysisOptions returns the default per-request pipeline options.
func (c *Config) AnalysisOptions() (analysis.Options, error) {
	highlight, err := imaging.ParseHexColor(c.Overlay.Color)
	if err != nil {
		return analysis.Options{}, imaging.BadConfig("overlay.color", "%v", err)
	}

	opts := analysis.Options{
		Detection: c.Detection,
		Overlay: imaging.OverlayConfig{
			Alpha:     c.Overlay.Alpha,
			Beta:      c.Overlay.Beta,
			Highlight: highlight,
		},
	}
	if err := opts.Validate(); err != nil {
		return analysis.Options{}, err
	}
	return opts, nil
}
