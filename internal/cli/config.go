package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	wferrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/geom"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// Cache backends.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Chart store backends for the serve command.
const (
	storeFile  = "file"
	storeMongo = "mongo"
	storeNone  = "none"
)

// Config is the CLI configuration. Values are resolved in order of
// precedence: flags, WATERFALL_* environment variables, config file, defaults.
type Config struct {
	Render RenderConfig `mapstructure:"render" toml:"render"`
	Cache  CacheConfig  `mapstructure:"cache" toml:"cache"`
	Serve  ServeConfig  `mapstructure:"serve" toml:"serve"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

// RenderConfig holds layout and render defaults shared by all commands.
type RenderConfig struct {
	Width      float64 `mapstructure:"width" toml:"width"`
	Height     float64 `mapstructure:"height" toml:"height"`
	Gap        float64 `mapstructure:"gap" toml:"gap"`
	Style      string  `mapstructure:"style" toml:"style"`
	Labels     bool    `mapstructure:"labels" toml:"labels"`
	Connectors bool    `mapstructure:"connectors" toml:"connectors"`
	PNGScale   float64 `mapstructure:"png_scale" toml:"png_scale"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string `mapstructure:"backend" toml:"backend"`
	Dir           string `mapstructure:"dir" toml:"dir"`
	RedisAddr     string `mapstructure:"redis_addr" toml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" toml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" toml:"redis_db"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr           string `mapstructure:"addr" toml:"addr"`
	Store          string `mapstructure:"store" toml:"store"`
	StoreDir       string `mapstructure:"store_dir" toml:"store_dir"`
	MongoURI       string `mapstructure:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase  string `mapstructure:"mongo_database" toml:"mongo_database"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (c ServeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig configures the optional rotating log file.
type LogConfig struct {
	File       string `mapstructure:"file" toml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" toml:"max_age_days"`
}

func defaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			Gap:      geom.DefaultGapFraction,
			Style:    pipeline.DefaultStyle,
			PNGScale: pipeline.DefaultPNGScale,
		},
		Cache: CacheConfig{
			Backend:   cacheFile,
			RedisAddr: "localhost:6379",
		},
		Serve: ServeConfig{
			Addr:           ":8080",
			Store:          storeFile,
			MongoURI:       "mongodb://localhost:27017",
			MongoDatabase:  "waterfall",
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// setDefaults registers every key with v so environment overrides resolve
// during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.gap", d.Render.Gap)
	v.SetDefault("render.style", d.Render.Style)
	v.SetDefault("render.labels", d.Render.Labels)
	v.SetDefault("render.connectors", d.Render.Connectors)
	v.SetDefault("render.png_scale", d.Render.PNGScale)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)

	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.store", d.Serve.Store)
	v.SetDefault("serve.store_dir", d.Serve.StoreDir)
	v.SetDefault("serve.mongo_uri", d.Serve.MongoURI)
	v.SetDefault("serve.mongo_database", d.Serve.MongoDatabase)
	v.SetDefault("serve.timeout_seconds", d.Serve.TimeoutSeconds)

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// flagKeys maps command flags to the config keys they override.
var flagKeys = map[string]string{
	"width":      "render.width",
	"height":     "render.height",
	"gap":        "render.gap",
	"style":      "render.style",
	"labels":     "render.labels",
	"connectors": "render.connectors",
	"png-scale":  "render.png_scale",
	"cache":      "cache.backend",
	"redis-addr": "cache.redis_addr",
	"addr":       "serve.addr",
	"store":      "serve.store",
	"store-dir":  "serve.store_dir",
	"mongo-uri":  "serve.mongo_uri",
	"log-file":   "log.file",
}

// loadConfig resolves the configuration. An explicit path must exist; the
// default config file is optional. flags may be nil.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigFile(configFile())
	}
	if err := v.ReadInConfig(); err != nil {
		if path != "" || !isNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Validate checks the configuration for values no command could use.
func (c *Config) Validate() error {
	if err := wferrors.ValidateViewport(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if c.Render.Gap < 0 {
		return wferrors.New(wferrors.ErrCodeInvalidInput, "render.gap must be non-negative, got %v", c.Render.Gap)
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return err
	}
	if !slices.Contains([]string{cacheFile, cacheRedis, cacheNone}, c.Cache.Backend) {
		return wferrors.New(wferrors.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{storeFile, storeMongo, storeNone}, c.Serve.Store) {
		return wferrors.New(wferrors.ErrCodeInvalidInput, "serve.store must be file, mongo or none, got %q", c.Serve.Store)
	}
	if c.Serve.TimeoutSeconds <= 0 {
		return wferrors.New(wferrors.ErrCodeInvalidInput, "serve.timeout_seconds must be positive, got %d", c.Serve.TimeoutSeconds)
	}
	return nil
}

// =============================================================================
// Commands
// =============================================================================

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = configFile()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.cfg)
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = configFile()
			}
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			printSuccess("Config written")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// writeDefaultConfig writes the default configuration to path.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(defaultConfig()); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
