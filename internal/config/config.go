// Package config loads run settings from defaults, an optional config file,
// BLITZFORGE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/hashes"
)

const EnvPrefix = "BLITZFORGE"

type Config struct {
	Workers          int           `mapstructure:"workers"`
	BatchSize        int           `mapstructure:"batch_size"`
	QueueDepth       int           `mapstructure:"queue_depth"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	ProgressEvery    uint64        `mapstructure:"progress_every"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Repeat           int           `mapstructure:"repeat"`

	LogPath string `mapstructure:"log"`
	CSVPath string `mapstructure:"csv"`
	Verbose bool   `mapstructure:"verbose"`

	Charset string `mapstructure:"charset"`
	MinLen  int    `mapstructure:"min"`
	MaxLen  int    `mapstructure:"max"`
	Rules   string `mapstructure:"rules"`

	// Algorithms used by target generation.
	Algorithms []hashes.Algorithm `mapstructure:"algorithms"`
	SaltRatio  float64            `mapstructure:"salt_ratio"`
}

// Defaults installs every key so that environment variables are picked up
// by Unmarshal even when no file or flag mentions them.
func Defaults(v *viper.Viper) {
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("batch_size", 4096)
	v.SetDefault("queue_depth", 0)
	v.SetDefault("progress_interval", 500*time.Millisecond)
	v.SetDefault("progress_every", 64)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("repeat", 1)
	v.SetDefault("log", "")
	v.SetDefault("csv", "")
	v.SetDefault("verbose", false)
	v.SetDefault("charset", "abcdefghijklmnopqrstuvwxyz0123456789")
	v.SetDefault("min", 1)
	v.SetDefault("max", 6)
	v.SetDefault("rules", "")
	v.SetDefault("algorithms", []string{"blitz", "md5", "sha1", "sha256"})
	v.SetDefault("salt_ratio", 0.3)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs under its name with dashes turned into
// underscores, so --batch-size sets batch_size.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return err
}

// Explicit reports whether key was given by a flag in fs, the environment
// or the config file, as opposed to falling back to its default. Call it
// after Load.
func Explicit(v *viper.Viper, fs *pflag.FlagSet, key string) bool {
	if fs != nil {
		if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil && f.Changed {
			return true
		}
	}
	if _, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(key)); ok {
		return true
	}
	return v.InConfig(key)
}

// Load reads the optional config file and decodes the merged settings.
func Load(v *viper.Viper, path string) (Config, error) {
	var cfg Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, errdefs.Invalid("read config %s: %v", path, err)
		}
	}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return cfg, errdefs.Invalid("decode config: %v", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return errdefs.Invalid("workers must be positive, got %d", c.Workers)
	case c.BatchSize <= 0:
		return errdefs.Invalid("batch size must be positive, got %d", c.BatchSize)
	case c.MinLen < 0 || c.MaxLen < c.MinLen:
		return errdefs.Invalid("bad length range %d..%d", c.MinLen, c.MaxLen)
	case c.SaltRatio < 0 || c.SaltRatio > 1:
		return errdefs.Invalid("salt ratio %.2f outside 0..1", c.SaltRatio)
	case c.Repeat < 1:
		return errdefs.Invalid("repeat must be at least 1")
	}
	return nil
}
