// Package config layers defaults, an optional YAML file, WORDHARBOR_ environment
// variables and command-line flags into one validated Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/xtding233/wordharbor/internal/gacha"
	"github.com/xtding233/wordharbor/internal/persist"
	"github.com/xtding233/wordharbor/internal/progress"
)

// EnvPrefix marks environment overrides. A double underscore separates levels:
// WORDHARBOR_STORE__REDIS_ADDR sets store.redis_addr.
const EnvPrefix = "WORDHARBOR_"

type Config struct {
	Log      LogConfig       `koanf:"log"`
	Server   ServerConfig    `koanf:"server"`
	Catalog  CatalogConfig   `koanf:"catalog"`
	Store    persist.Options `koanf:"store"`
	Gacha    GachaConfig     `koanf:"gacha"`
	Progress ProgressConfig  `koanf:"progress"`
	Review   ReviewConfig    `koanf:"review"`
	Sim      SimConfig       `koanf:"sim"`
}

type LogConfig struct {
	Mode  string `koanf:"mode" validate:"oneof=dev development prod production"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// CatalogConfig points at card content. An empty path means the embedded catalog.
type CatalogConfig struct {
	Path     string   `koanf:"path"`
	Overlays []string `koanf:"overlays"`
}

type GachaConfig struct {
	Weights     gacha.WeightTable `koanf:"weights" validate:"min=1"`
	HighWeights gacha.WeightTable `koanf:"high_weights" validate:"min=1"`
	PityLimit   int               `koanf:"pity_limit" validate:"min=1"`
	HighRarity  int               `koanf:"high_rarity" validate:"min=1,max=4"`
}

type ProgressConfig struct {
	DailyGrant int `koanf:"daily_grant" validate:"min=0"`
	MaxMastery int `koanf:"max_mastery" validate:"min=1"`
}

type ReviewConfig struct {
	Size  int `koanf:"size" validate:"min=1"`
	Bonus int `koanf:"bonus" validate:"min=0"`
}

type SimConfig struct {
	Trials int    `koanf:"trials" validate:"min=1"`
	Budget int    `koanf:"budget" validate:"min=0"`
	Seed   uint64 `koanf:"seed"`
}

func Default() Config {
	g := gacha.DefaultConfig()
	r := progress.DefaultRules()
	return Config{
		Log:     LogConfig{Mode: "dev", Level: "info"},
		Server:  ServerConfig{Addr: ":50051"},
		Store:   persist.DefaultOptions(),
		Catalog: CatalogConfig{},
		Gacha: GachaConfig{
			Weights:     g.Weights,
			HighWeights: g.HighWeights,
			PityLimit:   g.PityLimit,
			HighRarity:  g.HighRarity,
		},
		Progress: ProgressConfig{DailyGrant: r.DailyGrant, MaxMastery: r.MaxMastery},
		Review:   ReviewConfig{Size: r.ReviewSize, Bonus: r.ReviewBonus},
		Sim:      SimConfig{Trials: 10000},
	}
}

// Engine is the draw configuration.
func (c Config) Engine() gacha.Config {
	return gacha.Config{
		Weights:     c.Gacha.Weights,
		HighWeights: c.Gacha.HighWeights,
		PityLimit:   c.Gacha.PityLimit,
		HighRarity:  c.Gacha.HighRarity,
	}
}

// Rules are the progression limits.
func (c Config) Rules() progress.Rules {
	return progress.Rules{
		DailyGrant:  c.Progress.DailyGrant,
		MaxMastery:  c.Progress.MaxMastery,
		PityLimit:   c.Gacha.PityLimit,
		ReviewSize:  c.Review.Size,
		ReviewBonus: c.Review.Bonus,
	}
}

// Flags registers the overridable keys on fs, plus --config for the YAML file.
// Flag names are the dotted config keys.
func Flags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a YAML config file")
	fs.String("log.mode", d.Log.Mode, "dev or prod")
	fs.String("log.level", d.Log.Level, "debug, info, warn or error")
	fs.String("server.addr", d.Server.Addr, "gRPC listen address")
	fs.String("catalog.path", d.Catalog.Path, "catalog YAML (empty for the built-in catalog)")
	fs.String("store.backend", d.Store.Backend, "memory, file, sqlite or redis")
	fs.String("store.key", d.Store.Key, "record key")
	fs.String("store.path", d.Store.Path, "directory for the file backend")
	fs.String("store.dsn", d.Store.DSN, "sqlite data source name")
	fs.String("store.redis_addr", d.Store.RedisAddr, "redis address")
	fs.Int("gacha.pity_limit", d.Gacha.PityLimit, "draws per guaranteed high-rarity result")
	fs.Int("sim.trials", d.Sim.Trials, "simulation trials")
	fs.Int("sim.budget", d.Sim.Budget, "draws per trial (0 draws until the first high rarity)")
	fs.Uint64("sim.seed", d.Sim.Seed, "simulation seed (0 picks a random seed)")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the Config. fs may be nil; when set it must have been parsed, and its
// --config flag names the YAML file. Unset flags never override file or env values.
func Load(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	path := os.Getenv(EnvPrefix + "CONFIG")
	if fs != nil {
		if p, err := fs.GetString("config"); err == nil && p != "" {
			path = p
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("config flags: %w", err)
		}
	}

	cfg := Default()
	err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &cfg,
			WeaklyTypedInput: true,
			// lists from a file replace the default lists instead of merging index by index
			ZeroFields: true,
		},
	})
	if err != nil {
		return Config{}, fmt.Errorf("config decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints and the weight tables.
func (c Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			for _, fe := range ves {
				errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			errs = append(errs, err)
		}
	}
	if err := c.Gacha.Weights.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gacha.weights: %w", err))
	}
	if err := c.Gacha.HighWeights.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gacha.high_weights: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
