package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FactoryConfig describes one pool factory in the config file.
type FactoryConfig struct {
	Name         string   `mapstructure:"name"`
	Address      string   `mapstructure:"address"`
	InitCodeHash string   `mapstructure:"init-code-hash"`
	Type         string   `mapstructure:"type"`
	Fees         []uint64 `mapstructure:"fees"`
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL       string
	ChainID      uint64
	Tokens       []string
	Factories    []FactoryConfig
	BatchSize    int
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
	Out          string
	PGDSN        string
	// Blacklist and Whitelist seed the registry, keyed by pool type name.
	Blacklist map[string][]string
	Whitelist map[string][]string
	LogLevel  string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("batch-size", 50)
		v.SetDefault("concurrency", 8)
		v.SetDefault("max-retries", 5)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
		v.SetDefault("out", "./data/pools.jsonl")
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return Config{}, err
	}

	var factories []FactoryConfig
	if err := v.UnmarshalKey("factories", &factories); err != nil {
		return Config{}, fmt.Errorf("decode factories: %w", err)
	}

	cfg := Config{
		RPCURL:       v.GetString("rpc"),
		ChainID:      v.GetUint64("chain-id"),
		Tokens:       getStringSlice(v, "tokens"),
		Factories:    factories,
		BatchSize:    v.GetInt("batch-size"),
		Concurrency:  v.GetInt("concurrency"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		Blacklist:    getSeedMap(v, "blacklist"),
		Whitelist:    getSeedMap(v, "whitelist"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// DeriveConfig holds inputs for a single offline address derivation.
type DeriveConfig struct {
	Factory      string
	TokenA       string
	TokenB       string
	InitCodeHash string
	Fee          uint64
	LogLevel     string
}

// LoadDerive merges config file, environment variables, and flags into DeriveConfig.
func LoadDerive(cfgFile string, flags *pflag.FlagSet) (DeriveConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("fee", 0)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return DeriveConfig{}, err
	}

	return DeriveConfig{
		Factory:      v.GetString("factory"),
		TokenA:       v.GetString("token-a"),
		TokenB:       v.GetString("token-b"),
		InitCodeHash: v.GetString("init-code-hash"),
		Fee:          v.GetUint64("fee"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getSeedMap(v *viper.Viper, key string) map[string][]string {
	out := make(map[string][]string)
	if !v.IsSet(key) {
		return out
	}
	for poolType := range v.GetStringMap(key) {
		out[poolType] = getStringSlice(v, key+"."+poolType)
	}
	return out
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
