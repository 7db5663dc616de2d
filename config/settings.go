// Package config provides application settings.
//
// Settings are created via Load() which layers, lowest first:
// - Built-in defaults
// - An optional chatshot.{yaml,json,toml} in . or $HOME/.chatshot
// - CHATSHOT_* environment variables and the provider's API key variable
// - Explicit overrides, usually from command-line flags

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/richinex/chatshot/llm"
)

// Settings holds all application configuration.
type Settings struct {
	LLM     LLMConfig
	Video   VideoConfig
	Timeout time.Duration
}

// LLMConfig holds vision provider configuration.
type LLMConfig struct {
	Provider    llm.ProviderType
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   uint32
	Temperature float64
}

// VideoConfig holds frame sampling configuration.
type VideoConfig struct {
	FrameInterval int
	MaxFrames     int
}

// Overrides are applied last. Zero values leave the loaded setting alone.
type Overrides struct {
	ConfigFile    string
	Provider      string
	Model         string
	BaseURL       string
	APIKey        string
	FrameInterval int
	MaxFrames     int
	Timeout       time.Duration
}

const envPrefix = "CHATSHOT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "dashscope")
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("temperature", 0.1)
	v.SetDefault("frame_interval", 2)
	v.SetDefault("max_frames", 20)
	v.SetDefault("timeout", "2m")
}

// Load builds settings from all sources. A missing API key is not an error
// here; it surfaces when the provider is built.
func Load(o Overrides) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
	} else {
		v.SetConfigName("chatshot")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.chatshot")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.ConfigFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	overrideString(v, "provider", o.Provider)
	overrideString(v, "model", o.Model)
	overrideString(v, "base_url", o.BaseURL)
	overrideInt(v, "frame_interval", o.FrameInterval)
	overrideInt(v, "max_frames", o.MaxFrames)
	if o.Timeout > 0 {
		v.Set("timeout", o.Timeout.String())
	}

	providerType, err := llm.ParseProviderType(v.GetString("provider"))
	if err != nil {
		return Settings{}, err
	}

	if err := v.BindEnv("api_key", envPrefix+"_API_KEY", providerType.EnvVar()); err != nil {
		return Settings{}, err
	}
	overrideString(v, "api_key", o.APIKey)

	maxTokens, err := getUint32(v, "max_tokens")
	if err != nil {
		return Settings{}, err
	}
	temperature, err := getFloat64(v, "temperature")
	if err != nil {
		return Settings{}, err
	}
	frameInterval, err := getPositiveInt(v, "frame_interval")
	if err != nil {
		return Settings{}, err
	}
	maxFrames, err := getPositiveInt(v, "max_frames")
	if err != nil {
		return Settings{}, err
	}
	timeout, err := getDuration(v, "timeout")
	if err != nil {
		return Settings{}, err
	}

	model := v.GetString("model")
	if model == "" {
		model = providerType.DefaultModel()
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    providerType,
			Model:       model,
			BaseURL:     v.GetString("base_url"),
			APIKey:      v.GetString("api_key"),
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Video: VideoConfig{
			FrameInterval: frameInterval,
			MaxFrames:     maxFrames,
		},
		Timeout: timeout,
	}, nil
}

// NewProvider builds the configured vision provider. An empty API key
// yields an error wrapping model.ErrMissingCredential.
func (s Settings) NewProvider() (llm.Provider, error) {
	return llm.NewProviderBuilder(s.LLM.Provider).
		Model(s.LLM.Model).
		BaseURL(s.LLM.BaseURL).
		MaxTokens(s.LLM.MaxTokens).
		Temperature(float32(s.LLM.Temperature)).
		APIKey(s.LLM.APIKey)
}

func overrideString(v *viper.Viper, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func overrideInt(v *viper.Viper, key string, val int) {
	if val > 0 {
		v.Set(key, val)
	}
}

// Value helpers with proper error handling. viper's typed getters turn
// malformed input into zero values, so values are parsed from strings.

func rawValue(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func getPositiveInt(v *viper.Viper, key string) (int, error) {
	val := rawValue(v, key)
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %d: must be positive", key, i)
	}
	return i, nil
}

func getUint32(v *viper.Viper, key string) (uint32, error) {
	val := rawValue(v, key)
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getFloat64(v *viper.Viper, key string) (float64, error) {
	val := rawValue(v, key)
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}

func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	val := rawValue(v, key)
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return d, nil
}
