// Package config loads itfcal settings from flags, environment and the
// optional .itfcal.yaml file, and validates them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/itfcal/pkg/calendar"
	"github.com/jmylchreest/itfcal/pkg/fetcher"
)

// Calendar defaults.
const (
	DefaultBaseURL    = "https://www.itftennis.com/en/tournament-calendar/world-tennis-tour-juniors-calendar/"
	DefaultYear       = "2025"
	DefaultListenAddr = ":8080"
	MaxPageLimit      = 60
)

// Fetch modes.
const (
	FetchModeDynamic = "dynamic"
	FetchModeStatic  = "static"
)

// Keys used in viper, the config file and ITFCAL_* environment variables.
const (
	KeyBaseURL           = "base_url"
	KeyDefaultYear       = "default_year"
	KeyPageLimit         = "page_limit"
	KeyNavigationTimeout = "navigation_timeout"
	KeyPageTimeout       = "page_timeout"
	KeyFetchMode         = "fetch_mode"
	KeyStealth           = "stealth"
	KeyUserAgent         = "user_agent"
	KeyChromePath        = "chrome_path"
	KeyListenAddr        = "listen_addr"
)

// Config holds all itfcal settings.
type Config struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	DefaultYear       string        `mapstructure:"default_year" validate:"required,len=4,number"`
	PageLimit         int           `mapstructure:"page_limit" validate:"min=1,max=60"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" validate:"gt=0"`
	PageTimeout       time.Duration `mapstructure:"page_timeout" validate:"gt=0"`
	FetchMode         string        `mapstructure:"fetch_mode" validate:"oneof=dynamic static"`
	Stealth           bool          `mapstructure:"stealth"`
	UserAgent         string        `mapstructure:"user_agent"`
	ChromePath        string        `mapstructure:"chrome_path"`
	ListenAddr        string        `mapstructure:"listen_addr" validate:"required,hostname_port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		DefaultYear:       DefaultYear,
		PageLimit:         calendar.DefaultPageLimit,
		NavigationTimeout: calendar.DefaultNavigationTimeout,
		PageTimeout:       calendar.DefaultPageTimeout,
		FetchMode:         FetchModeDynamic,
		UserAgent:         fetcher.DefaultUserAgent,
		ListenAddr:        DefaultListenAddr,
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyDefaultYear, d.DefaultYear)
	v.SetDefault(KeyPageLimit, d.PageLimit)
	v.SetDefault(KeyNavigationTimeout, d.NavigationTimeout)
	v.SetDefault(KeyPageTimeout, d.PageTimeout)
	v.SetDefault(KeyFetchMode, d.FetchMode)
	v.SetDefault(KeyStealth, d.Stealth)
	v.SetDefault(KeyUserAgent, d.UserAgent)
	v.SetDefault(KeyChromePath, d.ChromePath)
	v.SetDefault(KeyListenAddr, d.ListenAddr)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.FetchMode = strings.ToLower(strings.TrimSpace(cfg.FetchMode))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", keyFor(e.StructField()), formatValidationError(e)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// keyFor maps a struct field onto the key users set it with.
func keyFor(field string) string {
	switch field {
	case "BaseURL":
		return KeyBaseURL
	case "DefaultYear":
		return KeyDefaultYear
	case "PageLimit":
		return KeyPageLimit
	case "NavigationTimeout":
		return KeyNavigationTimeout
	case "PageTimeout":
		return KeyPageTimeout
	case "FetchMode":
		return KeyFetchMode
	case "ListenAddr":
		return KeyListenAddr
	default:
		return field
	}
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return "must be positive"
	case "len":
		return fmt.Sprintf("must be %s characters", e.Param())
	case "number":
		return "must be numeric"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostname_port":
		return "must be host:port"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
