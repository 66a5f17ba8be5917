package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dgallion1/docnav/internal/site"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a docnav build.
// Values are populated from .docnav.yaml, DOCNAV_* env vars, and CLI flags.
type Config struct {
	Sidebars string `mapstructure:"sidebars" validate:"required"`
	DocsDir  string `mapstructure:"docs_dir" validate:"required"`

	// HTTP server
	Port   string `mapstructure:"port" validate:"required,numeric"`
	APIKey string `mapstructure:"api_key"`

	// Corpus loading
	WorkerCount          int  `mapstructure:"worker_count" validate:"min=1,max=64"`
	IncludeDrafts        bool `mapstructure:"include_drafts"`
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext"`

	// Builder
	MaxDepth int `mapstructure:"max_depth" validate:"min=0"`

	// Rebuild on change
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`

	LogFormat string `mapstructure:"log_format" validate:"oneof=json text"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	Site site.Config `mapstructure:"site"`
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sidebars", "sidebars.yaml")
	v.SetDefault("docs_dir", "docs")
	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("worker_count", 4)
	v.SetDefault("include_drafts", false)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("max_depth", 0)
	v.SetDefault("watch", false)
	v.SetDefault("debounce", 300*time.Millisecond)
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")
}

// Load reads configuration from the global viper instance.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			_, ns, _ := strings.Cut(fe.Namespace(), ".")
			fields[i] = ns + " (" + fe.Tag() + ")"
		}
		return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
	}
	if c.Debounce < 0 {
		return fmt.Errorf("invalid config: debounce must not be negative")
	}
	return nil
}
