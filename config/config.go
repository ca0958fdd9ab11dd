// koanf_api
package config

import (
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

const (
	Configfile = "./config.toml"
	EnvFile    = ".env.local"
	EnvPrefix  = "MEDIATECA_"
)

var ErrMissingAPIBase = errors.New("general.api_base is not configured")

// Main Config
type MainConfig struct {
	General   GeneralConfig   `koanf:"general"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Taxonomy  TaxonomyConfig  `koanf:"taxonomy"`
}

type GeneralConfig struct {
	WebPort       string   `koanf:"webport"`
	APIBase       string   `koanf:"api_base"`
	APITimeout    int      `koanf:"api_timeout_seconds"`
	SessionDB     string   `koanf:"session_db"`
	SecureCookies bool     `koanf:"secure_cookies"`
	CorsOrigins   []string `koanf:"cors_origins"`
	PageSize      int      `koanf:"page_size"`

	LogLevel     string `koanf:"loglevel"`
	LogFile      string `koanf:"logfile"`
	LogFileSize  int    `koanf:"logfilesize"`
	LogFileCount int    `koanf:"logfilecount"`
	LogCompress  bool   `koanf:"logcompress"`

	Backendlimiterseconds int `koanf:"backendlimiterseconds"`
	Backendlimitercalls   int `koanf:"backendlimitercalls"`
}

type SchedulerConfig struct {
	SessionBackup string `koanf:"session_backup"`
	SessionSweep  string `koanf:"session_sweep"`
}

// TaxonomyConfig carries the option lists rendered in select fields.
// Categories maps a book category to its subcategories.
type TaxonomyConfig struct {
	Categories map[string][]string `koanf:"categories"`
	Lists      map[string][]string `koanf:"lists"`
}

// Options returns the named option list, or the category names for "categorias".
func (t TaxonomyConfig) Options(name string) []string {
	if name == "categorias" {
		out := make([]string, 0, len(t.Categories))
		for key := range t.Categories {
			out = append(out, key)
		}
		sort.Strings(out)
		return out
	}
	return t.Lists[name]
}

// Subcategories returns the subcategories of a book category.
func (t TaxonomyConfig) Subcategories(category string) []string {
	return t.Categories[category]
}

// LoadCfg reads .env.local, the TOML file (optional) and MEDIATECA_ environment
// variables. Nested keys use a double underscore: MEDIATECA_GENERAL__API_BASE.
func LoadCfg(path string) (*MainConfig, error) {
	_ = godotenv.Load(EnvFile)

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load config %s", path)
			}
		}
	}
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	var cfg MainConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	cfg.General.applyDefaults()
	if err := cfg.General.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (g *GeneralConfig) applyDefaults() {
	if g.WebPort == "" {
		g.WebPort = "3000"
	}
	if g.APITimeout <= 0 {
		g.APITimeout = 10
	}
	if g.SessionDB == "" {
		g.SessionDB = "sessions.db"
	}
	if g.PageSize <= 0 {
		g.PageSize = 10
	}
	if g.LogFileSize <= 0 {
		g.LogFileSize = 5
	}
	if g.LogFileCount <= 0 {
		g.LogFileCount = 1
	}
	if g.Backendlimiterseconds <= 0 {
		g.Backendlimiterseconds = 1
	}
	if g.Backendlimitercalls <= 0 {
		g.Backendlimitercalls = 20
	}
	g.APIBase = strings.TrimRight(strings.TrimSpace(g.APIBase), "/")
}

// Validate fails when the backend base URL is missing or not absolute http(s).
func (g GeneralConfig) Validate() error {
	if g.APIBase == "" {
		return ErrMissingAPIBase
	}
	u, err := url.Parse(g.APIBase)
	if err != nil {
		return errors.Wrap(err, "general.api_base")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("general.api_base %q must be an absolute http(s) URL", g.APIBase)
	}
	return nil
}
