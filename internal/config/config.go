// Package config loads auction-draft settings with viper: defaults, then a
// YAML config file, then AUCTION_DRAFT_* environment variables, then flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"auction-draft-mcp/internal/model"
	"auction-draft-mcp/internal/rules"
)

// EnvPrefix is prepended to environment overrides, e.g.
// AUCTION_DRAFT_LEAGUE_NUM_TEAMS for league.num_teams.
const EnvPrefix = "AUCTION_DRAFT"

// APIKeyEnv holds the server API key. It is never read from the config file.
const APIKeyEnv = "AUCTION_DRAFT_API_KEY"

type Config struct {
	League  LeagueConfig  `mapstructure:"league" yaml:"league"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LeagueConfig holds the roster and budget policy.
type LeagueConfig struct {
	NumTeams       int `mapstructure:"num_teams" yaml:"num_teams"`
	StartingBudget int `mapstructure:"starting_budget" yaml:"starting_budget"`
	RosterSize     int `mapstructure:"roster_size" yaml:"roster_size"`
	// StartingSlots maps position (QB, RB, WR, TE, FLEX, K, DEF) to count
	StartingSlots map[string]int `mapstructure:"starting_slots" yaml:"starting_slots"`
	// TeamNames replaces "Team 1".."Team N" when set; must have num_teams entries
	TeamNames []string `mapstructure:"team_names" yaml:"team_names,omitempty"`
}

type CatalogConfig struct {
	// Source is a local CSV/XLSX path or an http(s) URL
	Source string `mapstructure:"source" yaml:"source"`
	// Sheet selects the XLSX worksheet (default: first sheet)
	Sheet string `mapstructure:"sheet" yaml:"sheet,omitempty"`
	// CacheDir holds downloaded URL sources (default: next to the store)
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir,omitempty"`
	// RefreshRemote re-downloads a URL source instead of using the cache
	RefreshRemote bool `mapstructure:"refresh_remote" yaml:"refresh_remote"`
}

type StoreConfig struct {
	// Driver is one of: json, sqlite, memory
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path is the data directory (json) or database file (sqlite)
	Path string `mapstructure:"path" yaml:"path"`
	// SessionID names the draft session to resume
	SessionID string `mapstructure:"session_id" yaml:"session_id"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MCPPath     string `mapstructure:"mcp_path" yaml:"mcp_path"`
	RequireAuth bool   `mapstructure:"require_auth" yaml:"require_auth"`
	AuthHeader  string `mapstructure:"auth_header" yaml:"auth_header"`
	DevMode     bool   `mapstructure:"dev_mode" yaml:"dev_mode"`
}

type LoggingConfig struct {
	// Level is one of: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// Format is json or text
	Format string `mapstructure:"format" yaml:"format"`
	// Dir, when set, sends logs to <dir>/auction-draft.log instead of stderr
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// Default mirrors rules.Default for the league section.
func Default() *Config {
	r := rules.Default()
	slots := make(map[string]int, len(r.StartingSlots))
	for pos, n := range r.StartingSlots {
		slots[string(pos)] = n
	}
	return &Config{
		League: LeagueConfig{
			NumTeams:       r.NumTeams,
			StartingBudget: r.StartingBudget,
			RosterSize:     r.RosterSize,
			StartingSlots:  slots,
		},
		Catalog: CatalogConfig{
			Source: "data/players.csv",
		},
		Store: StoreConfig{
			Driver:    "json",
			Path:      "data",
			SessionID: "default",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MCPPath:     "/mcp",
			RequireAuth: true,
			AuthHeader:  "X-API-Key",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// SetDefaults registers Default() with viper so every key resolves even
// without a config file. league.starting_slots is filled in by Load
// instead, so a configured slot map replaces the default one whole.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("league.num_teams", d.League.NumTeams)
	v.SetDefault("league.starting_budget", d.League.StartingBudget)
	v.SetDefault("league.roster_size", d.League.RosterSize)
	v.SetDefault("league.team_names", d.League.TeamNames)

	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("catalog.sheet", d.Catalog.Sheet)
	v.SetDefault("catalog.cache_dir", d.Catalog.CacheDir)
	v.SetDefault("catalog.refresh_remote", d.Catalog.RefreshRemote)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.session_id", d.Store.SessionID)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mcp_path", d.Server.MCPPath)
	v.SetDefault("server.require_auth", d.Server.RequireAuth)
	v.SetDefault("server.auth_header", d.Server.AuthHeader)
	v.SetDefault("server.dev_mode", d.Server.DevMode)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.dir", d.Logging.Dir)
}

// NewViper returns a viper instance with defaults and env binding set up.
// configFile may be empty to search the standard locations.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and decodes the result. A config file that is
// not found while searching is ignored; an explicitly named file must exist.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.League.StartingSlots) == 0 {
		cfg.League.StartingSlots = Default().League.StartingSlots
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Rules converts the league section to roster rules.
func (c *Config) Rules() (rules.Rules, error) {
	slots := make(map[model.Position]int, len(c.League.StartingSlots))
	for name, n := range c.League.StartingSlots {
		pos, err := model.ParsePosition(name)
		if err != nil {
			return rules.Rules{}, fmt.Errorf("league.starting_slots: %w", err)
		}
		slots[pos] += n
	}
	r := rules.Rules{
		NumTeams:       c.League.NumTeams,
		StartingBudget: c.League.StartingBudget,
		RosterSize:     c.League.RosterSize,
		StartingSlots:  slots,
		TeamNames:      c.League.TeamNames,
	}
	return r, r.Validate()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.Rules(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("store.driver %q is not one of json, sqlite, memory", c.Store.Driver)
	}
	if c.Store.SessionID == "" {
		return fmt.Errorf("store.session_id is required")
	}
	if !strings.HasPrefix(c.Server.MCPPath, "/") {
		return fmt.Errorf("server.mcp_path must start with /")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not json or text", c.Logging.Format)
	}
	return nil
}

// YAML renders the config as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes the config as YAML, creating parent directories.
func (c *Config) WriteFile(path string) error {
	b, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ConfigDir is $XDG_CONFIG_HOME/auction-draft or ~/.config/auction-draft.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "auction-draft")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auction-draft"
	}
	return filepath.Join(home, ".config", "auction-draft")
}
