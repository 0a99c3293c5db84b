package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Store      StoreConfig       `yaml:"store"`
	Documents  DocumentsConfig   `yaml:"documents"`
	Categories CategoriesConfig  `yaml:"categories"`
	Sessions   SessionsConfig    `yaml:"sessions"`
	Auth       AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Categories.Validate(); err != nil {
		return err
	}
	if err := c.Sessions.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// StoreConfig holds note store addressing.
type StoreConfig struct {
	// Authority is the host part of content:// addresses the store accepts.
	Authority string `yaml:"authority"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Authority == "" {
		c.Authority = uri.DefaultAuthority
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Authority, validation.Required, is.Host),
	)
}

// DocumentsConfig holds the directory notes are exported to and imported from.
// An empty path disables import and export.
type DocumentsConfig struct {
	Path string `yaml:"path"`
}

// CategoriesConfig holds category defaults.
type CategoriesConfig struct {
	DefaultColor string `yaml:"default_color"`
}

// Validate validates the categories configuration.
func (c *CategoriesConfig) Validate() error {
	if c.DefaultColor == "" {
		c.DefaultColor = schema.DefaultColor
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultColor, validation.Match(hexColorRe).Error("must be a #RGB, #RRGGBB or #AARRGGBB color")),
	)
}

// SessionsConfig controls edit sessions held by the HTTP API. A session not
// touched for IdleTimeout is closed: its body is saved, or the note deleted
// when the body is empty.
type SessionsConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Validate validates the sessions configuration.
func (c *SessionsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IdleTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SweepInterval, validation.Required, validation.Min(time.Second)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./notepad.db",
		},
		Store: StoreConfig{
			Authority: uri.DefaultAuthority,
		},
		Documents: DocumentsConfig{
			Path: "./documents",
		},
		Categories: CategoriesConfig{
			DefaultColor: schema.DefaultColor,
		},
		Sessions: SessionsConfig{
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
