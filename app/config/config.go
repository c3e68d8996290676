package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/xtime"
)

// MinTokenLifetime is the shortest period an issued token can be valid for.
const MinTokenLifetime = time.Minute

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server   Server
	Auth     Auth
	Security Security

	fs   vfs.FileSystem
	path string
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Exists returns true if the configuration file exists.
func (c *Config) Exists() (bool, error) {
	_, err := c.fs.Stat(c.path)
	if err == nil {
		return true, nil
	}
	if vfs.IsErrNotExist(err) {
		return false, nil
	}

	return false, fmt.Errorf("failed checking configuration file: %w", err)
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem as JSON.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	// The file contains the application secret.
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o600); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address sql.Null[string] `json:"address"`
	// ErrorLevel is the detail level of error messages returned to clients.
	ErrorLevel sql.Null[handler.ErrorLevel] `json:"error_level"`
	// MaxBodySize is the maximum size of request bodies in bytes. It
	// serializes from/to human readable sizes, e.g. "10 MiB". 0 disables the
	// limit.
	MaxBodySize sql.Null[int64] `json:"max_body_size"`
	// SpoolDir is the directory where files uploaded in streamed forms are
	// temporarily stored.
	SpoolDir sql.Null[string] `json:"spool_dir"`
}

// Auth defines configuration options of token authentication.
type Auth struct {
	// Issuer identifies the tokens issued by this server.
	Issuer sql.Null[string] `json:"issuer"`
	// TokenExpiration is the amount of time issued tokens are valid for.
	// It serializes from/to xtime.Duration string values. Minimum value: MinTokenLifetime.
	TokenExpiration sql.Null[time.Duration] `json:"token_expiration"`
	// Roles maps role names to the scope patterns granted to members of the role.
	Roles map[string][]string `json:"roles"`
}

// Security defines configuration options of cryptographic material.
type Security struct {
	// Secret is the base58 encoded secret tokens are signed with.
	Secret sql.Null[string] `json:"secret"`
}

type cfgWrapper struct {
	Server   srvCfgWrapper      `json:"server"`
	Auth     authCfgWrapper     `json:"auth"`
	Security securityCfgWrapper `json:"security"`
}
type srvCfgWrapper struct {
	Address     string `json:"address,omitempty"`
	ErrorLevel  string `json:"error_level,omitempty"`
	MaxBodySize string `json:"max_body_size,omitempty"`
	SpoolDir    string `json:"spool_dir,omitempty"`
}
type authCfgWrapper struct {
	Issuer          string              `json:"issuer,omitempty"`
	TokenExpiration string              `json:"token_expiration,omitempty"`
	Roles           map[string][]string `json:"roles,omitempty"`
}
type securityCfgWrapper struct {
	Secret string `json:"secret,omitempty"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Address.Valid {
		w.Server.Address = c.Server.Address.V
	}
	if c.Server.ErrorLevel.Valid {
		w.Server.ErrorLevel = string(c.Server.ErrorLevel.V)
	}
	if c.Server.MaxBodySize.Valid {
		w.Server.MaxBodySize = humanize.IBytes(uint64(c.Server.MaxBodySize.V)) //nolint:gosec // Validated on load.
	}
	if c.Server.SpoolDir.Valid {
		w.Server.SpoolDir = c.Server.SpoolDir.V
	}

	if c.Auth.Issuer.Valid {
		w.Auth.Issuer = c.Auth.Issuer.V
	}
	if c.Auth.TokenExpiration.Valid {
		w.Auth.TokenExpiration = xtime.FormatDuration(c.Auth.TokenExpiration.V)
	}
	w.Auth.Roles = c.Auth.Roles

	if c.Security.Secret.Valid {
		w.Security.Secret = c.Security.Secret.V
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types, and parse sizes and durations.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Address != "" {
		c.Server.Address = sql.Null[string]{V: w.Server.Address, Valid: true}
	}
	if w.Server.ErrorLevel != "" {
		lvl, err := handler.ErrorLevelFromString(w.Server.ErrorLevel)
		if err != nil {
			return err //nolint:wrapcheck // The error is descriptive enough.
		}
		c.Server.ErrorLevel = sql.Null[handler.ErrorLevel]{V: lvl, Valid: true}
	}
	if w.Server.MaxBodySize != "" {
		size, err := humanize.ParseBytes(w.Server.MaxBodySize)
		if err != nil {
			return fmt.Errorf("failed parsing server max body size: %w", err)
		}
		if size > 1<<40 {
			return fmt.Errorf("server max body size is too large: %s", w.Server.MaxBodySize)
		}
		c.Server.MaxBodySize = sql.Null[int64]{V: int64(size), Valid: true} //nolint:gosec // Checked above.
	}
	if w.Server.SpoolDir != "" {
		c.Server.SpoolDir = sql.Null[string]{V: w.Server.SpoolDir, Valid: true}
	}

	if w.Auth.Issuer != "" {
		c.Auth.Issuer = sql.Null[string]{V: w.Auth.Issuer, Valid: true}
	}
	if w.Auth.TokenExpiration != "" {
		dur, err := xtime.ParsePositiveDuration(w.Auth.TokenExpiration)
		if err != nil {
			return fmt.Errorf("failed parsing auth token expiration: %w", err)
		}
		if dur < MinTokenLifetime {
			return fmt.Errorf("auth token expiration must be at least %s, got %s",
				xtime.FormatDuration(MinTokenLifetime), w.Auth.TokenExpiration)
		}
		c.Auth.TokenExpiration = sql.Null[time.Duration]{V: dur, Valid: true}
	}
	if w.Auth.Roles != nil {
		c.Auth.Roles = w.Auth.Roles
	}

	if w.Security.Secret != "" {
		c.Security.Secret = sql.Null[string]{V: w.Security.Secret, Valid: true}
	}

	return nil
}

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if !c.Server.Address.Valid {
		c.Server.Address = sql.Null[string]{V: "localhost:8080", Valid: true}
	}
	if !c.Server.ErrorLevel.Valid {
		c.Server.ErrorLevel = sql.Null[handler.ErrorLevel]{V: handler.ErrorLevelMinimal, Valid: true}
	}
	if !c.Server.MaxBodySize.Valid {
		c.Server.MaxBodySize = sql.Null[int64]{V: 10 << 20, Valid: true}
	}
	if !c.Auth.Issuer.Valid {
		c.Auth.Issuer = sql.Null[string]{V: "weave", Valid: true}
	}
	if !c.Auth.TokenExpiration.Valid {
		c.Auth.TokenExpiration = sql.Null[time.Duration]{V: 24 * time.Hour, Valid: true}
	}
	if c.Auth.Roles == nil {
		c.Auth.Roles = map[string][]string{
			"admin": {"*"},
			"user":  {"profile:*"},
		}
	}
}

// RoleNames returns the sorted names of the configured roles.
func (c *Config) RoleNames() []string {
	return slices.Sorted(maps.Keys(c.Auth.Roles))
}
