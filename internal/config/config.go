// Package config loads scenesmith.yaml and the SCENESMITH_* environment
// overrides that drive the CLI and server binaries.
//
// Precedence, lowest to highest: built-in defaults, the YAML file,
// environment variables. Command-line flags sit above all three and are
// applied by the CLI itself.
package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "scenesmith.yaml"

// Duration decodes yaml strings like "45s" or "2h" into a duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root of scenesmith.yaml.
type Config struct {
	Server     Server     `yaml:"server"`
	Store      Store      `yaml:"store"`
	Generation Generation `yaml:"generation"`
	Catalog    Catalog    `yaml:"catalog"`
	Editor     Editor     `yaml:"editor"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr string `yaml:"addr"`
}

// Store selects and configures the project store backend.
type Store struct {
	// Backend is one of "memory", "file" or "redis".
	Backend string `yaml:"backend"`

	// Path is the project directory for the file backend.
	Path string `yaml:"path"`

	Redis Redis `yaml:"redis"`

	// EncryptionKeyEnv names an environment variable holding an
	// AES-256 key (raw or base64). Empty disables the encryption
	// middleware.
	EncryptionKeyEnv string `yaml:"encryptionKeyEnv"`
}

// Redis locates the shared backend for the redis store and locker.
type Redis struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	Prefix   string   `yaml:"prefix"`
	TTL      Duration `yaml:"ttl"`
}

// Generation selects the asset generation provider.
type Generation struct {
	// Provider is "none", "openai" or "http".
	Provider string `yaml:"provider"`

	// BaseURL overrides the provider endpoint. For the "http" provider
	// it is required.
	BaseURL string `yaml:"baseUrl"`

	// ModelBaseURL points model generation at a separate REST backend.
	// For the "http" provider, empty reuses BaseURL.
	ModelBaseURL string `yaml:"modelBaseUrl"`

	// APIKeyEnv names the environment variable carrying the provider
	// credential.
	APIKeyEnv string `yaml:"apiKeyEnv"`
}

// Catalog locates the asset preset library.
type Catalog struct {
	// Root is a directory of markdown preset files. Empty disables the
	// catalog.
	Root string `yaml:"root"`
}

// Editor tunes the in-memory editor core.
type Editor struct {
	// CommandDepth bounds the undo stack.
	CommandDepth int `yaml:"commandDepth"`
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Store: Store{
			Backend: "memory",
			Path:    "",
		},
		Generation: Generation{
			Provider:  "none",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Editor: Editor{CommandDepth: 50},
	}
}

// Load builds the effective configuration from path. A missing file is
// not an error; defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := unmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unmarshalStrict decodes YAML, rejecting keys the Config does not
// know. Empty files are valid and change nothing.
func unmarshalStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv lifts SCENESMITH_* variables over file values.
func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("SCENESMITH_SERVER_ADDR", &cfg.Server.Addr)
	setString("SCENESMITH_STORE_BACKEND", &cfg.Store.Backend)
	setString("SCENESMITH_STORE_PATH", &cfg.Store.Path)
	setString("SCENESMITH_ENCRYPTION_KEY_ENV", &cfg.Store.EncryptionKeyEnv)
	setString("SCENESMITH_REDIS_ADDR", &cfg.Store.Redis.Addr)
	setString("SCENESMITH_REDIS_PASSWORD", &cfg.Store.Redis.Password)
	setString("SCENESMITH_REDIS_PREFIX", &cfg.Store.Redis.Prefix)
	setString("SCENESMITH_GENERATION_PROVIDER", &cfg.Generation.Provider)
	setString("SCENESMITH_GENERATION_BASE_URL", &cfg.Generation.BaseURL)
	setString("SCENESMITH_GENERATION_MODEL_BASE_URL", &cfg.Generation.ModelBaseURL)
	setString("SCENESMITH_GENERATION_API_KEY_ENV", &cfg.Generation.APIKeyEnv)
	setString("SCENESMITH_CATALOG_ROOT", &cfg.Catalog.Root)

	if v, ok := os.LookupEnv("SCENESMITH_REDIS_DB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.Redis.DB = n
		}
	}
	if v, ok := os.LookupEnv("SCENESMITH_REDIS_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Store.Redis.TTL = Duration(d)
		}
	}
	if v, ok := os.LookupEnv("SCENESMITH_COMMAND_DEPTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Editor.CommandDepth = n
		}
	}
}

// Validate rejects values no component could act on.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("store.backend %q: want memory, file or redis", c.Store.Backend)
	}

	switch c.Generation.Provider {
	case "none", "openai", "http":
	default:
		return fmt.Errorf("generation.provider %q: want none, openai or http", c.Generation.Provider)
	}

	if c.Generation.Provider == "http" && c.Generation.BaseURL == "" {
		return errors.New("generation.baseUrl required for the http provider")
	}
	if c.Store.Backend == "redis" && c.Store.Redis.Addr == "" {
		return errors.New("store.redis.addr required for the redis backend")
	}
	if c.Editor.CommandDepth <= 0 {
		return fmt.Errorf("editor.commandDepth %d: must be positive", c.Editor.CommandDepth)
	}
	return nil
}

// APIKey resolves the provider credential from the configured
// environment variable. Empty when unset.
func (g Generation) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// EncryptionKey resolves and decodes the at-rest key. The variable may
// hold the 32 raw bytes or their base64 encoding. Returns nil when no
// key env is configured.
func (s Store) EncryptionKey() ([]byte, error) {
	if s.EncryptionKeyEnv == "" {
		return nil, nil
	}

	raw := os.Getenv(s.EncryptionKeyEnv)
	if raw == "" {
		return nil, fmt.Errorf("encryption key env %s is not set", s.EncryptionKeyEnv)
	}

	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && len(decoded) == 32 {
		return decoded, nil
	}
	if len(raw) == 32 {
		return []byte(raw), nil
	}
	return nil, fmt.Errorf("encryption key in %s must be 32 bytes, raw or base64", s.EncryptionKeyEnv)
}
