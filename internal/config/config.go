package config

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/relay"
	"github.com/bytetobeacon/beacon/internal/search"
)

// LocalPath is the project-local config file name.
const LocalPath = ".beacon.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: BEACON_RELAY__SMTP__HOST sets relay.smtp.host.
const EnvPrefix = "BEACON_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Articles: ArticlesConfig{
			Source: articles.SourceEmbedded,
		},
		Search: SearchConfig{
			Debounce: search.DefaultDebounce,
		},
		Relay: RelayConfig{
			Host:   "localhost",
			Port:   8081,
			DBPath: filepath.Join(xdg.DataHome, "beacon", "submissions.db"),
			SMTP: SMTPConfig{
				Port: 587,
				TLS:  true,
			},
		},
	}
}

// GlobalPath is the per-user config file.
func GlobalPath() string {
	return filepath.Join(xdg.ConfigHome, "beacon", "config.yml")
}

// DefaultPath returns .beacon.yml when it exists, else the per-user file
// when that exists, else .beacon.yml.
func DefaultPath() string {
	if _, err := os.Stat(LocalPath); err == nil {
		return LocalPath
	}
	if _, err := os.Stat(GlobalPath()); err == nil {
		return GlobalPath()
	}
	return LocalPath
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BEACON_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: BEACON_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path, creating the
// parent directory.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values. Relay
// settings are only checked when withRelay is set.
func (c *Config) Validate(withRelay bool) error {
	if err := validPort("server.port", c.Server.Port); err != nil {
		return err
	}
	if strings.TrimSpace(c.Articles.Source) == "" {
		return fmt.Errorf("articles.source is required")
	}
	if c.Search.Debounce < 0 || c.Search.Debounce > 5*time.Second {
		return fmt.Errorf("search.debounce must be between 0 and 5s, got %s", c.Search.Debounce)
	}
	if c.Forms.Endpoint != "" && !strings.HasPrefix(c.Forms.Endpoint, "http://") && !strings.HasPrefix(c.Forms.Endpoint, "https://") {
		return fmt.Errorf("forms.endpoint must be an http(s) URL, got %q", c.Forms.Endpoint)
	}
	if withRelay {
		return c.Relay.Validate()
	}
	return nil
}

// Validate checks the relay settings needed to send mail.
func (r RelayConfig) Validate() error {
	if err := validPort("relay.port", r.Port); err != nil {
		return err
	}
	if r.SMTP.Host == "" {
		return errors.New("relay.smtp.host is required")
	}
	if err := validPort("relay.smtp.port", r.SMTP.Port); err != nil {
		return err
	}
	if r.SMTP.Username == "" || r.SMTP.Password == "" {
		return errors.New("relay.smtp.username and relay.smtp.password are required")
	}
	for name, addr := range map[string]string{"relay.from": r.From, "relay.to": r.To} {
		if addr == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, addr, err)
		}
	}
	return nil
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}

// FormsEndpoint is the URL the site posts forms to.
func (c *Config) FormsEndpoint() string {
	if c.Forms.Endpoint != "" {
		return c.Forms.Endpoint
	}
	host := c.Relay.Host
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Relay.Port)) + relay.Path
}
