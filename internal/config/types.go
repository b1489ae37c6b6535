package config

import (
	"time"

	"github.com/bytetobeacon/beacon/internal/notifications"
)

// Config is the top-level beacon configuration, corresponding to .beacon.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Articles ArticlesConfig `yaml:"articles" koanf:"articles"`
	Search   SearchConfig   `yaml:"search" koanf:"search"`
	Forms    FormsConfig    `yaml:"forms" koanf:"forms"`
	Relay    RelayConfig    `yaml:"relay" koanf:"relay"`
}

// ServerConfig configures the site front end.
type ServerConfig struct {
	Host           string   `yaml:"host" koanf:"host"`
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	// LegacyRouting sends unknown paths to the home page instead of the
	// not-found page.
	LegacyRouting bool `yaml:"legacy_routing" koanf:"legacy_routing"`
}

// ArticlesConfig selects where articles are loaded from: "embedded", a
// file path, a glob of JSON documents, or an http(s) URL.
type ArticlesConfig struct {
	Source string `yaml:"source" koanf:"source"`
}

// SearchConfig tunes live search.
type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce" koanf:"debounce"`
}

// FormsConfig configures where the site's forms are submitted.
type FormsConfig struct {
	// Endpoint is the email relay URL. Empty means the local relay.
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
}

// RelayConfig configures the email relay service.
type RelayConfig struct {
	Host           string     `yaml:"host" koanf:"host"`
	Port           int        `yaml:"port" koanf:"port"`
	AllowedOrigins []string   `yaml:"allowed_origins" koanf:"allowed_origins"`
	From           string     `yaml:"from" koanf:"from"`
	To             string     `yaml:"to" koanf:"to"`
	DBPath         string     `yaml:"db_path" koanf:"db_path"`
	SMTP           SMTPConfig `yaml:"smtp" koanf:"smtp"`
	// Webhooks are notified of every send attempt.
	Webhooks []notifications.Hook `yaml:"webhooks" koanf:"webhooks"`
	// AdminPassword enables the submission log API behind basic auth as
	// user "admin". Empty leaves the API unmounted.
	AdminPassword string `yaml:"admin_password,omitempty" koanf:"admin_password"`
}

// SMTPConfig holds the relay's mail server settings.
type SMTPConfig struct {
	Host     string `yaml:"host" koanf:"host"`
	Port     int    `yaml:"port" koanf:"port"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
	TLS      bool   `yaml:"tls" koanf:"tls"`
}
