package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// defaults for the public YouTube hub and local service
const (
	defaultHubEndpoint    = "https://pubsubhubbub.appspot.com/subscribe"
	defaultTopicPrefix    = "https://www.youtube.com/xml/feeds/videos.xml?channel_id="
	defaultCallbackPath   = "/webhook"
	defaultRenewSchedule  = "0 */12 * * *"
	defaultDSN            = "file:tubehook.db?cache=shared&mode=rwc&_txlock=immediate"
	defaultNotifyUsername = "tubehook"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server" jsonschema:"required,description=Server configuration"`
	Hub     HubConfig     `yaml:"hub" json:"hub" jsonschema:"required,description=WebSub hub subscription settings"`
	Storage StorageConfig `yaml:"storage" json:"storage" jsonschema:"description=Subscription storage configuration"`
	Notify  NotifyConfig  `yaml:"notify" json:"notify" jsonschema:"description=Notification sink configuration"`
	Renew   RenewConfig   `yaml:"renew" json:"renew" jsonschema:"description=Subscription renewal schedule"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen   string        `yaml:"listen" json:"listen" jsonschema:"required,default=:8080,description=HTTP server listen address"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"required,default=30s,description=HTTP server timeout"`
	APIToken string        `yaml:"api_token" json:"api_token" jsonschema:"required,description=Bearer token for management API (can use environment variable)"`
}

// HubConfig holds hub and callback settings
type HubConfig struct {
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://pubsubhubbub.appspot.com/subscribe,description=Hub subscribe endpoint"`
	TopicPrefix    string        `yaml:"topic_prefix" json:"topic_prefix" jsonschema:"description=Topic URL prefix (channel id appended)"`
	CallbackDomain string        `yaml:"callback_domain" json:"callback_domain" jsonschema:"required,description=Public domain of this service (https assumed without scheme)"`
	CallbackPath   string        `yaml:"callback_path" json:"callback_path" jsonschema:"default=/webhook,description=Path of webhook callback"`
	Secret         string        `yaml:"secret" json:"secret" jsonschema:"required,description=Shared secret for push signatures (can use environment variable)"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Hub request timeout"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:tubehook.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=2,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// NotifyConfig holds notification sink settings
type NotifyConfig struct {
	WebhookURL string        `yaml:"webhook_url" json:"webhook_url" jsonschema:"description=Discord webhook URL (log only if empty)"`
	Username   string        `yaml:"username" json:"username" jsonschema:"default=tubehook,description=Name shown as message author"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Webhook request timeout"`
}

// RenewConfig holds renewal schedule
type RenewConfig struct {
	Schedule string `yaml:"schedule" json:"schedule" jsonschema:"default=0 */12 * * *,description=Cron expression for renew pass"`
	OnStart  bool   `yaml:"on_start" json:"on_start" jsonschema:"default=false,description=Run renew pass on startup"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema check is supplementary to validate
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// hub
	if cfg.Hub.Endpoint == "" {
		cfg.Hub.Endpoint = defaultHubEndpoint
	}
	if cfg.Hub.TopicPrefix == "" {
		cfg.Hub.TopicPrefix = defaultTopicPrefix
	}
	if cfg.Hub.CallbackPath == "" {
		cfg.Hub.CallbackPath = defaultCallbackPath
	}
	if !strings.HasPrefix(cfg.Hub.CallbackPath, "/") {
		cfg.Hub.CallbackPath = "/" + cfg.Hub.CallbackPath
	}
	if cfg.Hub.Timeout == 0 {
		cfg.Hub.Timeout = 30 * time.Second
	}

	// storage
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = defaultDSN
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = 4
	}
	if cfg.Storage.MaxIdleConns == 0 {
		cfg.Storage.MaxIdleConns = 2
	}
	if cfg.Storage.ConnMaxLifetime == 0 {
		cfg.Storage.ConnMaxLifetime = 3600
	}

	// notify
	if cfg.Notify.Username == "" {
		cfg.Notify.Username = defaultNotifyUsername
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = 10 * time.Second
	}

	// renew
	if cfg.Renew.Schedule == "" {
		cfg.Renew.Schedule = defaultRenewSchedule
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Hub.Secret == "" {
		return errors.New("hub.secret is required")
	}
	if cfg.Hub.CallbackDomain == "" {
		return errors.New("hub.callback_domain is required")
	}
	if _, err := url.Parse(cfg.CallbackURL()); err != nil {
		return fmt.Errorf("invalid callback url: %w", err)
	}
	if cfg.Server.APIToken == "" {
		return errors.New("server.api_token is required")
	}

	if cfg.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}
	if cfg.Hub.Timeout < time.Second {
		return errors.New("hub timeout must be at least 1 second")
	}
	if cfg.Notify.Timeout < time.Second {
		return errors.New("notify timeout must be at least 1 second")
	}

	if cfg.Notify.WebhookURL != "" {
		u, err := url.Parse(cfg.Notify.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("notify.webhook_url %q is not a valid http(s) url", cfg.Notify.WebhookURL)
		}
	}

	if _, err := cron.ParseStandard(cfg.Renew.Schedule); err != nil {
		return fmt.Errorf("invalid renew.schedule %q: %w", cfg.Renew.Schedule, err)
	}

	return nil
}

// CallbackURL returns public url of the webhook, scheme defaults to https
func (c *Config) CallbackURL() string {
	domain := strings.TrimSuffix(c.Hub.CallbackDomain, "/")
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return domain + c.Hub.CallbackPath
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetAPIToken returns management api token
func (c *Config) GetAPIToken() string {
	return c.Server.APIToken
}

// GetCallbackPath returns path the webhook served on
func (c *Config) GetCallbackPath() string {
	return c.Hub.CallbackPath
}
