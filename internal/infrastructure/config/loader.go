package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)

	// WEBDOCK_DATABASE_PATH, WEBDOCK_BROWSING_BLOCK_ADS, ...
	v.SetEnvPrefix("WEBDOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The logger reads these before the config exists; keep the names aligned.
	if err := v.BindEnv("logging.level", "WEBDOCK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind WEBDOCK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "WEBDOCK_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind WEBDOCK_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing config file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile, _ = GetConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf("failed to create default config at %s: %w", configDir, createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// reload unmarshals, normalizes and validates the viper state into m.config.
// Must be called with m.mu held for write.
func (m *Manager) reload() error {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}

	if cfg.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		cfg.Database.Path = dbPath
	}

	normalizeConfig(cfg)

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = cfg
	return nil
}

func normalizeConfig(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}

	switch ProxyMode(strings.ToLower(string(cfg.Browsing.Proxy.Mode))) {
	case "", ProxyModeSystem:
		cfg.Browsing.Proxy.Mode = ProxyModeSystem
	case ProxyModeNone:
		cfg.Browsing.Proxy.Mode = ProxyModeNone
	case ProxyModeFixed:
		cfg.Browsing.Proxy.Mode = ProxyModeFixed
	}

	cfg.DefaultURL = strings.TrimSpace(cfg.DefaultURL)
	cfg.Browsing.Extensions = slices.DeleteFunc(cfg.Browsing.Extensions, func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	return m.config.clone()
}

func (c *Config) clone() *Config {
	out := *c
	out.Browsing.Extensions = slices.Clone(c.Browsing.Extensions)
	out.Compliance.UpsellPatterns = slices.Clone(c.Compliance.UpsellPatterns)
	return &out
}

// Save validates cfg, writes it to the config file and makes it current.
func (m *Manager) Save(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	m.mu.Lock()
	if err := WriteConfigOrdered(cfg, configFile); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.viper.ReadInConfig(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to re-read config: %w", err)
	}
	m.config = cfg.clone()
	// The watcher would otherwise reload what we just wrote.
	m.skipNextReload = m.watching
	m.notifyCallbacksLocked()
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	return WriteConfigOrdered(DefaultConfig(), configFile)
}

// setDefaults registers every default so env-only overrides also unmarshal.
func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", d.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", d.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)

	m.viper.SetDefault("default_url", d.DefaultURL)

	m.viper.SetDefault("browsing.share_browsing_data", d.Browsing.ShareBrowsingData)
	m.viper.SetDefault("browsing.remember_last_page", d.Browsing.RememberLastPage)
	m.viper.SetDefault("browsing.block_ads", d.Browsing.BlockAds)
	m.viper.SetDefault("browsing.custom_user_agent", d.Browsing.CustomUserAgent)
	m.viper.SetDefault("browsing.internal_url_rule", d.Browsing.InternalURLRule)
	m.viper.SetDefault("browsing.external_url_rule", d.Browsing.ExternalURLRule)
	m.viper.SetDefault("browsing.proxy.mode", string(d.Browsing.Proxy.Mode))
	m.viper.SetDefault("browsing.proxy.rules", d.Browsing.Proxy.Rules)
	m.viper.SetDefault("browsing.proxy.bypass_rules", d.Browsing.Proxy.BypassRules)
	m.viper.SetDefault("browsing.extensions", d.Browsing.Extensions)

	m.viper.SetDefault("hibernation.hibernate_unused", d.Hibernation.HibernateUnused)
	m.viper.SetDefault("hibernation.timeout_seconds", d.Hibernation.TimeoutSeconds)

	m.viper.SetDefault("notifications.unread_count_badge", d.Notifications.UnreadCountBadge)

	m.viper.SetDefault("downloads.directory", d.Downloads.Directory)

	m.viper.SetDefault("compliance.block_upsell", d.Compliance.BlockUpsell)
	m.viper.SetDefault("compliance.upsell_patterns", d.Compliance.UpsellPatterns)

	m.viper.SetDefault("icons.fetch_enabled", d.Icons.FetchEnabled)
	m.viper.SetDefault("icons.timeout_seconds", d.Icons.TimeoutSeconds)

	m.viper.SetDefault("content_filter.lists_url", d.ContentFilter.ListsURL)
	m.viper.SetDefault("content_filter.update_interval_hours", d.ContentFilter.UpdateIntervalHours)

	m.viper.SetDefault("metrics.listen_addr", d.Metrics.ListenAddr)
}
