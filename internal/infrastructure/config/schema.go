package config

// Config represents the complete configuration for webdock.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
	// DefaultURL is loaded by workspaces without a home URL. When set, the
	// first workspace ever created is activated automatically.
	DefaultURL    string              `mapstructure:"default_url" toml:"default_url"`
	Browsing      BrowsingConfig      `mapstructure:"browsing" toml:"browsing"`
	Hibernation   HibernationConfig   `mapstructure:"hibernation" toml:"hibernation"`
	Notifications NotificationsConfig `mapstructure:"notifications" toml:"notifications"`
	Downloads     DownloadsConfig     `mapstructure:"downloads" toml:"downloads"`
	Compliance    ComplianceConfig    `mapstructure:"compliance" toml:"compliance"`
	Icons         IconsConfig         `mapstructure:"icons" toml:"icons"`
	ContentFilter ContentFilterConfig `mapstructure:"content_filter" toml:"content_filter"`
	Metrics       MetricsConfig       `mapstructure:"metrics" toml:"metrics"`
}

// DatabaseConfig holds the workspace store location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// LoggingConfig controls logger level, format and the optional log file.
type LoggingConfig struct {
	Level         string `mapstructure:"level" toml:"level"`
	Format        string `mapstructure:"format" toml:"format"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" toml:"max_size_mb"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups"`
}

// ProxyMode mirrors entity.ProxyMode for the config file.
type ProxyMode string

const (
	ProxyModeSystem ProxyMode = "system"
	ProxyModeNone   ProxyMode = "none"
	ProxyModeFixed  ProxyMode = "fixed"
)

// ProxyConfig is the global proxy.
type ProxyConfig struct {
	Mode        ProxyMode `mapstructure:"mode" toml:"mode"`
	Rules       string    `mapstructure:"rules" toml:"rules"`
	BypassRules string    `mapstructure:"bypass_rules" toml:"bypass_rules"`
}

// BrowsingConfig holds the global browsing preferences. Workspaces may
// override most of them.
type BrowsingConfig struct {
	// ShareBrowsingData puts every workspace in one shared storage partition.
	ShareBrowsingData bool   `mapstructure:"share_browsing_data" toml:"share_browsing_data"`
	RememberLastPage  bool   `mapstructure:"remember_last_page" toml:"remember_last_page"`
	BlockAds          bool   `mapstructure:"block_ads" toml:"block_ads"`
	CustomUserAgent   string `mapstructure:"custom_user_agent" toml:"custom_user_agent"`
	// InternalURLRule and ExternalURLRule are regular expressions, one per
	// line. A "glob:" prefix matches host+path with a glob instead.
	InternalURLRule string      `mapstructure:"internal_url_rule" toml:"internal_url_rule"`
	ExternalURLRule string      `mapstructure:"external_url_rule" toml:"external_url_rule"`
	Proxy           ProxyConfig `mapstructure:"proxy" toml:"proxy"`
	Extensions      []string    `mapstructure:"extensions" toml:"extensions"`
}

// HibernationConfig controls reclaiming inactive workspaces.
type HibernationConfig struct {
	HibernateUnused bool `mapstructure:"hibernate_unused" toml:"hibernate_unused"`
	TimeoutSeconds  int  `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
}

// NotificationsConfig controls the application badge.
type NotificationsConfig struct {
	UnreadCountBadge bool `mapstructure:"unread_count_badge" toml:"unread_count_badge"`
}

// DownloadsConfig controls where downloads are saved.
type DownloadsConfig struct {
	// Directory defaults to the XDG download directory when empty.
	Directory string `mapstructure:"directory" toml:"directory"`
}

// ComplianceConfig blocks pages that store rules forbid showing.
type ComplianceConfig struct {
	BlockUpsell    bool     `mapstructure:"block_upsell" toml:"block_upsell"`
	UpsellPatterns []string `mapstructure:"upsell_patterns" toml:"upsell_patterns"`
}

// IconsConfig controls automatic workspace icon fetching.
type IconsConfig struct {
	FetchEnabled   bool `mapstructure:"fetch_enabled" toml:"fetch_enabled"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
}

// ContentFilterConfig controls the rule lists applied to workspaces that
// block ads.
type ContentFilterConfig struct {
	// ListsURL is the base URL serving manifest.json and the rule files.
	ListsURL            string `mapstructure:"lists_url" toml:"lists_url"`
	UpdateIntervalHours int    `mapstructure:"update_interval_hours" toml:"update_interval_hours"`
}

// MetricsConfig exposes Prometheus metrics on a local address.
type MetricsConfig struct {
	// ListenAddr like "127.0.0.1:9464". Empty disables the endpoint.
	ListenAddr string `mapstructure:"listen_addr" toml:"listen_addr"`
}
