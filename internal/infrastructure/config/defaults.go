package config

// Default configuration constants
const (
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3

	defaultHibernationTimeoutSeconds = 300
	defaultIconTimeoutSeconds        = 10
	defaultFilterUpdateIntervalHours = 24
	defaultFilterListsURL            = "https://github.com/bnema/ublock-webkit-filters/releases/latest/download"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			Format:     defaultLogFormat,
			LogDir:     getDefaultLogDir(),
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
		Browsing: BrowsingConfig{
			RememberLastPage: true,
			BlockAds:         false,
			Proxy:            ProxyConfig{Mode: ProxyModeSystem},
			Extensions:       []string{},
		},
		Hibernation: HibernationConfig{
			HibernateUnused: false,
			TimeoutSeconds:  defaultHibernationTimeoutSeconds,
		},
		Notifications: NotificationsConfig{
			UnreadCountBadge: true,
		},
		Compliance: ComplianceConfig{
			UpsellPatterns: []string{},
		},
		Icons: IconsConfig{
			FetchEnabled:   true,
			TimeoutSeconds: defaultIconTimeoutSeconds,
		},
		ContentFilter: ContentFilterConfig{
			ListsURL:            defaultFilterListsURL,
			UpdateIntervalHours: defaultFilterUpdateIntervalHours,
		},
	}
}

func getDefaultLogDir() string {
	dir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return dir
}
