package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/webdock/internal/domain/policy"
)

// validateConfig performs comprehensive validation of configuration values.
// Every problem is reported, not just the first.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateDefaultURL(config)...)
	validationErrors = append(validationErrors, validateBrowsing(config)...)
	validationErrors = append(validationErrors, validateHibernation(config)...)
	validationErrors = append(validationErrors, validateCompliance(config)...)
	validationErrors = append(validationErrors, validateIcons(config)...)
	validationErrors = append(validationErrors, validateContentFilter(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be json or console (got %q)", config.Logging.Format))
	}
	if config.Logging.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}

func validateDefaultURL(config *Config) []string {
	if config.DefaultURL == "" {
		return nil
	}
	u, err := url.Parse(config.DefaultURL)
	if err != nil || u.Scheme == "" {
		return []string{fmt.Sprintf("default_url must be an absolute URL (got %q)", config.DefaultURL)}
	}
	return nil
}

func validateBrowsing(config *Config) []string {
	var validationErrors []string
	proxy := config.Browsing.Proxy
	switch proxy.Mode {
	case ProxyModeSystem, ProxyModeNone:
	case ProxyModeFixed:
		if strings.TrimSpace(proxy.Rules) == "" {
			validationErrors = append(validationErrors, "browsing.proxy.rules is required when browsing.proxy.mode is fixed")
		}
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("browsing.proxy.mode must be system, none or fixed (got %q)", proxy.Mode))
	}
	if err := policy.ValidateRule(config.Browsing.InternalURLRule); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("browsing.internal_url_rule is invalid: %v", err))
	}
	if err := policy.ValidateRule(config.Browsing.ExternalURLRule); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("browsing.external_url_rule is invalid: %v", err))
	}
	return validationErrors
}

func validateHibernation(config *Config) []string {
	if config.Hibernation.TimeoutSeconds < 0 {
		return []string{"hibernation.timeout_seconds must be non-negative"}
	}
	return nil
}

func validateCompliance(config *Config) []string {
	var validationErrors []string
	for i, p := range config.Compliance.UpsellPatterns {
		if err := policy.ValidateRule(p); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("compliance.upsell_patterns[%d] is invalid: %v", i, err))
		}
	}
	return validationErrors
}

func validateIcons(config *Config) []string {
	if config.Icons.TimeoutSeconds < 0 {
		return []string{"icons.timeout_seconds must be non-negative"}
	}
	return nil
}

func validateContentFilter(config *Config) []string {
	var validationErrors []string
	if raw := config.ContentFilter.ListsURL; raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			validationErrors = append(validationErrors, "content_filter.lists_url must be an http(s) URL")
		}
	}
	if config.ContentFilter.UpdateIntervalHours < 0 {
		validationErrors = append(validationErrors, "content_filter.update_interval_hours must be non-negative")
	}
	return validationErrors
}
