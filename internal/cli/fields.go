package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/domain/policy"
	"github.com/bnema/webdock/internal/domain/validation"
)

type fieldSetter func(ws *entity.Workspace, value string, patch *entity.WorkspacePatch) error

// prefSetter edits a copy of the workspace overrides. An empty value
// clears the override so the global preference applies again.
func prefSetter(apply func(p *entity.Preferences, value string) error) fieldSetter {
	return func(ws *entity.Workspace, value string, patch *entity.WorkspacePatch) error {
		prefs := ws.Preferences.Clone()
		if prefs == nil {
			prefs = &entity.Preferences{}
		}
		if err := apply(prefs, value); err != nil {
			return err
		}
		patch.Preferences = prefs
		return nil
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func parseRule(value string) (*string, error) {
	if err := policy.ValidateRule(value); err != nil {
		return nil, err
	}
	return optionalString(value), nil
}

var fieldSetters = map[string]fieldSetter{
	"name": func(_ *entity.Workspace, value string, patch *entity.WorkspacePatch) error {
		patch.Name = &value
		return nil
	},
	"home_url": func(_ *entity.Workspace, value string, patch *entity.WorkspacePatch) error {
		patch.HomeURL = &value
		return nil
	},
	"hibernate_when_unused": boolField(func(p *entity.WorkspacePatch, v *bool) { p.HibernateWhenUnused = v }),
	"disable_audio":         boolField(func(p *entity.WorkspacePatch, v *bool) { p.DisableAudio = v }),
	"disable_notifications": boolField(func(p *entity.WorkspacePatch, v *bool) { p.DisableNotifications = v }),
	"user_agent": prefSetter(func(p *entity.Preferences, value string) error {
		p.UserAgent = optionalString(value)
		return nil
	}),
	"color": prefSetter(func(p *entity.Preferences, value string) error {
		if value == "" {
			p.Color = nil
			return nil
		}
		color, err := validation.NormalizeColor(value)
		if err != nil {
			return err
		}
		p.Color = &color
		return nil
	}),
	"internal_url_rule": prefSetter(func(p *entity.Preferences, value string) (err error) {
		p.InternalURLRule, err = parseRule(value)
		return err
	}),
	"external_url_rule": prefSetter(func(p *entity.Preferences, value string) (err error) {
		p.ExternalURLRule, err = parseRule(value)
		return err
	}),
	"block_ads": prefSetter(func(p *entity.Preferences, value string) error {
		if value == "" {
			p.BlockAds = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		p.BlockAds = &b
		return nil
	}),
	"proxy": prefSetter(func(p *entity.Preferences, value string) error {
		if value == "" {
			p.Proxy = nil
			return nil
		}
		mode, rules, _ := strings.Cut(value, ":")
		proxy := entity.ProxyConfig{Mode: entity.ProxyMode(mode), Rules: rules}
		switch proxy.Mode {
		case entity.ProxyModeSystem, entity.ProxyModeNone:
			if rules != "" {
				return fmt.Errorf("proxy mode %q takes no rules", mode)
			}
		case entity.ProxyModeFixed:
			if rules == "" {
				return fmt.Errorf("proxy mode fixed needs rules, like fixed:socks5://127.0.0.1:1080")
			}
		default:
			return fmt.Errorf("unknown proxy mode %q", mode)
		}
		p.Proxy = &proxy
		return nil
	}),
	"extensions": prefSetter(func(p *entity.Preferences, value string) error {
		p.Extensions = nil
		for _, ext := range strings.Split(value, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				p.Extensions = append(p.Extensions, ext)
			}
		}
		return nil
	}),
}

func boolField(set func(*entity.WorkspacePatch, *bool)) fieldSetter {
	return func(_ *entity.Workspace, value string, patch *entity.WorkspacePatch) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		set(patch, &b)
		return nil
	}
}

// FieldNames lists the fields accepted by ParseField.
func FieldNames() []string {
	names := make([]string, 0, len(fieldSetters))
	for name := range fieldSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseField turns `workspaces set <id> <field> <value>` into a patch for ws.
// Field names accept dashes as well as underscores.
func ParseField(ws *entity.Workspace, field, value string) (entity.WorkspacePatch, error) {
	var patch entity.WorkspacePatch
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(field)), "-", "_")
	set, ok := fieldSetters[name]
	if !ok {
		return patch, fmt.Errorf("unknown field %q (known: %s)", field, strings.Join(FieldNames(), ", "))
	}
	if err := set(ws, strings.TrimSpace(value), &patch); err != nil {
		return patch, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return patch, nil
}
