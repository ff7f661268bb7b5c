package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// WorkspaceID uniquely identifies a workspace.
type WorkspaceID string

// AccountInfo is the identity detected from the site loaded in a workspace.
type AccountInfo struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	PictureID string `json:"pictureId,omitempty"`
}

// Workspace is a persisted, user-configured browsing identity.
// It is bound to at most one live browsing context at a time.
type Workspace struct {
	ID                   WorkspaceID  `json:"id"`
	Name                 string       `json:"name,omitempty"`
	Order                int          `json:"order"`
	Active               bool         `json:"active"`
	HomeURL              string       `json:"homeUrl,omitempty"`
	Hibernated           bool         `json:"hibernated"`
	HibernateWhenUnused  bool         `json:"hibernateWhenUnused"`
	DisableAudio         bool         `json:"disableAudio"`
	DisableNotifications bool         `json:"disableNotifications"`
	PictureID            string       `json:"pictureId,omitempty"`
	AccountInfo          *AccountInfo `json:"accountInfo,omitempty"`
	Preferences          *Preferences `json:"preferences,omitempty"`
	LastURL              string       `json:"lastUrl,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

var ErrInvalidWorkspace = errors.New("invalid workspace")

func (w *Workspace) Validate() error {
	if w == nil {
		return ErrInvalidWorkspace
	}
	if w.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidWorkspace)
	}
	if w.Order < 0 {
		return fmt.Errorf("%w: negative order %d", ErrInvalidWorkspace, w.Order)
	}
	if w.HomeURL != "" {
		u, err := url.Parse(w.HomeURL)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("%w: home url %q is not absolute", ErrInvalidWorkspace, w.HomeURL)
		}
	}
	return nil
}

// DisplayName returns the name to show in lists, falling back to the
// detected account and finally to the home URL host.
func (w *Workspace) DisplayName() string {
	if name := strings.TrimSpace(w.Name); name != "" {
		return name
	}
	if w.AccountInfo != nil {
		if w.AccountInfo.Name != "" {
			return w.AccountInfo.Name
		}
		if w.AccountInfo.Email != "" {
			return w.AccountInfo.Email
		}
	}
	if u, err := url.Parse(w.HomeURL); err == nil && u.Host != "" {
		return u.Host
	}
	return string(w.ID)
}

// Clone returns a deep copy so callers never share nested pointers with the store.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	c := *w
	if w.AccountInfo != nil {
		info := *w.AccountInfo
		c.AccountInfo = &info
	}
	c.Preferences = w.Preferences.Clone()
	return &c
}

// WorkspacePatch is a partial update. Nil fields are left untouched.
type WorkspacePatch struct {
	Name                 *string      `json:"name,omitempty"`
	HomeURL              *string      `json:"homeUrl,omitempty"`
	Hibernated           *bool        `json:"hibernated,omitempty"`
	HibernateWhenUnused  *bool        `json:"hibernateWhenUnused,omitempty"`
	DisableAudio         *bool        `json:"disableAudio,omitempty"`
	DisableNotifications *bool        `json:"disableNotifications,omitempty"`
	PictureID            *string      `json:"pictureId,omitempty"`
	AccountInfo          *AccountInfo `json:"accountInfo,omitempty"`
	Preferences          *Preferences `json:"preferences,omitempty"`
	LastURL              *string      `json:"lastUrl,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p WorkspacePatch) IsEmpty() bool {
	return p == WorkspacePatch{}
}

// Apply shallow-merges the patch into w.
func (p WorkspacePatch) Apply(w *Workspace) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.HomeURL != nil {
		w.HomeURL = *p.HomeURL
	}
	if p.Hibernated != nil {
		w.Hibernated = *p.Hibernated
	}
	if p.HibernateWhenUnused != nil {
		w.HibernateWhenUnused = *p.HibernateWhenUnused
	}
	if p.DisableAudio != nil {
		w.DisableAudio = *p.DisableAudio
	}
	if p.DisableNotifications != nil {
		w.DisableNotifications = *p.DisableNotifications
	}
	if p.PictureID != nil {
		w.PictureID = *p.PictureID
	}
	if p.AccountInfo != nil {
		info := *p.AccountInfo
		w.AccountInfo = &info
	}
	if p.Preferences != nil {
		w.Preferences = p.Preferences.Clone()
	}
	if p.LastURL != nil {
		w.LastURL = *p.LastURL
	}
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}
