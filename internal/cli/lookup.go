package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/webdock/internal/domain/entity"
)

// ErrAmbiguous is returned when a reference matches several workspaces.
var ErrAmbiguous = errors.New("ambiguous workspace reference")

// FindWorkspace resolves ref against list: an exact id first, then a unique
// id prefix, then a unique case-insensitive name.
func FindWorkspace(list []*entity.Workspace, ref string) (*entity.Workspace, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("empty workspace reference")
	}

	for _, ws := range list {
		if string(ws.ID) == ref {
			return ws, nil
		}
	}

	var byPrefix, byName []*entity.Workspace
	for _, ws := range list {
		if strings.HasPrefix(string(ws.ID), ref) {
			byPrefix = append(byPrefix, ws)
		}
		if strings.EqualFold(ws.DisplayName(), ref) {
			byName = append(byName, ws)
		}
	}
	for _, matches := range [][]*entity.Workspace{byPrefix, byName} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, fmt.Errorf("%w: %q matches %d workspaces", ErrAmbiguous, ref, len(matches))
		}
	}
	return nil, fmt.Errorf("no workspace matches %q", ref)
}
