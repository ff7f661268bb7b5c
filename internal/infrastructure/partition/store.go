// Package partition maps storage partitions to directories on disk.
package partition

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

const (
	persistPrefix = "persist:"
	// SharedPartition is used by every workspace when browsing data is shared.
	SharedPartition = persistPrefix + "shared"
)

// Store implements port.PartitionStore under a single base directory.
type Store struct {
	baseDir string
	fs      port.FileSystem
}

// NewStore creates a partition store rooted at baseDir.
func NewStore(baseDir string, fs port.FileSystem) *Store {
	return &Store{baseDir: baseDir, fs: fs}
}

// PartitionID returns "persist:<id>", or the shared partition.
func (s *Store) PartitionID(id entity.WorkspaceID, shared bool) string {
	if shared {
		return SharedPartition
	}
	return persistPrefix + string(id)
}

// Path returns the directory of a partition. Only persist: partitions
// with a plain name are accepted.
func (s *Store) Path(partitionID string) (string, error) {
	name, ok := strings.CutPrefix(partitionID, persistPrefix)
	if !ok || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid partition %q", partitionID)
	}
	return filepath.Join(s.baseDir, name), nil
}

// Wipe deletes every file of a partition.
func (s *Store) Wipe(ctx context.Context, partitionID string) error {
	path, err := s.Path(partitionID)
	if err != nil {
		return err
	}
	if err := s.fs.RemoveAll(ctx, path); err != nil {
		return fmt.Errorf("wipe partition %s: %w", partitionID, err)
	}
	logging.FromContext(ctx).Debug().Str("partition", partitionID).Str("path", path).Msg("partition wiped")
	return nil
}

var _ port.PartitionStore = (*Store)(nil)
