package port

import (
	"context"

	"github.com/bnema/webdock/internal/domain/entity"
)

// PartitionStore manages on-disk storage partitions.
type PartitionStore interface {
	// PartitionID returns the partition for a workspace, honoring shared mode.
	PartitionID(id entity.WorkspaceID, shared bool) string
	// Path returns the on-disk directory of a partition.
	Path(partitionID string) (string, error)
	// Wipe deletes all data of a partition. Missing partitions are not an error.
	Wipe(ctx context.Context, partitionID string) error
}

// IconFetcher downloads a site icon and stores it locally.
type IconFetcher interface {
	// FetchIcon returns the picture id of the stored icon.
	FetchIcon(ctx context.Context, pageURL string) (string, error)
}

// AccountDetector extracts the signed-in identity from page HTML.
type AccountDetector interface {
	Detect(pageURL, html string) (*entity.AccountInfo, bool)
}
