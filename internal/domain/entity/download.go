package entity

import "time"

// DownloadState tracks the lifecycle of a download.
type DownloadState string

const (
	DownloadProgressing DownloadState = "progressing"
	DownloadCompleted   DownloadState = "completed"
	DownloadCancelled   DownloadState = "cancelled"
	DownloadInterrupted DownloadState = "interrupted"
)

// DownloadItem is tracked only while in flight.
type DownloadItem struct {
	ID            string        `json:"id"`
	WorkspaceID   WorkspaceID   `json:"workspaceId"`
	URL           string        `json:"url,omitempty"`
	TotalBytes    int64         `json:"totalBytes"`
	ReceivedBytes int64         `json:"receivedBytes"`
	State         DownloadState `json:"state"`
	SavePath      string        `json:"savePath"`
	StartedAt     time.Time     `json:"startedAt"`
}

// IsSettled reports whether the download reached a terminal state.
func (d *DownloadItem) IsSettled() bool {
	return d.State == DownloadCompleted || d.State == DownloadCancelled || d.State == DownloadInterrupted
}
