package port

// XDGPaths provides XDG Base Directory paths.
type XDGPaths interface {
	ConfigDir() (string, error)
	DataDir() (string, error)
	StateDir() (string, error)
	CacheDir() (string, error)

	// PartitionsDir holds one storage directory per partition.
	PartitionsDir() (string, error)
	// IconsDir holds workspace pictures.
	IconsDir() (string, error)
	// FilterListsDir caches content filter rule files.
	FilterListsDir() (string, error)
	// DownloadsDir is the user download directory.
	DownloadsDir() (string, error)
}
