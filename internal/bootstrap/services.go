// Package bootstrap wires configuration, storage and the workspace runtime.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/infrastructure/config"
	"github.com/bnema/webdock/internal/infrastructure/filesystem"
	"github.com/bnema/webdock/internal/infrastructure/partition"
	"github.com/bnema/webdock/internal/infrastructure/persistence/sqlite"
	xdgadapter "github.com/bnema/webdock/internal/infrastructure/xdg"
	"github.com/bnema/webdock/internal/logging"
)

const dataDirPerm = 0o755

// Services are the dependencies shared by the CLI and the runtime: config,
// logger, the workspace store and on-disk adapters. They need no engine.
type Services struct {
	Config      *config.Manager
	Preferences *config.PreferencesAdapter
	FS          *filesystem.Adapter
	XDG         *xdgadapter.Adapter
	Partitions  *partition.Store
	Workspaces  *usecase.ManageWorkspacesUseCase
	Purge       *usecase.PurgeDataUseCase
	ClearData   *usecase.ClearBrowsingDataUseCase

	db         *sql.DB
	ctx        context.Context
	logCleanup func()
}

// ServicesOptions tweak NewServices.
type ServicesOptions struct {
	// Quiet discards log output unless file logging is enabled. CLI
	// commands use it so tables are not interleaved with log lines.
	Quiet bool
}

// NewServices loads the config, builds the logger and opens the store.
func NewServices(opts ServicesOptions) (*Services, error) {
	timer := NewStartupTimer()

	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()
	timer.Mark("config")

	logDir := cfg.Logging.LogDir
	if logDir == "" {
		logDir, _ = config.GetLogDir()
	}
	logger, logCleanup, logErr := logging.NewWithFile(
		logging.Config{Level: logging.ParseLevel(cfg.Logging.Level), Format: cfg.Logging.Format, TimeFormat: "15:04:05"},
		logging.FileConfig{
			Enabled:       cfg.Logging.EnableFileLog,
			Dir:           logDir,
			MaxSizeMB:     cfg.Logging.MaxSizeMB,
			MaxBackups:    cfg.Logging.MaxBackups,
			WriteToStderr: !opts.Quiet,
		},
	)
	ctx := logging.WithContext(context.Background(), logger)
	if logErr != nil {
		logger.Warn().Err(logErr).Str("dir", logDir).Msg("file logging disabled")
	}
	timer.Mark("logger")

	dbFile := cfg.Database.Path
	if dbFile == "" {
		if dbFile, err = config.GetDatabaseFile(); err != nil {
			logCleanup()
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), dataDirPerm); err != nil {
		logCleanup()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sqlite.NewConnection(ctx, dbFile)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug().Str("db_path", dbFile).Msg("database connected")
	timer.Mark("database")

	prefs := config.NewPreferencesAdapter(mgr)
	store, err := usecase.NewManageWorkspacesUseCase(ctx, sqlite.NewWorkspaceRepository(db), func() string {
		return prefs.Preferences().DefaultURL
	})
	if err != nil {
		_ = sqlite.Close(db)
		logCleanup()
		return nil, err
	}

	partitionsDir, err := config.GetPartitionsDir()
	if err != nil {
		_ = sqlite.Close(db)
		logCleanup()
		return nil, err
	}
	fs := filesystem.New()
	xdg := xdgadapter.New()
	partitions := partition.NewStore(partitionsDir, fs)
	timer.Mark("store")
	timer.LogDebug(ctx)

	return &Services{
		Config:      mgr,
		Preferences: prefs,
		FS:          fs,
		XDG:         xdg,
		Partitions:  partitions,
		Workspaces:  store,
		Purge:       usecase.NewPurgeDataUseCase(fs, xdg, partitions, store),
		ClearData:   usecase.NewClearBrowsingDataUseCase(partitions, store, prefs),
		db:          db,
		ctx:         ctx,
		logCleanup:  logCleanup,
	}, nil
}

// Ctx returns the context carrying the logger.
func (s *Services) Ctx() context.Context {
	return s.ctx
}

// Close releases the database and the log file.
func (s *Services) Close() error {
	var err error
	if s.db != nil {
		err = sqlite.Close(s.db)
		s.db = nil
	}
	if s.logCleanup != nil {
		s.logCleanup()
		s.logCleanup = nil
	}
	return err
}
