package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/domain/repository"
	"github.com/bnema/webdock/internal/logging"
)

const workspaceColumns = `id, name, sort_order, active, home_url, hibernated, hibernate_when_unused,
	disable_audio, disable_notifications, picture_id, account_info, preferences, last_url,
	created_at, updated_at`

const upsertWorkspaceSQL = `INSERT INTO workspaces (` + workspaceColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		sort_order = excluded.sort_order,
		active = excluded.active,
		home_url = excluded.home_url,
		hibernated = excluded.hibernated,
		hibernate_when_unused = excluded.hibernate_when_unused,
		disable_audio = excluded.disable_audio,
		disable_notifications = excluded.disable_notifications,
		picture_id = excluded.picture_id,
		account_info = excluded.account_info,
		preferences = excluded.preferences,
		last_url = excluded.last_url,
		updated_at = excluded.updated_at`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type workspaceRepo struct {
	db *sql.DB
}

// NewWorkspaceRepository creates a new SQLite-backed workspace repository.
func NewWorkspaceRepository(db *sql.DB) repository.WorkspaceRepository {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) FindAll(ctx context.Context) ([]*entity.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+workspaceColumns+` FROM workspaces ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query workspaces: %w", err)
	}
	defer rows.Close()

	var out []*entity.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (r *workspaceRepo) FindByID(ctx context.Context, id entity.WorkspaceID) (*entity.Workspace, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, string(id))
	ws, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ws, nil
}

func (r *workspaceRepo) Save(ctx context.Context, ws *entity.Workspace) error {
	if err := ws.Validate(); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().
		Str("workspace", string(ws.ID)).
		Int("order", ws.Order).
		Bool("active", ws.Active).
		Msg("saving workspace")
	return upsertWorkspace(ctx, r.db, ws)
}

// SaveAll writes every workspace in one transaction. Deactivated records are
// written first so the single-active index never sees two active rows.
func (r *workspaceRepo) SaveAll(ctx context.Context, workspaces []*entity.Workspace) error {
	for _, ws := range workspaces {
		if err := ws.Validate(); err != nil {
			return err
		}
	}

	ordered := make([]*entity.Workspace, len(workspaces))
	copy(ordered, workspaces)
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].Active && ordered[j].Active
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	for _, ws := range ordered {
		if err := upsertWorkspace(ctx, tx, ws); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit workspaces: %w", err)
	}
	return nil
}

func (r *workspaceRepo) Delete(ctx context.Context, id entity.WorkspaceID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete workspace %s: %w", id, err)
	}
	return nil
}

func upsertWorkspace(ctx context.Context, db execer, ws *entity.Workspace) error {
	accountInfo, err := marshalNullable(ws.AccountInfo)
	if err != nil {
		return fmt.Errorf("encode account info: %w", err)
	}
	prefs, err := marshalNullable(ws.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	_, err = db.ExecContext(ctx, upsertWorkspaceSQL,
		string(ws.ID),
		ws.Name,
		ws.Order,
		ws.Active,
		ws.HomeURL,
		ws.Hibernated,
		ws.HibernateWhenUnused,
		ws.DisableAudio,
		ws.DisableNotifications,
		ws.PictureID,
		accountInfo,
		prefs,
		ws.LastURL,
		toMillis(ws.CreatedAt),
		toMillis(ws.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save workspace %s: %w", ws.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row rowScanner) (*entity.Workspace, error) {
	var (
		ws                  entity.Workspace
		id                  string
		accountInfo, prefs  sql.NullString
		createdAt, updateAt int64
	)
	err := row.Scan(
		&id,
		&ws.Name,
		&ws.Order,
		&ws.Active,
		&ws.HomeURL,
		&ws.Hibernated,
		&ws.HibernateWhenUnused,
		&ws.DisableAudio,
		&ws.DisableNotifications,
		&ws.PictureID,
		&accountInfo,
		&prefs,
		&ws.LastURL,
		&createdAt,
		&updateAt,
	)
	if err != nil {
		return nil, err
	}
	ws.ID = entity.WorkspaceID(id)
	ws.CreatedAt = fromMillis(createdAt)
	ws.UpdatedAt = fromMillis(updateAt)

	if accountInfo.Valid && accountInfo.String != "" {
		ws.AccountInfo = &entity.AccountInfo{}
		if err := json.Unmarshal([]byte(accountInfo.String), ws.AccountInfo); err != nil {
			return nil, fmt.Errorf("decode account info of %s: %w", id, err)
		}
	}
	if prefs.Valid && prefs.String != "" {
		ws.Preferences = &entity.Preferences{}
		if err := json.Unmarshal([]byte(prefs.String), ws.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences of %s: %w", id, err)
		}
	}
	return &ws, nil
}

func marshalNullable[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
