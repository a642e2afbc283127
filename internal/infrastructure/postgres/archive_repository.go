package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo registro append-only sobre archive_entries (snapshot JSONB).
type ArchiveRepo struct {
	q Querier
}

// NewArchiveRepository construye el adaptador del archivo.
func NewArchiveRepository(q Querier) *ArchiveRepo {
	return &ArchiveRepo{q: q}
}

const archiveColumns = `id, kind, original_id, snapshot, actor_id, reason, archived_at`

func scanArchive(row pgx.Row) (*entity.ArchiveEntry, error) {
	var (
		e    entity.ArchiveEntry
		kind string
		snap []byte
	)
	if err := row.Scan(&e.ID, &kind, &e.OriginalID, &snap, &e.ActorID, &e.Reason, &e.ArchivedAt); err != nil {
		return nil, err
	}
	e.Kind = entity.ArchiveKind(kind)
	e.Snapshot = snap
	return &e, nil
}

func (r *ArchiveRepo) Create(ctx context.Context, e *entity.ArchiveEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO archive_entries (id, kind, original_id, snapshot, actor_id, reason, archived_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)`,
		e.ID, string(e.Kind), e.OriginalID, string(e.Snapshot), e.ActorID, e.Reason, e.ArchivedAt)
	if err != nil {
		return fmt.Errorf("insert archive entry: %w", err)
	}
	return nil
}

func (r *ArchiveRepo) GetByID(ctx context.Context, id string) (*entity.ArchiveEntry, error) {
	e, err := scanArchive(r.q.QueryRow(ctx, `SELECT `+archiveColumns+` FROM archive_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archive entry: %w", err)
	}
	return e, nil
}

func (r *ArchiveRepo) collect(ctx context.Context, query string, args ...any) ([]*entity.ArchiveEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list archive entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.ArchiveEntry
	for rows.Next() {
		e, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByKind entradas más recientes primero.
func (r *ArchiveRepo) ListByKind(ctx context.Context, kind entity.ArchiveKind, limit, offset int) ([]*entity.ArchiveEntry, error) {
	return r.collect(ctx, `SELECT `+archiveColumns+` FROM archive_entries WHERE kind = $1 ORDER BY archived_at DESC, id LIMIT $2 OFFSET $3`,
		string(kind), limit, offset)
}

// ListByOriginalID historial de un id original, en orden cronológico.
func (r *ArchiveRepo) ListByOriginalID(ctx context.Context, kind entity.ArchiveKind, originalID string) ([]*entity.ArchiveEntry, error) {
	return r.collect(ctx, `SELECT `+archiveColumns+` FROM archive_entries WHERE kind = $1 AND original_id = $2 ORDER BY archived_at, id`,
		string(kind), originalID)
}
