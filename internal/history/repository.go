package history

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	AddThumbnail(ctx context.Context, thumb *Thumbnail) error
	ListThumbnails(ctx context.Context, runID string) ([]*Thumbnail, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) RecordRun(ctx context.Context, run *Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, project, group_name, construct, shot_count, thumbnail_count, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Project, run.GroupName, run.Construct, run.ShotCount, run.ThumbnailCount,
		run.Status, run.Error, run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project, group_name, construct, shot_count, thumbnail_count, status, error, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)
	return scanRun(row)
}

func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project, group_name, construct, shot_count, thumbnail_count, status, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &run.Project, &run.GroupName, &run.Construct,
			&run.ShotCount, &run.ThumbnailCount, &run.Status, &run.Error, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		run.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var startedAt, finishedAt string

	err := row.Scan(&run.ID, &run.Project, &run.GroupName, &run.Construct,
		&run.ShotCount, &run.ThumbnailCount, &run.Status, &run.Error, &startedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	return &run, nil
}

func (r *SQLiteRepository) AddThumbnail(ctx context.Context, thumb *Thumbnail) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO thumbnails (id, run_id, shot_uuid, path, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, thumb.ID, thumb.RunID, thumb.ShotUUID, thumb.Path, thumb.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) ListThumbnails(ctx context.Context, runID string) ([]*Thumbnail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, shot_uuid, path, created_at
		FROM thumbnails WHERE run_id = ? ORDER BY created_at
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thumbs []*Thumbnail
	for rows.Next() {
		var thumb Thumbnail
		var createdAt string
		if err := rows.Scan(&thumb.ID, &thumb.RunID, &thumb.ShotUUID, &thumb.Path, &createdAt); err != nil {
			return nil, err
		}
		thumb.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		thumbs = append(thumbs, &thumb)
	}
	return thumbs, rows.Err()
}
