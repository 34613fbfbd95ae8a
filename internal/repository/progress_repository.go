package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
)

type ProgressRepository interface {
	Find(ctx context.Context, studentCode, wordID string) (*models.Progress, error)
	// Upsert writes box number and last-studied date for the pair in a single
	// statement so concurrent submissions for the same pair cannot interleave.
	Upsert(ctx context.Context, studentCode, wordID string, boxNumber int, lastStudied *time.Time) error
	// EnsureDefault creates a box-1 record with no study date if the pair has
	// none yet; an existing record is left untouched.
	EnsureDefault(ctx context.Context, studentCode, wordID string) error
	ListByStudent(ctx context.Context, studentCode string) ([]models.Progress, error)
	CountByBox(ctx context.Context, studentCode string) (map[int]int, error)
	CountStudiedSince(ctx context.Context, studentCode string, since time.Time) (int, error)
}

type progressRepository struct {
	*PostgresRepository
}

func NewProgressRepository(db *sql.DB, logger zerolog.Logger) ProgressRepository {
	return &progressRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *progressRepository) Find(ctx context.Context, studentCode, wordID string) (*models.Progress, error) {
	query := `
		SELECT id, student_code, word_id, box_number, last_studied_date, created_at, updated_at
		FROM progress
		WHERE student_code = $1 AND word_id = $2
	`

	progress := &models.Progress{}
	var lastStudied sql.NullTime
	err := r.db.QueryRowContext(ctx, query, studentCode, wordID).Scan(
		&progress.ID,
		&progress.StudentCode,
		&progress.WordID,
		&progress.BoxNumber,
		&lastStudied,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastStudied.Valid {
		progress.LastStudiedDate = &lastStudied.Time
	}
	return progress, nil
}

func (r *progressRepository) Upsert(ctx context.Context, studentCode, wordID string, boxNumber int, lastStudied *time.Time) error {
	query := `
		INSERT INTO progress (id, student_code, word_id, box_number, last_studied_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (student_code, word_id) DO UPDATE
		SET box_number = EXCLUDED.box_number,
		    last_studied_date = EXCLUDED.last_studied_date,
		    updated_at = EXCLUDED.updated_at
	`

	var studied sql.NullTime
	if lastStudied != nil {
		studied = sql.NullTime{Time: *lastStudied, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		studentCode,
		wordID,
		boxNumber,
		studied,
		time.Now().UTC(),
	)

	return err
}

func (r *progressRepository) EnsureDefault(ctx context.Context, studentCode, wordID string) error {
	query := `
		INSERT INTO progress (id, student_code, word_id, box_number, last_studied_date, created_at, updated_at)
		VALUES ($1, $2, $3, 1, NULL, $4, $4)
		ON CONFLICT (student_code, word_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		studentCode,
		wordID,
		time.Now().UTC(),
	)

	return err
}

func (r *progressRepository) ListByStudent(ctx context.Context, studentCode string) ([]models.Progress, error) {
	query := `
		SELECT id, student_code, word_id, box_number, last_studied_date, created_at, updated_at
		FROM progress
		WHERE student_code = $1
	`

	rows, err := r.db.QueryContext(ctx, query, studentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Progress
	for rows.Next() {
		var progress models.Progress
		var lastStudied sql.NullTime
		if err := rows.Scan(
			&progress.ID,
			&progress.StudentCode,
			&progress.WordID,
			&progress.BoxNumber,
			&lastStudied,
			&progress.CreatedAt,
			&progress.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if lastStudied.Valid {
			progress.LastStudiedDate = &lastStudied.Time
		}
		records = append(records, progress)
	}

	return records, rows.Err()
}

func (r *progressRepository) CountByBox(ctx context.Context, studentCode string) (map[int]int, error) {
	query := `
		SELECT box_number, COUNT(*)
		FROM progress
		WHERE student_code = $1
		GROUP BY box_number
	`

	rows, err := r.db.QueryContext(ctx, query, studentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var box, count int
		if err := rows.Scan(&box, &count); err != nil {
			return nil, err
		}
		counts[box] = count
	}

	return counts, rows.Err()
}

func (r *progressRepository) CountStudiedSince(ctx context.Context, studentCode string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM progress
		WHERE student_code = $1 AND last_studied_date >= $2
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, studentCode, since).Scan(&count)
	return count, err
}
