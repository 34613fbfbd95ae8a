package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
)

type WordRepository interface {
	Create(ctx context.Context, word *models.Word) error
	GetByID(ctx context.Context, id string) (*models.Word, error)
	GetByClassLevel(ctx context.Context, classLevel string) ([]models.Word, error)
	CountByClassLevel(ctx context.Context, classLevel string) (int, error)
	ExistsInClass(ctx context.Context, classLevel, english string) (bool, error)
}

type wordRepository struct {
	*PostgresRepository
}

func NewWordRepository(db *sql.DB, logger zerolog.Logger) WordRepository {
	return &wordRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *wordRepository) Create(ctx context.Context, word *models.Word) error {
	query := `
		INSERT INTO words (id, class_level, english, turkish_meanings, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		word.ID,
		word.ClassLevel,
		word.English,
		pq.Array(word.TurkishMeanings),
		word.CreatedAt,
	)

	return err
}

func (r *wordRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	query := `
		SELECT id, class_level, english, turkish_meanings, created_at
		FROM words
		WHERE id = $1
	`

	word := &models.Word{}
	var meanings pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&word.ID,
		&word.ClassLevel,
		&word.English,
		&meanings,
		&word.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	word.TurkishMeanings = meanings
	return word, nil
}

func (r *wordRepository) GetByClassLevel(ctx context.Context, classLevel string) ([]models.Word, error) {
	query := `
		SELECT id, class_level, english, turkish_meanings, created_at
		FROM words
		WHERE class_level = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, classLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var word models.Word
		var meanings pq.StringArray
		if err := rows.Scan(
			&word.ID,
			&word.ClassLevel,
			&word.English,
			&meanings,
			&word.CreatedAt,
		); err != nil {
			return nil, err
		}
		word.TurkishMeanings = meanings
		words = append(words, word)
	}

	return words, rows.Err()
}

func (r *wordRepository) CountByClassLevel(ctx context.Context, classLevel string) (int, error) {
	query := `SELECT COUNT(*) FROM words WHERE class_level = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, classLevel).Scan(&count)
	return count, err
}

func (r *wordRepository) ExistsInClass(ctx context.Context, classLevel, english string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM words
			WHERE class_level = $1 AND LOWER(english) = $2
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, classLevel, strings.ToLower(english)).Scan(&exists)
	return exists, err
}
