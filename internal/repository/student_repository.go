package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByCode(ctx context.Context, code string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db *sql.DB, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, code, name, class_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		student.ID,
		student.Code,
		student.Name,
		student.ClassLevel,
		student.CreatedAt,
		student.UpdatedAt,
	)

	return err
}

func (r *studentRepository) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	query := `
		SELECT id, code, name, class_level, created_at, updated_at
		FROM students
		WHERE code = $1
	`

	student := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&student.ID,
		&student.Code,
		&student.Name,
		&student.ClassLevel,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return student, err
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET name = $2, class_level = $3, updated_at = $4
		WHERE code = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		student.Code,
		student.Name,
		student.ClassLevel,
		student.UpdatedAt,
	)

	return err
}
