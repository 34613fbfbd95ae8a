package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
	"github.com/kelimekutusu/study-service/internal/repository"
)

type ImportService interface {
	ImportStudents(ctx context.Context, r io.Reader) (*models.ImportStudentsResponse, error)
	ImportWords(ctx context.Context, r io.Reader) (*models.ImportWordsResponse, error)
}

type importService struct {
	studentRepo repository.StudentRepository
	wordRepo    repository.WordRepository
	logger      zerolog.Logger
}

func NewImportService(
	studentRepo repository.StudentRepository,
	wordRepo repository.WordRepository,
	logger zerolog.Logger,
) ImportService {
	return &importService{
		studentRepo: studentRepo,
		wordRepo:    wordRepo,
		logger:      logger,
	}
}

// ImportStudents reads CSV rows of code,name,class_level. Rows with the wrong
// column count are skipped; an existing code is updated in place.
func (s *importService) ImportStudents(ctx context.Context, r io.Reader) (*models.ImportStudentsResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &models.ImportStudentsResponse{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Skipping malformed student row")
			continue
		}
		if len(row) != 3 {
			continue
		}

		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		classLevel := strings.TrimSpace(row[2])

		existing, err := s.studentRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check student %q: %w", code, err)
		}

		now := time.Now().UTC()
		if existing != nil {
			existing.Name = name
			existing.ClassLevel = classLevel
			existing.UpdatedAt = now
			if err := s.studentRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to update student %q: %w", code, err)
			}
			result.StudentsUpdated++
			continue
		}

		student := &models.Student{
			ID:         uuid.New().String(),
			Code:       code,
			Name:       name,
			ClassLevel: classLevel,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.studentRepo.Create(ctx, student); err != nil {
			return nil, fmt.Errorf("failed to create student %q: %w", code, err)
		}
		result.StudentsAdded++
	}

	s.logger.Info().
		Int("added", result.StudentsAdded).
		Int("updated", result.StudentsUpdated).
		Msg("Students imported")

	return result, nil
}

// ImportWords reads CSV rows of class_level,english,meanings where meanings
// are joined by semicolons. A word already present in the class (english
// compared lowercased) is left untouched; the first import wins.
func (s *importService) ImportWords(ctx context.Context, r io.Reader) (*models.ImportWordsResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &models.ImportWordsResponse{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Skipping malformed word row")
			continue
		}
		if len(row) != 3 {
			continue
		}

		classLevel := strings.TrimSpace(row[0])
		english := strings.TrimSpace(row[1])
		meanings := splitMeanings(row[2])

		exists, err := s.wordRepo.ExistsInClass(ctx, classLevel, english)
		if err != nil {
			return nil, fmt.Errorf("failed to check word %q: %w", english, err)
		}
		if exists {
			continue
		}

		word := &models.Word{
			ID:              uuid.New().String(),
			ClassLevel:      classLevel,
			English:         english,
			TurkishMeanings: meanings,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.wordRepo.Create(ctx, word); err != nil {
			return nil, fmt.Errorf("failed to create word %q: %w", english, err)
		}
		result.WordsAdded++
	}

	s.logger.Info().
		Int("added", result.WordsAdded).
		Msg("Words imported")

	return result, nil
}

// splitMeanings trims each semicolon-separated meaning but keeps empty
// segments, so every segment in the imported column stays an acceptable
// answer.
func splitMeanings(raw string) []string {
	parts := strings.Split(raw, ";")
	meanings := make([]string, len(parts))
	for i, part := range parts {
		meanings[i] = strings.TrimSpace(part)
	}
	return meanings
}
