// Package memory provides in-process implementations of the repository
// interfaces. They back the memory storage driver and the unit tests; no
// database is required.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kelimekutusu/study-service/internal/models"
)

type StudentRepository struct {
	mu       sync.RWMutex
	students map[string]models.Student // keyed by code
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		students: make(map[string]models.Student),
	}
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.students[student.Code] = *student
	return nil
}

func (r *StudentRepository) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	student, ok := r.students[code]
	if !ok {
		return nil, nil
	}
	return &student, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.students[student.Code]
	if !ok {
		return nil
	}
	existing.Name = student.Name
	existing.ClassLevel = student.ClassLevel
	existing.UpdatedAt = student.UpdatedAt
	r.students[student.Code] = existing
	return nil
}

type WordRepository struct {
	mu    sync.RWMutex
	words map[string]models.Word // keyed by id
	order []string
}

func NewWordRepository() *WordRepository {
	return &WordRepository{
		words: make(map[string]models.Word),
	}
}

func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.words[word.ID]; !ok {
		r.order = append(r.order, word.ID)
	}
	r.words[word.ID] = *word
	return nil
}

func (r *WordRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	word, ok := r.words[id]
	if !ok {
		return nil, nil
	}
	return &word, nil
}

// GetByClassLevel returns words in insertion order, matching the stable
// catalog order the scheduler relies on for tie-breaking.
func (r *WordRepository) GetByClassLevel(ctx context.Context, classLevel string) ([]models.Word, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var words []models.Word
	for _, id := range r.order {
		if word := r.words[id]; word.ClassLevel == classLevel {
			words = append(words, word)
		}
	}
	return words, nil
}

func (r *WordRepository) CountByClassLevel(ctx context.Context, classLevel string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, word := range r.words {
		if word.ClassLevel == classLevel {
			count++
		}
	}
	return count, nil
}

func (r *WordRepository) ExistsInClass(ctx context.Context, classLevel, english string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(english)
	for _, word := range r.words {
		if word.ClassLevel == classLevel && strings.ToLower(word.English) == lowered {
			return true, nil
		}
	}
	return false, nil
}

type progressKey struct {
	studentCode string
	wordID      string
}

type ProgressRepository struct {
	mu      sync.RWMutex
	records map[progressKey]models.Progress
}

func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{
		records: make(map[progressKey]models.Progress),
	}
}

func (r *ProgressRepository) Find(ctx context.Context, studentCode, wordID string) (*models.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[progressKey{studentCode, wordID}]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Upsert holds the write lock for the whole create-or-replace, so it is
// atomic per key like the postgres ON CONFLICT statement.
func (r *ProgressRepository) Upsert(ctx context.Context, studentCode, wordID string, boxNumber int, lastStudied *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := progressKey{studentCode, wordID}

	record, ok := r.records[key]
	if !ok {
		record = models.Progress{
			ID:          uuid.New().String(),
			StudentCode: studentCode,
			WordID:      wordID,
			CreatedAt:   now,
		}
	}
	record.BoxNumber = boxNumber
	record.LastStudiedDate = lastStudied
	record.UpdatedAt = now
	r.records[key] = record
	return nil
}

func (r *ProgressRepository) EnsureDefault(ctx context.Context, studentCode, wordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := progressKey{studentCode, wordID}
	if _, ok := r.records[key]; ok {
		return nil
	}

	now := time.Now().UTC()
	r.records[key] = models.Progress{
		ID:          uuid.New().String(),
		StudentCode: studentCode,
		WordID:      wordID,
		BoxNumber:   1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (r *ProgressRepository) ListByStudent(ctx context.Context, studentCode string) ([]models.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []models.Progress
	for key, record := range r.records {
		if key.studentCode == studentCode {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *ProgressRepository) CountByBox(ctx context.Context, studentCode string) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int]int)
	for key, record := range r.records {
		if key.studentCode == studentCode {
			counts[record.BoxNumber]++
		}
	}
	return counts, nil
}

func (r *ProgressRepository) CountStudiedSince(ctx context.Context, studentCode string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for key, record := range r.records {
		if key.studentCode != studentCode || record.LastStudiedDate == nil {
			continue
		}
		if !record.LastStudiedDate.Before(since) {
			count++
		}
	}
	return count, nil
}
