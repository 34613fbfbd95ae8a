package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
	"github.com/kelimekutusu/study-service/internal/repository"
)

type StudentService interface {
	Authenticate(ctx context.Context, code string) (*models.StudentSummary, error)
	Stats(ctx context.Context, code string) (*models.StudentStats, error)
	WordList(ctx context.Context, code string) ([]models.StudentWordStatus, error)
}

type studentService struct {
	studentRepo  repository.StudentRepository
	wordRepo     repository.WordRepository
	progressRepo repository.ProgressRepository
	study        StudyService
	logger       zerolog.Logger
	now          func() time.Time
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	wordRepo repository.WordRepository,
	progressRepo repository.ProgressRepository,
	study StudyService,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		studentRepo:  studentRepo,
		wordRepo:     wordRepo,
		progressRepo: progressRepo,
		study:        study,
		logger:       logger,
		now:          time.Now,
	}
}

// NewStudentServiceWithClock is NewStudentService with an injected clock.
func NewStudentServiceWithClock(
	studentRepo repository.StudentRepository,
	wordRepo repository.WordRepository,
	progressRepo repository.ProgressRepository,
	study StudyService,
	logger zerolog.Logger,
	now func() time.Time,
) StudentService {
	s := NewStudentService(studentRepo, wordRepo, progressRepo, study, logger).(*studentService)
	s.now = now
	return s
}

func (s *studentService) Authenticate(ctx context.Context, code string) (*models.StudentSummary, error) {
	student, err := s.studentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return &models.StudentSummary{
		Code:       student.Code,
		Name:       student.Name,
		ClassLevel: student.ClassLevel,
	}, nil
}

func (s *studentService) Stats(ctx context.Context, code string) (*models.StudentStats, error) {
	student, err := s.studentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	totalWords, err := s.wordRepo.CountByClassLevel(ctx, student.ClassLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to count class words: %w", err)
	}

	counts, err := s.progressRepo.CountByBox(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to count boxes: %w", err)
	}

	// Every box appears even when empty.
	distribution := make(map[string]int, maxBox)
	for box := 1; box <= maxBox; box++ {
		distribution[fmt.Sprintf("box_%d", box)] = counts[box]
	}

	midnight := s.now().UTC().Truncate(24 * time.Hour)
	studiedToday, err := s.progressRepo.CountStudiedSince(ctx, code, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to count studied today: %w", err)
	}

	eligible, err := s.study.EligibleWords(ctx, code)
	if err != nil {
		return nil, err
	}

	return &models.StudentStats{
		TotalWords:        totalWords,
		BoxDistribution:   distribution,
		WordsStudiedToday: studiedToday,
		NextStudyWords:    len(eligible),
	}, nil
}

// WordList returns every word in the student's class with its current box,
// lowest boxes first.
func (s *studentService) WordList(ctx context.Context, code string) ([]models.StudentWordStatus, error) {
	student, err := s.studentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	words, err := s.wordRepo.GetByClassLevel(ctx, student.ClassLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to get class words: %w", err)
	}

	records, err := s.progressRepo.ListByStudent(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	byWord := make(map[string]models.Progress, len(records))
	for _, record := range records {
		byWord[record.WordID] = record
	}

	statuses := make([]models.StudentWordStatus, 0, len(words))
	for _, word := range words {
		status := models.StudentWordStatus{
			ID:              word.ID,
			English:         word.English,
			TurkishMeanings: word.TurkishMeanings,
			Box:             1,
		}
		if progress, ok := byWord[word.ID]; ok {
			status.Box = progress.BoxNumber
			status.LastStudied = progress.LastStudiedDate
		}
		statuses = append(statuses, status)
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Box < statuses[j].Box
	})

	return statuses, nil
}
