package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
	"github.com/kelimekutusu/study-service/internal/repository"
	"github.com/kelimekutusu/study-service/internal/service/integration"
)

const maxBox = 5

// Feedback messages shown to students after each step.
const (
	msgCompleted  = "Bugünlük çalışma tamamlandı! 🎉 Yarın tekrar gel!"
	msgPromoted   = "Doğru! Kelime %d. kutuya geçti! 📦✨"
	msgStayedTop  = "Mükemmel! Kelime son kutuda kalıyor! 🏆"
	msgStayedSame = "Yanlış! Kelime %d. kutuda kaldı. 📝"
)

type StudyService interface {
	EligibleWords(ctx context.Context, studentCode string) ([]models.StudyWord, error)
	GetNextWord(ctx context.Context, studentCode string) (*models.NextWordResponse, error)
	SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.AnswerResponse, error)
}

type studyService struct {
	studentRepo  repository.StudentRepository
	wordRepo     repository.WordRepository
	progressRepo repository.ProgressRepository
	publisher    integration.EventPublisher
	logger       zerolog.Logger
	now          func() time.Time
}

func NewStudyService(
	studentRepo repository.StudentRepository,
	wordRepo repository.WordRepository,
	progressRepo repository.ProgressRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) StudyService {
	return &studyService{
		studentRepo:  studentRepo,
		wordRepo:     wordRepo,
		progressRepo: progressRepo,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// NewStudyServiceWithClock is NewStudyService with an injected clock, used by
// tests that pin the current time around midnight boundaries.
func NewStudyServiceWithClock(
	studentRepo repository.StudentRepository,
	wordRepo repository.WordRepository,
	progressRepo repository.ProgressRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
	now func() time.Time,
) StudyService {
	s := NewStudyService(studentRepo, wordRepo, progressRepo, publisher, logger).(*studyService)
	s.now = now
	return s
}

// NextBox returns the box a word moves to after an answer. Correct answers
// promote up to box 5 and hold there; wrong answers never demote.
func NextBox(current int, correct bool) int {
	if correct && current < maxBox {
		return current + 1
	}
	return current
}

// midnightPassed reports whether the UTC calendar date has advanced since
// last. Only the date matters; elapsed hours within the same day do not.
func midnightPassed(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}

	lastDay := last.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	return today.After(lastDay)
}

// EligibleWords computes the ordered list of words the student may study
// today. Words without a progress record are lazily recorded at box 1.
// Ordering: boxes 4..1 descending, then eligible box-5 words in catalog
// order. A box-5 word that has been studied once never comes back.
// An unknown student code yields an empty list, so the study loop reports
// completion rather than an error.
func (s *studyService) EligibleWords(ctx context.Context, studentCode string) ([]models.StudyWord, error) {
	student, err := s.studentRepo.GetByCode(ctx, studentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, nil
	}

	words, err := s.wordRepo.GetByClassLevel(ctx, student.ClassLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to get class words: %w", err)
	}

	records, err := s.progressRepo.ListByStudent(ctx, studentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	byWord := make(map[string]models.Progress, len(records))
	for _, record := range records {
		byWord[record.WordID] = record
	}

	now := s.now().UTC()
	var belowTop, atTop []models.StudyWord

	for _, word := range words {
		progress, ok := byWord[word.ID]
		if !ok {
			if err := s.progressRepo.EnsureDefault(ctx, studentCode, word.ID); err != nil {
				return nil, fmt.Errorf("failed to create progress: %w", err)
			}
			belowTop = append(belowTop, models.StudyWord{Word: word, Box: 1})
			continue
		}

		if !midnightPassed(progress.LastStudiedDate, now) {
			continue
		}

		if progress.BoxNumber == maxBox {
			// Box-5 words resurface only while never studied.
			if progress.LastStudiedDate == nil {
				atTop = append(atTop, models.StudyWord{Word: word, Box: progress.BoxNumber})
			}
			continue
		}

		belowTop = append(belowTop, models.StudyWord{Word: word, Box: progress.BoxNumber})
	}

	// Highest box first; equal boxes keep catalog order.
	sort.SliceStable(belowTop, func(i, j int) bool {
		return belowTop[i].Box > belowTop[j].Box
	})

	return append(belowTop, atTop...), nil
}

func (s *studyService) GetNextWord(ctx context.Context, studentCode string) (*models.NextWordResponse, error) {
	eligible, err := s.EligibleWords(ctx, studentCode)
	if err != nil {
		return nil, err
	}

	if len(eligible) == 0 {
		return &models.NextWordResponse{
			Completed: true,
			Message:   msgCompleted,
		}, nil
	}

	next := eligible[0]
	return &models.NextWordResponse{
		Completed:      false,
		WordID:         next.Word.ID,
		English:        next.Word.English,
		CurrentBox:     next.Box,
		RemainingWords: len(eligible),
	}, nil
}

// SubmitAnswer grades an answer, moves the word between boxes, and stamps the
// study date. Correctness is decided here; any client-supplied flag is
// ignored.
func (s *studyService) SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.AnswerResponse, error) {
	word, err := s.wordRepo.GetByID(ctx, req.WordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	if word == nil {
		return nil, ErrWordNotFound
	}

	answer := strings.ToLower(strings.TrimSpace(req.Answer))
	isCorrect := false
	for _, meaning := range word.TurkishMeanings {
		if strings.ToLower(strings.TrimSpace(meaning)) == answer {
			isCorrect = true
			break
		}
	}

	progress, err := s.progressRepo.Find(ctx, req.StudentCode, req.WordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	currentBox := 1
	if progress != nil {
		currentBox = progress.BoxNumber
	}

	newBox := NextBox(currentBox, isCorrect)

	var message string
	switch {
	case isCorrect && currentBox < maxBox:
		message = fmt.Sprintf(msgPromoted, newBox)
	case isCorrect:
		message = msgStayedTop
	default:
		message = fmt.Sprintf(msgStayedSame, currentBox)
	}

	// Studying always stamps the date, right or wrong; the stamp is what
	// gates next-day eligibility.
	studiedAt := s.now().UTC()
	if err := s.progressRepo.Upsert(ctx, req.StudentCode, req.WordID, newBox, &studiedAt); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	s.publishAnswerSubmitted(ctx, req.StudentCode, word, isCorrect, currentBox, newBox, studiedAt)

	s.logger.Info().
		Str("student_code", req.StudentCode).
		Str("word_id", req.WordID).
		Bool("is_correct", isCorrect).
		Int("new_box", newBox).
		Msg("Answer submitted")

	return &models.AnswerResponse{
		WordID:         word.ID,
		English:        word.English,
		IsCorrect:      isCorrect,
		CorrectAnswers: word.TurkishMeanings,
		NewBox:         newBox,
		Message:        message,
	}, nil
}

func (s *studyService) publishAnswerSubmitted(ctx context.Context, studentCode string, word *models.Word, isCorrect bool, previousBox, newBox int, occurredAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := &models.AnswerSubmittedEvent{
		EventType:   "answer_submitted",
		StudentCode: studentCode,
		WordID:      word.ID,
		English:     word.English,
		IsCorrect:   isCorrect,
		PreviousBox: previousBox,
		NewBox:      newBox,
		OccurredAt:  occurredAt,
	}

	if err := s.publisher.PublishAnswerSubmitted(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("student_code", studentCode).
			Str("word_id", word.ID).
			Msg("Failed to publish answer event")
	}
}
