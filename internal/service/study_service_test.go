package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/models"
	"github.com/kelimekutusu/study-service/internal/repository/memory"
)

type fixture struct {
	students *memory.StudentRepository
	words    *memory.WordRepository
	progress *memory.ProgressRepository
	study    StudyService
	clock    *fakeClock
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		students: memory.NewStudentRepository(),
		words:    memory.NewWordRepository(),
		progress: memory.NewProgressRepository(),
		clock:    &fakeClock{current: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	f.study = NewStudyServiceWithClock(f.students, f.words, f.progress, nil, zerolog.Nop(), f.clock.Now)
	return f
}

func (f *fixture) seedStudent(t *testing.T, code, classLevel string) {
	t.Helper()

	now := time.Now().UTC()
	err := f.students.Create(context.Background(), &models.Student{
		ID:         uuid.New().String(),
		Code:       code,
		Name:       "Test Student",
		ClassLevel: classLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
}

func (f *fixture) seedWord(t *testing.T, classLevel, english string, meanings ...string) string {
	t.Helper()

	id := uuid.New().String()
	err := f.words.Create(context.Background(), &models.Word{
		ID:              id,
		ClassLevel:      classLevel,
		English:         english,
		TurkishMeanings: meanings,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed word: %v", err)
	}
	return id
}

func (f *fixture) setProgress(t *testing.T, code, wordID string, box int, studied *time.Time) {
	t.Helper()

	if err := f.progress.Upsert(context.Background(), code, wordID, box, studied); err != nil {
		t.Fatalf("set progress: %v", err)
	}
}

// --- box transitions ---

func TestNextBoxPromotesOnCorrect(t *testing.T) {
	for box := 1; box <= 4; box++ {
		if got := NextBox(box, true); got != box+1 {
			t.Errorf("NextBox(%d, true) = %d, want %d", box, got, box+1)
		}
	}
}

func TestNextBoxHoldsAtTop(t *testing.T) {
	if got := NextBox(5, true); got != 5 {
		t.Errorf("NextBox(5, true) = %d, want 5", got)
	}
}

func TestNextBoxNeverDemotes(t *testing.T) {
	for box := 1; box <= 5; box++ {
		if got := NextBox(box, false); got != box {
			t.Errorf("NextBox(%d, false) = %d, want %d", box, got, box)
		}
	}
}

// --- midnight rule ---

func TestMidnightPassedNilDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if !midnightPassed(nil, now) {
		t.Error("nil last-studied date should always pass")
	}
}

func TestMidnightPassedSameDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	studied := time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC)
	if midnightPassed(&studied, now) {
		t.Error("same UTC day should not pass")
	}
}

func TestMidnightPassedAtBoundary(t *testing.T) {
	// Studied 23:59, one minute later the date has advanced.
	studied := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !midnightPassed(&studied, now) {
		t.Error("crossing midnight should pass")
	}
}

// --- eligibility ---

func TestEligibleNewWordStartsAtBoxOne(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")
	wordID := f.seedWord(t, "5A", "hello", "merhaba")

	eligible, err := f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}

	if len(eligible) != 1 {
		t.Fatalf("got %d eligible words, want 1", len(eligible))
	}
	if eligible[0].Box != 1 {
		t.Errorf("box = %d, want 1", eligible[0].Box)
	}

	// The pass lazily records progress at box 1 with no study date.
	progress, err := f.progress.Find(context.Background(), "9011", wordID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if progress == nil {
		t.Fatal("expected progress record to be created")
	}
	if progress.BoxNumber != 1 || progress.LastStudiedDate != nil {
		t.Errorf("progress = box %d, studied %v; want box 1, studied nil", progress.BoxNumber, progress.LastStudiedDate)
	}
}

func TestEligibleUnknownStudent(t *testing.T) {
	f := newFixture(t)

	eligible, err := f.study.EligibleWords(context.Background(), "nope")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}
	if len(eligible) != 0 {
		t.Errorf("unknown student should have no eligible words, got %d", len(eligible))
	}
}

func TestGetNextWordUnknownStudentCompletes(t *testing.T) {
	f := newFixture(t)

	// No student record: the study loop ends cleanly instead of erroring.
	next, err := f.study.GetNextWord(context.Background(), "no-such-student")
	if err != nil {
		t.Fatalf("GetNextWord: %v", err)
	}
	if !next.Completed {
		t.Errorf("next = %+v, want completed response", next)
	}
}

func TestEligibleOrderingDescendingByBox(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")

	yesterday := f.clock.current.AddDate(0, 0, -1)
	boxes := []int{1, 3, 2, 4}
	for i, box := range boxes {
		wordID := f.seedWord(t, "5A", "word"+string(rune('a'+i)), "anlam")
		f.setProgress(t, "9011", wordID, box, &yesterday)
	}

	eligible, err := f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}

	var got []int
	for _, sw := range eligible {
		got = append(got, sw.Box)
	}
	want := []int{4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %d eligible words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestEligibleBoxFiveAppendedLast(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")

	yesterday := f.clock.current.AddDate(0, 0, -1)
	lowID := f.seedWord(t, "5A", "low", "anlam")
	f.setProgress(t, "9011", lowID, 2, &yesterday)

	// Box 5, never studied: eligible, but queued after everything else.
	topID := f.seedWord(t, "5A", "top", "anlam")
	f.setProgress(t, "9011", topID, 5, nil)

	eligible, err := f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}

	if len(eligible) != 2 {
		t.Fatalf("got %d eligible words, want 2", len(eligible))
	}
	if eligible[0].Word.ID != lowID || eligible[1].Word.ID != topID {
		t.Errorf("box-5 word should come last, got order [%s %s]", eligible[0].Word.English, eligible[1].Word.English)
	}
}

func TestBoxFiveStudiedOnceNeverEligible(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")

	longAgo := f.clock.current.AddDate(-1, 0, 0)
	wordID := f.seedWord(t, "5A", "mastered", "anlam")
	f.setProgress(t, "9011", wordID, 5, &longAgo)

	eligible, err := f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}

	if len(eligible) != 0 {
		t.Errorf("box-5 word studied a year ago should stay excluded, got %d eligible", len(eligible))
	}
}

func TestStudiedTodayNotEligibleUntilMidnight(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")

	wordID := f.seedWord(t, "5A", "hello", "merhaba")
	studied := time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC)
	f.setProgress(t, "9011", wordID, 2, &studied)

	f.clock.current = time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	eligible, err := f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}
	if len(eligible) != 0 {
		t.Fatalf("word studied at 00:01 should wait for the next midnight, got %d eligible", len(eligible))
	}

	f.clock.current = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	eligible, err = f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("word should become eligible right after midnight, got %d eligible", len(eligible))
	}
}

// --- answers ---

func TestSubmitAnswerScenario(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")
	wordID := f.seedWord(t, "5A", "hello", "merhaba")

	next, err := f.study.GetNextWord(context.Background(), "9011")
	if err != nil {
		t.Fatalf("GetNextWord: %v", err)
	}
	if next.Completed {
		t.Fatal("expected a word to study")
	}
	if next.English != "hello" || next.CurrentBox != 1 {
		t.Errorf("next = %q box %d, want \"hello\" box 1", next.English, next.CurrentBox)
	}

	answer, err := f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
		StudentCode: "9011",
		WordID:      wordID,
		Answer:      "merhaba",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !answer.IsCorrect || answer.NewBox != 2 {
		t.Errorf("correct answer: is_correct=%v new_box=%d, want true 2", answer.IsCorrect, answer.NewBox)
	}

	answer, err = f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
		StudentCode: "9011",
		WordID:      wordID,
		Answer:      "wrong",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if answer.IsCorrect || answer.NewBox != 2 {
		t.Errorf("wrong answer: is_correct=%v new_box=%d, want false 2 (no demotion)", answer.IsCorrect, answer.NewBox)
	}
}

func TestSubmitAnswerNormalization(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")
	wordID := f.seedWord(t, "5A", "hello", "merhaba")

	for _, answer := range []string{"Merhaba ", "merhaba", " MERHABA"} {
		resp, err := f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
			StudentCode: "9011",
			WordID:      wordID,
			Answer:      answer,
		})
		if err != nil {
			t.Fatalf("SubmitAnswer(%q): %v", answer, err)
		}
		if !resp.IsCorrect {
			t.Errorf("answer %q should match \"merhaba\"", answer)
		}
	}
}

func TestSubmitAnswerUnknownWord(t *testing.T) {
	f := newFixture(t)

	_, err := f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
		StudentCode: "9011",
		WordID:      uuid.New().String(),
		Answer:      "merhaba",
	})
	if !errors.Is(err, ErrWordNotFound) {
		t.Fatalf("err = %v, want ErrWordNotFound", err)
	}
}

func TestSubmitAnswerIgnoresClientFlag(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")
	wordID := f.seedWord(t, "5A", "hello", "merhaba")

	resp, err := f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
		StudentCode: "9011",
		WordID:      wordID,
		Answer:      "wrong",
		IsCorrect:   true,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if resp.IsCorrect {
		t.Error("client is_correct flag must not be trusted")
	}
}

func TestWrongAnswerStampsStudyDate(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")
	wordID := f.seedWord(t, "5A", "hello", "merhaba")

	_, err := f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
		StudentCode: "9011",
		WordID:      wordID,
		Answer:      "wrong",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	// A wrong answer still counts as today's study of the word.
	eligible, err := f.study.EligibleWords(context.Background(), "9011")
	if err != nil {
		t.Fatalf("EligibleWords: %v", err)
	}
	if len(eligible) != 0 {
		t.Errorf("word answered today should not be eligible again, got %d", len(eligible))
	}
}

func TestGetNextWordCompleted(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "9011", "5A")

	next, err := f.study.GetNextWord(context.Background(), "9011")
	if err != nil {
		t.Fatalf("GetNextWord: %v", err)
	}
	if !next.Completed {
		t.Error("no class words means study is complete")
	}
	if next.Message == "" {
		t.Error("completed response should carry a message")
	}
}

// --- event publishing ---

type failingPublisher struct{}

func (failingPublisher) PublishAnswerSubmitted(ctx context.Context, event *models.AnswerSubmittedEvent) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error { return nil }

func TestPublishFailureDoesNotFailAnswer(t *testing.T) {
	f := newFixture(t)
	f.study = NewStudyServiceWithClock(f.students, f.words, f.progress, failingPublisher{}, zerolog.Nop(), f.clock.Now)

	f.seedStudent(t, "9011", "5A")
	wordID := f.seedWord(t, "5A", "hello", "merhaba")

	resp, err := f.study.SubmitAnswer(context.Background(), &models.SubmitAnswerRequest{
		StudentCode: "9011",
		WordID:      wordID,
		Answer:      "merhaba",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer should survive a publish failure: %v", err)
	}
	if !resp.IsCorrect {
		t.Error("answer should still be graded")
	}
}
