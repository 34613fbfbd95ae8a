package models

import "time"

// Data Transfer Objects

type StudentLoginRequest struct {
	Code string `json:"code"`
}

type StudentSummary struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ClassLevel string `json:"class_level"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type NextWordResponse struct {
	Completed      bool   `json:"completed"`
	Message        string `json:"message,omitempty"`
	WordID         string `json:"word_id,omitempty"`
	English        string `json:"english,omitempty"`
	CurrentBox     int    `json:"current_box,omitempty"`
	RemainingWords int    `json:"remaining_words,omitempty"`
}

// SubmitAnswerRequest carries a student's answer for one word. IsCorrect is
// accepted for compatibility with older clients but never trusted; the
// service recomputes correctness from the answer text.
type SubmitAnswerRequest struct {
	StudentCode string `json:"student_code"`
	WordID      string `json:"word_id"`
	Answer      string `json:"answer"`
	IsCorrect   bool   `json:"is_correct,omitempty"`
}

type AnswerResponse struct {
	WordID         string   `json:"word_id"`
	English        string   `json:"english"`
	IsCorrect      bool     `json:"is_correct"`
	CorrectAnswers []string `json:"correct_answers"`
	NewBox         int      `json:"new_box"`
	Message        string   `json:"message"`
}

type StudentStats struct {
	TotalWords        int            `json:"total_words"`
	BoxDistribution   map[string]int `json:"box_distribution"`
	WordsStudiedToday int            `json:"words_studied_today"`
	NextStudyWords    int            `json:"next_study_words"`
}

type StudentWordStatus struct {
	ID              string     `json:"id"`
	English         string     `json:"english"`
	TurkishMeanings []string   `json:"turkish_meanings"`
	Box             int        `json:"box"`
	LastStudied     *time.Time `json:"last_studied"`
}

type ImportStudentsResponse struct {
	StudentsAdded   int `json:"students_added"`
	StudentsUpdated int `json:"students_updated"`
}

type ImportWordsResponse struct {
	WordsAdded int `json:"words_added"`
}
