package models

import "time"

type AnswerSubmittedEvent struct {
	EventType   string    `json:"event_type"`
	StudentCode string    `json:"student_code"`
	WordID      string    `json:"word_id"`
	English     string    `json:"english"`
	IsCorrect   bool      `json:"is_correct"`
	PreviousBox int       `json:"previous_box"`
	NewBox      int       `json:"new_box"`
	OccurredAt  time.Time `json:"occurred_at"`
}
