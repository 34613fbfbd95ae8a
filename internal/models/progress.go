package models

import (
	"time"
)

// Progress tracks a single student/word pair through the five Leitner boxes.
// The (StudentCode, WordID) pair is the natural key; the id is synthetic.
type Progress struct {
	ID              string     `json:"id" db:"id"`
	StudentCode     string     `json:"student_code" db:"student_code"`
	WordID          string     `json:"word_id" db:"word_id"`
	BoxNumber       int        `json:"box_number" db:"box_number"`
	LastStudiedDate *time.Time `json:"last_studied_date" db:"last_studied_date"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// StudyWord is a word surfaced for study together with its current box.
type StudyWord struct {
	Word Word
	Box  int
}
