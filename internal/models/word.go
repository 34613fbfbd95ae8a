package models

import (
	"time"
)

type Word struct {
	ID              string    `json:"id" db:"id"`
	ClassLevel      string    `json:"class_level" db:"class_level"`
	English         string    `json:"english" db:"english"`
	TurkishMeanings []string  `json:"turkish_meanings" db:"turkish_meanings"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
