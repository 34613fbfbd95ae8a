package service

import "errors"

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrWordNotFound    = errors.New("word not found")
	ErrInvalidPassword = errors.New("invalid admin password")
)
