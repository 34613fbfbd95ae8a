package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/rs/zerolog"
)

type AdminService interface {
	Authenticate(password string) error
}

type adminService struct {
	passwordHash string
	logger       zerolog.Logger
}

// NewAdminService takes the hex-encoded SHA-256 digest of the admin password.
func NewAdminService(passwordHash string, logger zerolog.Logger) AdminService {
	return &adminService{
		passwordHash: passwordHash,
		logger:       logger,
	}
}

func (s *adminService) Authenticate(password string) error {
	digest := sha256.Sum256([]byte(password))
	encoded := hex.EncodeToString(digest[:])

	if subtle.ConstantTimeCompare([]byte(encoded), []byte(s.passwordHash)) != 1 {
		s.logger.Warn().Msg("Admin authentication failed")
		return ErrInvalidPassword
	}

	return nil
}
