package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/service"
)

type Handler struct {
	studentService service.StudentService
	studyService   service.StudyService
	adminService   service.AdminService
	importService  service.ImportService
	logger         zerolog.Logger
}

func NewHandler(
	studentService service.StudentService,
	studyService service.StudyService,
	adminService service.AdminService,
	importService service.ImportService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		studentService: studentService,
		studyService:   studyService,
		adminService:   adminService,
		importService:  importService,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/student", h.StudentLogin)
			r.Post("/admin", h.AdminLogin)
		})

		api.Route("/study", func(r chi.Router) {
			r.Get("/{studentCode}/next-word", h.GetNextWord)
			r.Post("/answer", h.SubmitAnswer)
		})

		api.Route("/student", func(r chi.Router) {
			r.Get("/{studentCode}/stats", h.GetStudentStats)
			r.Get("/{studentCode}/words", h.GetStudentWords)
		})

		api.Route("/admin", func(r chi.Router) {
			r.Post("/upload-students", h.UploadStudents)
			r.Post("/upload-words", h.UploadWords)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "study-service",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		writeError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, service.ErrWordNotFound):
		writeError(w, http.StatusNotFound, "Word not found")
	case errors.Is(err, service.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "Invalid admin password")
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}
