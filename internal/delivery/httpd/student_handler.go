package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetStudentStats(w http.ResponseWriter, r *http.Request) {
	studentCode := chi.URLParam(r, "studentCode")
	if studentCode == "" {
		writeError(w, http.StatusBadRequest, "Student code is required")
		return
	}

	ctx := r.Context()
	stats, err := h.studentService.Stats(ctx, studentCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, stats)
}

func (h *Handler) GetStudentWords(w http.ResponseWriter, r *http.Request) {
	studentCode := chi.URLParam(r, "studentCode")
	if studentCode == "" {
		writeError(w, http.StatusBadRequest, "Student code is required")
		return
	}

	ctx := r.Context()
	words, err := h.studentService.WordList(ctx, studentCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, words)
}
