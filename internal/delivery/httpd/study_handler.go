package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kelimekutusu/study-service/internal/models"
)

func (h *Handler) GetNextWord(w http.ResponseWriter, r *http.Request) {
	studentCode := chi.URLParam(r, "studentCode")
	if studentCode == "" {
		writeError(w, http.StatusBadRequest, "Student code is required")
		return
	}

	ctx := r.Context()
	response, err := h.studyService.GetNextWord(ctx, studentCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.StudentCode == "" || req.WordID == "" {
		writeError(w, http.StatusBadRequest, "student_code and word_id are required")
		return
	}

	ctx := r.Context()
	response, err := h.studyService.SubmitAnswer(ctx, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}
