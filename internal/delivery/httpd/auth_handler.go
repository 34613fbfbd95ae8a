package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/kelimekutusu/study-service/internal/models"
)

func (h *Handler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req models.StudentLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	ctx := r.Context()
	student, err := h.studentService.Authenticate(ctx, req.Code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"success": true,
		"student": student,
	})
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := h.adminService.Authenticate(req.Password); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"success": true,
		"message": "Admin authenticated successfully",
	})
}
