package httpd

import (
	"io"
	"net/http"
	"strings"
)

const maxUploadSize = 10 << 20 // 10MB

func (h *Handler) UploadStudents(w http.ResponseWriter, r *http.Request) {
	body, ok := h.csvBody(w, r)
	if !ok {
		return
	}
	defer body.Close()

	ctx := r.Context()
	result, err := h.importService.ImportStudents(ctx, body)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"success":          true,
		"students_added":   result.StudentsAdded,
		"students_updated": result.StudentsUpdated,
	})
}

func (h *Handler) UploadWords(w http.ResponseWriter, r *http.Request) {
	body, ok := h.csvBody(w, r)
	if !ok {
		return
	}
	defer body.Close()

	ctx := r.Context()
	result, err := h.importService.ImportWords(ctx, body)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"success":     true,
		"words_added": result.WordsAdded,
	})
}

// csvBody extracts the CSV payload from either a multipart "file" field or a
// raw request body. On failure it writes the error response and returns
// ok=false.
func (h *Handler) csvBody(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return http.MaxBytesReader(w, r.Body, maxUploadSize), true
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return nil, false
	}

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		file.Close()
		writeError(w, http.StatusBadRequest, "File must be CSV format")
		return nil, false
	}

	return file, true
}
