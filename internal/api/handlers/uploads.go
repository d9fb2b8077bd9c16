package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/uploads"
)

// UploadsHandler issues pre-signed upload URLs for statement files.
type UploadsHandler struct {
	signer *uploads.Signer
	log    zerolog.Logger
}

func NewUploadsHandler(signer *uploads.Signer, log zerolog.Logger) *UploadsHandler {
	return &UploadsHandler{signer: signer, log: log}
}

// CreateURL handles POST /api/uploads/url
func (h *UploadsHandler) CreateURL(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if in.ContentType == "" {
		in.ContentType = "application/octet-stream"
	}

	signed, err := h.signer.CreateUploadURL(r.Context(), userID, in.Filename, in.ContentType)
	if err != nil {
		writeFailure(w, h.log, err, "sign upload URL")
		return
	}

	h.log.Info().
		Str("user_id", userID).
		Str("object", signed.ObjectName).
		Msg("Upload URL issued")

	middleware.WriteJSON(w, http.StatusOK, signed)
}
