package handler

import (
	"net/http"

	"github.com/templui/drivebox/internal/ctxkeys"
	"github.com/templui/drivebox/internal/service"
)

type ShareHandler struct {
	shareService *service.ShareService
}

func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
	}
}

func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.shareService.Share(r.Context(), userID, r.PathValue("id"), r.FormValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "File shared")
}

// Revoke reads the recipient from ?email=, since DELETE bodies are not parsed.
func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.shareService.Revoke(r.Context(), userID, r.PathValue("id"), r.FormValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Share revoked")
}

func (h *ShareHandler) Recipients(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	shares, err := h.shareService.Recipients(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, shares)
}

func (h *ShareHandler) SharedWithMe(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	files, err := h.shareService.SharedWithMe(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *ShareHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	file, body, err := h.shareService.DownloadShared(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	streamFile(w, r, file, body)
}
