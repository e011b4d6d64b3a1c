package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/templui/drivebox/internal/ctxkeys"
	"github.com/templui/drivebox/internal/model"
	"github.com/templui/drivebox/internal/service"
)

// maxFieldBytes bounds the non-file form fields read ahead of the file part.
const maxFieldBytes = 1 << 10

type FileHandler struct {
	fileService  *service.FileService
	trashService *service.TrashService
}

func NewFileHandler(fileService *service.FileService, trashService *service.TrashService) *FileHandler {
	return &FileHandler{
		fileService:  fileService,
		trashService: trashService,
	}
}

type starResponse struct {
	Message string `json:"message"`
	Starred bool   `json:"starred"`
}

// Upload streams a multipart form straight into the blob store. An optional
// "folder_id" field must come before the "file" part; fields after it are
// ignored. Nothing is buffered, so the quota cut-off stops reading the body.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	reader, err := r.MultipartReader()
	if err != nil {
		badRequest(w, "expected a multipart form")
		return
	}

	var folderID *string
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			badRequest(w, "file is required")
			return
		}
		if err != nil {
			badRequest(w, "malformed multipart form")
			return
		}

		switch part.FormName() {
		case "folder_id":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			if err != nil {
				badRequest(w, "malformed multipart form")
				return
			}
			folderID = optionalID(string(value))
		case "file":
			file, err := h.fileService.Upload(r.Context(), userID, folderID, part, part.FileName())
			_ = part.Close()
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, file)
			return
		}

		_ = part.Close()
	}
}

// List returns active files at root, or in the folder named by ?folder_id=.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	files, err := h.fileService.List(r.Context(), userID, optionalID(r.URL.Query().Get("folder_id")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) Starred(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	files, err := h.fileService.Starred(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) Trash(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	files, err := h.trashService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.fileService.Rename(r.Context(), userID, r.PathValue("id"), r.FormValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "File renamed")
}

// Move takes the target folder from the "folder_id" field; blank means root.
func (h *FileHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.fileService.Move(r.Context(), userID, r.PathValue("id"), optionalID(r.FormValue("folder_id")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "File moved")
}

func (h *FileHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.fileService.SoftDelete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "File moved to trash")
}

func (h *FileHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.fileService.Restore(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "File restored")
}

func (h *FileHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	starred, err := h.fileService.ToggleStar(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, starResponse{Message: "Star toggled", Starred: starred})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	file, body, err := h.fileService.Download(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	streamFile(w, r, file, body)
}

func (h *FileHandler) StorageUsage(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	usage, err := h.fileService.StorageUsage(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, usage)
}

// streamFile sends a blob as an attachment under its display name.
func streamFile(w http.ResponseWriter, r *http.Request, file *model.File, body io.ReadCloser) {
	defer func() { _ = body.Close() }()

	contentType := mime.TypeByExtension(path.Ext(file.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)

	_, err := io.Copy(w, body)
	if err != nil {
		slog.Warn("download interrupted", "error", err, "file_id", file.ID, "user_id", ctxkeys.UserID(r.Context()))
	}
}
