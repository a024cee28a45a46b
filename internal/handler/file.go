package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"
	"cadence/internal/httputil"
)

// FileHandler handles file and folder HTTP requests
type FileHandler struct {
	fileService services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// CreateFolder creates a folder node
// POST /api/files/folders
func (h *FileHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CreatedBy = httputil.GetUserID(r)

	folder, err := h.fileService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// Upload stores a new file from a multipart form
// POST /api/files
// Form fields: file (the part), project_id, parent_id?, description?
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	req, file, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	created, err := h.fileService.Upload(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, created)
}

// UploadVersion stores the next version of an existing file
// POST /api/files/{id}/versions
func (h *FileHandler) UploadVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	req, file, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	updated, err := h.fileService.UploadVersion(r.Context(), id, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, updated)
}

// parseUpload extracts the shared multipart fields of both upload
// endpoints. The returned closer is the file part.
func (h *FileHandler) parseUpload(w http.ResponseWriter, r *http.Request) (*services.UploadRequest, io.Closer, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return nil, nil, false
	}

	req := &services.UploadRequest{
		ProjectID:   r.FormValue("project_id"),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Description: r.FormValue("description"),
		Content:     file,
		UploadedBy:  httputil.GetUserID(r),
	}
	if v := r.FormValue("parent_id"); v != "" {
		req.ParentID = &v
	}
	if v := r.FormValue("name"); v != "" {
		req.Name = v
	}

	return req, file, true
}

// GetFile retrieves a file with its version history
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// UpdateFile renames, moves, or re-describes a file or folder
// PATCH /api/files/{id}
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req services.UpdateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.UpdateFile(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile deletes a file or folder
// DELETE /api/files/{id}
// Folders are blocked with 409 while children remain
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListChildren lists the ordered immediate children of a folder
// GET /api/projects/{id}/files?parent_id=...
// Omitting parent_id lists the project root
func (h *FileHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		parentID = &v
	}

	files, err := h.fileService.ListChildren(r.Context(), projectID, parentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}

// MoveFile swaps the node with its adjacent sibling
// PUT /api/files/{id}/move
func (h *FileHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req moveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dir, err := hierarchy.ParseDirection(req.Direction)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.fileService.MoveFile(r.Context(), id, dir); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download streams a file's bytes
// GET /api/files/{id}/download?version=n (omit version for latest)
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	version := 0
	if v := r.URL.Query().Get("version"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "version must be a positive integer")
			return
		}
		version = parsed
	}

	result, err := h.fileService.Download(r.Context(), id, version)
	if err != nil {
		handleError(w, err)
		return
	}
	defer result.Reader.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": result.Name})
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", result.Size))

	if _, err := io.Copy(w, result.Reader); err != nil {
		// Headers are gone; nothing left to do but log the broken copy.
		h.logger.Error("file download interrupted", "file_id", id, "error", err)
	}
}
