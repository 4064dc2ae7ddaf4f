package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	vc "github.com/draftkit/versioned-content/pkg/versionedcontent"
)

// ContentHandler handles HTTP requests for content using pkg/versionedcontent
type ContentHandler struct {
	service vc.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service vc.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateContent)
	r.Get("/", h.ListContent)
	r.Post("/diff", h.DiffTexts)

	r.Get("/{contentID}", h.GetContent)
	r.Patch("/{contentID}", h.UpdateContent)
	r.Delete("/{contentID}", h.DeleteContent)

	r.Get("/{contentID}/versions", h.ListVersions)
	r.Get("/{contentID}/history", h.GetContentWithHistory)
	r.Get("/{contentID}/diff", h.DiffVersions)
	r.Post("/{contentID}/revert", h.RevertToVersion)
	r.Post("/{contentID}/archive", h.ArchiveContent)

	return r
}

// CreateContentRequest is the request body for creating a content record
type CreateContentRequest struct {
	Title    string      `json:"title"`
	Kind     string      `json:"kind"`
	Body     string      `json:"body"`
	Metadata vc.Metadata `json:"metadata"`
}

// UpdateContentRequest is the request body for a partial update. Absent
// fields leave the stored value untouched.
type UpdateContentRequest struct {
	Title           *string           `json:"title,omitempty"`
	Body            *string           `json:"body,omitempty"`
	Status          *string           `json:"status,omitempty"`
	Metadata        *vc.MetadataPatch `json:"metadata,omitempty"`
	ExpectedVersion *int              `json:"expected_version,omitempty"`
}

// RevertRequest is the request body for reverting to a prior version
type RevertRequest struct {
	Version int `json:"version"`
}

// DiffTextsRequest is the request body for diffing two raw texts
type DiffTextsRequest struct {
	OldText string `json:"old_text"`
	NewText string `json:"new_text"`
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// HistoryResponse pairs a record with its full version history
type HistoryResponse struct {
	Content  *vc.Content          `json:"content"`
	Versions []*vc.ContentVersion `json:"versions"`
}

// DiffResponse carries the segments of a word-level diff
type DiffResponse struct {
	Segments []vc.DiffSegment `json:"segments"`
}

// ArchiveResponse carries the storage key of a completed export
type ArchiveResponse struct {
	Key string `json:"key"`
}

// CreateContent creates a new content record
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.service.CreateContent(r.Context(), vc.CreateContentRequest{
		OwnerID:  ownerID,
		Title:    req.Title,
		Kind:     vc.ContentKind(req.Kind),
		Body:     req.Body,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeError(w, r, "create content", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

// GetContent returns one record scoped to the calling owner
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	content, err := h.service.GetContent(r.Context(), ownerID, contentID)
	if err != nil {
		writeError(w, r, "get content", err)
		return
	}

	render.JSON(w, r, content)
}

// GetContentWithHistory returns a record together with its snapshots
func (h *ContentHandler) GetContentWithHistory(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	content, versions, err := h.service.GetContentWithHistory(r.Context(), ownerID, contentID)
	if err != nil {
		writeError(w, r, "get content history", err)
		return
	}

	render.JSON(w, r, HistoryResponse{Content: content, Versions: versions})
}

// UpdateContent applies a partial update
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updateReq := vc.UpdateContentRequest{
		ID:              contentID,
		OwnerID:         ownerID,
		Title:           req.Title,
		Body:            req.Body,
		Metadata:        req.Metadata,
		ExpectedVersion: req.ExpectedVersion,
	}
	if req.Status != nil {
		status := vc.ContentStatus(*req.Status)
		updateReq.Status = &status
	}

	content, err := h.service.UpdateContent(r.Context(), updateReq)
	if err != nil {
		writeError(w, r, "update content", err)
		return
	}

	render.JSON(w, r, content)
}

// DeleteContent removes a record
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteContent(r.Context(), ownerID, contentID)
	if err != nil {
		writeError(w, r, "delete content", err)
		return
	}
	if !deleted {
		writeError(w, r, "delete content", vc.ErrContentNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContent returns one page of the owner's records
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	req := vc.ListContentRequest{
		OwnerID: ownerID,
		Search:  r.URL.Query().Get("search"),
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := vc.ContentKind(kind)
		if !k.IsValid() {
			http.Error(w, "invalid kind filter", http.StatusBadRequest)
			return
		}
		req.Kind = &k
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := vc.ContentStatus(status)
		if !s.IsValid() {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		req.Status = &s
	}
	// Unparseable paging values fall back to defaults via Normalize
	req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))

	list, err := h.service.ListContent(r.Context(), req)
	if err != nil {
		writeError(w, r, "list content", err)
		return
	}

	render.JSON(w, r, list)
}

// ListVersions returns the snapshot history of a record, newest first
func (h *ContentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	versions, err := h.service.ListVersions(r.Context(), ownerID, contentID)
	if err != nil {
		writeError(w, r, "list versions", err)
		return
	}

	render.JSON(w, r, versions)
}

// RevertToVersion restores a prior snapshot as a forward update
func (h *ContentHandler) RevertToVersion(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req RevertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.service.RevertToVersion(r.Context(), ownerID, contentID, req.Version)
	if err != nil {
		writeError(w, r, "revert content", err)
		return
	}

	render.JSON(w, r, content)
}

// DiffVersions compares the bodies of two revisions of a record
func (h *ContentHandler) DiffVersions(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	fromVersion, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from version", http.StatusBadRequest)
		return
	}
	toVersion, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to version", http.StatusBadRequest)
		return
	}

	segments, err := h.service.DiffVersions(r.Context(), ownerID, contentID, fromVersion, toVersion)
	if err != nil {
		writeError(w, r, "diff versions", err)
		return
	}

	render.JSON(w, r, DiffResponse{Segments: segments})
}

// DiffTexts diffs two raw texts without touching stored records
func (h *ContentHandler) DiffTexts(w http.ResponseWriter, r *http.Request) {
	var req DiffTextsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	render.JSON(w, r, DiffResponse{Segments: vc.DiffWords(req.OldText, req.NewText)})
}

// ArchiveContent exports a record with its history to the archiver
func (h *ContentHandler) ArchiveContent(w http.ResponseWriter, r *http.Request) {
	ownerID, contentID, ok := h.scope(w, r)
	if !ok {
		return
	}

	key, err := h.service.ArchiveContent(r.Context(), ownerID, contentID)
	if err != nil {
		writeError(w, r, "archive content", err)
		return
	}

	render.JSON(w, r, ArchiveResponse{Key: key})
}

// scope resolves the owner from the context and the content ID from the
// URL, writing the error response itself when either is missing.
func (h *ContentHandler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	contentID, err := uuid.Parse(chi.URLParam(r, "contentID"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, contentID, true
}

// writeError maps service errors onto HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError

	var validationErr *vc.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, vc.ErrInvalidContentKind),
		errors.Is(err, vc.ErrInvalidContentStatus):
		status = http.StatusBadRequest
	case errors.Is(err, vc.ErrContentNotFound),
		errors.Is(err, vc.ErrVersionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vc.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, vc.ErrArchiverNotConfigured):
		status = http.StatusNotImplemented
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "op", op, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
