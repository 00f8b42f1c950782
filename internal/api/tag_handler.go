package api

import (
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// TagHandler serves the tag endpoints. Reads are public.
type TagHandler struct {
	tags service.TagService
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(tags service.TagService) *TagHandler {
	if tags == nil {
		panic("tags cannot be nil")
	}
	return &TagHandler{tags: tags}
}

// ListTags returns every tag, sorted by name. No authentication is required.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListTags(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tags)
}

// GetTag returns a single tag by its path ID.
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tag, err := h.tags.GetTag(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tag)
}

// CreateTag creates a tag and responds 201. Duplicate names are 409.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tag, err := h.tags.CreateTag(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, tag)
}

// UpdateTag renames a tag.
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req TagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tag, err := h.tags.RenameTag(r.Context(), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tag)
}

// DeleteTag removes a tag. Tasks that referenced it keep no tag.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tags.DeleteTag(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}
