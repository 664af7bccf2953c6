package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"curricula/internal/auth"
	"curricula/internal/service"
)

type OutlineHandler struct {
	outlineService *service.OutlineService
	adminAuth      auth.Authorizer
	sessionAuth    auth.Authorizer
}

func NewOutlineHandler(outlineService *service.OutlineService, adminAuth, sessionAuth auth.Authorizer) *OutlineHandler {
	return &OutlineHandler{
		outlineService: outlineService,
		adminAuth:      adminAuth,
		sessionAuth:    sessionAuth,
	}
}

type updateOutlineRequest struct {
	TopicID       string          `json:"topic_id"`
	Draft         json.RawMessage `json:"draft"`
	Publish       bool            `json:"publish"`
	SchemaVersion int             `json:"schema_version"`
}

type updateOutlineResponse struct {
	OK            bool   `json:"ok"`
	Mode          string `json:"mode"`
	SchemaVersion int    `json:"schema_version"`
}

// UpdateOutline — вариант со статическим админ-ключом.
func (h *OutlineHandler) UpdateOutline(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.adminAuth)
}

// UpdateOutlineAuth — вариант с пользовательской сессией и списком редакторов.
func (h *OutlineHandler) UpdateOutlineAuth(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.sessionAuth)
}

// update — общее тело обоих эндпоинтов: publish=true продвигает текущий
// черновик, иначе сохраняется присланный draft.
func (h *OutlineHandler) update(w http.ResponseWriter, r *http.Request, authorizer auth.Authorizer) {
	identity, err := authorizer.Authorize(r)
	if err != nil {
		log.Printf("Authorization failed: %v", err)
		writeError(w, err)
		return
	}

	var req updateOutlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{OK: false, Error: "Invalid JSON body"})
		return
	}
	req.TopicID = strings.TrimSpace(req.TopicID)

	var result *service.UpdateResult
	if req.Publish {
		result, err = h.outlineService.Publish(r.Context(), req.TopicID, req.SchemaVersion, identity)
	} else {
		result, err = h.outlineService.SaveDraft(r.Context(), req.TopicID, req.SchemaVersion, req.Draft, identity)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateOutlineResponse{
		OK:            true,
		Mode:          result.Mode,
		SchemaVersion: int(result.SchemaVersion),
	})
}

type listVersionsRequest struct {
	TopicID       string `json:"topic_id"`
	SchemaVersion int    `json:"schema_version"`
}

// ListOutlineVersions возвращает историю публикаций темы.
func (h *OutlineHandler) ListOutlineVersions(w http.ResponseWriter, r *http.Request) {
	_, err := h.adminAuth.Authorize(r)
	if err != nil {
		log.Printf("Authorization failed: %v", err)
		writeError(w, err)
		return
	}

	var req listVersionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{OK: false, Error: "Invalid JSON body"})
		return
	}

	versions, err := h.outlineService.ListVersions(r.Context(), strings.TrimSpace(req.TopicID), req.SchemaVersion)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"count": len(versions),
		"items": versions,
	})
}
