package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"curricula/internal/auth"
	"curricula/internal/domain"
	"curricula/internal/service"
)

// TopicHandler обслуживает страницы каталога: темы, разделы,
// предметные области. Все эндпоинты под админ-ключом.
type TopicHandler struct {
	topicService *service.TopicService
	adminAuth    auth.Authorizer
}

func NewTopicHandler(topicService *service.TopicService, adminAuth auth.Authorizer) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
		adminAuth:    adminAuth,
	}
}

type getTopicRequest struct {
	TopicID string `json:"topic_id"`
}

func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminAuth.Authorize(r); err != nil {
		log.Printf("Authorization failed: %v", err)
		writeError(w, err)
		return
	}

	var req getTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{OK: false, Error: "Invalid JSON body"})
		return
	}

	topic, err := h.topicService.GetTopic(r.Context(), strings.TrimSpace(req.TopicID))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"item": topic,
	})
}

type listTopicsRequest struct {
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	Search        string `json:"search"`
	UnitID        string `json:"unit_id"`
	IncludeDrafts bool   `json:"include_drafts"`
}

func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminAuth.Authorize(r); err != nil {
		log.Printf("Authorization failed: %v", err)
		writeError(w, err)
		return
	}

	// Тело запроса целиком опционально
	var req listTopicsRequest
	json.NewDecoder(r.Body).Decode(&req)

	opts := domain.TopicListOptions{
		Limit:         req.Limit,
		Offset:        req.Offset,
		Search:        strings.TrimSpace(req.Search),
		IncludeDrafts: req.IncludeDrafts,
	}
	if req.UnitID != "" {
		unitID, err := uuid.Parse(req.UnitID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{OK: false, Error: "invalid unit_id"})
			return
		}
		opts.UnitID = &unitID
	}

	items, err := h.topicService.ListTopics(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"count": len(items),
		"items": items,
	})
}

type listUnitsRequest struct {
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	Search      string `json:"search"`
	ContentArea string `json:"content_area"`
}

func (h *TopicHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminAuth.Authorize(r); err != nil {
		log.Printf("Authorization failed: %v", err)
		writeError(w, err)
		return
	}

	var req listUnitsRequest
	json.NewDecoder(r.Body).Decode(&req)

	units, err := h.topicService.ListUnits(r.Context(), domain.UnitListOptions{
		Limit:       req.Limit,
		Offset:      req.Offset,
		Search:      strings.TrimSpace(req.Search),
		ContentArea: strings.TrimSpace(req.ContentArea),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"count": len(units),
		"items": units,
	})
}

func (h *TopicHandler) ListContents(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminAuth.Authorize(r); err != nil {
		log.Printf("Authorization failed: %v", err)
		writeError(w, err)
		return
	}

	var req listUnitsRequest
	json.NewDecoder(r.Body).Decode(&req)

	areas, err := h.topicService.ListContentAreas(r.Context(), req.Limit, req.Offset, strings.TrimSpace(req.Search))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"count": len(areas),
		"items": areas,
	})
}
