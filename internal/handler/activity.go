package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/repository"
	"github.com/dangerclosesec/tracker/internal/serializer"
	"github.com/dangerclosesec/tracker/internal/service"
)

// ActivityHandler exposes the mutation history
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

type ActivityResponse struct {
	Activity []serializer.Activity `json:"activity"`
	Total    int64                 `json:"total"`
}

// ListActivity handles requests to retrieve activity with filtering
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repository.QueryParams{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		ActorEmail: query.Get("actorEmail"),
	}

	if entityID := query.Get("entityId"); entityID != "" {
		id, err := strconv.ParseInt(entityID, 10, 64)
		if err != nil {
			handleError(w, r, fmt.Errorf("%w: entityId must be an integer", domain.ErrInvalidInput))
			return
		}
		params.EntityID = id
	}

	if startTimeStr := query.Get("startTime"); startTimeStr != "" {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err == nil {
			params.StartTime = startTime
		}
	}

	if endTimeStr := query.Get("endTime"); endTimeStr != "" {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err == nil {
			params.EndTime = endTime
		}
	}

	// Pagination
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	logs, total, err := h.activityService.Query(r.Context(), params)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response := ActivityResponse{
		Activity: make([]serializer.Activity, 0, len(logs)),
		Total:    total,
	}
	for _, l := range logs {
		response.Activity = append(response.Activity, serializer.NewActivity(l))
	}

	respondWithJSON(w, http.StatusOK, response)
}
