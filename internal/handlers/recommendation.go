package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/services"
	"github.com/coursematch/coursematch-backend/internal/types"
)

type RecommendationHandler struct {
	log         *logger.Logger
	recommender services.RecommenderService
}

func NewRecommendationHandler(log *logger.Logger, recommender services.RecommenderService) *RecommendationHandler {
	return &RecommendationHandler{
		log:         log.With("handler", "RecommendationHandler"),
		recommender: recommender,
	}
}

type recommendRequest struct {
	ProfileID  string              `json:"profile_id"`
	MaxCourses int                 `json:"max_courses"`
	Filters    types.SearchFilters `json:"filters"`
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var body recommendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	profileID, err := uuid.Parse(body.ProfileID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_profile_id", err)
		return
	}

	maxCourses := body.MaxCourses
	if maxCourses <= 0 {
		maxCourses = 5
	}

	result, err := h.recommender.Recommend(c.Request.Context(), profileID, maxCourses, body.Filters)
	if err != nil {
		h.log.Error("Recommend failed", "error", err, "profile_id", profileID)
		RespondMapped(c, err)
		return
	}
	RespondOK(c, result)
}
