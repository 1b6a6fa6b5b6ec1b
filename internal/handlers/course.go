package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/services"
	"github.com/coursematch/coursematch-backend/internal/types"
)

type CourseHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCourseHandler(log *logger.Logger, catalogService services.CatalogService) *CourseHandler {
	return &CourseHandler{
		log:            log.With("handler", "CourseHandler"),
		catalogService: catalogService,
	}
}

func (h *CourseHandler) AddCourses(c *gin.Context) {
	var body struct {
		Courses []*types.Course `json:"courses"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Courses) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	created, err := h.catalogService.AddCourses(c.Request.Context(), body.Courses)
	if err != nil {
		h.log.Error("Add courses failed", "error", err, "count", len(body.Courses))
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"courses": created})
}

func (h *CourseHandler) Remove(c *gin.Context) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.IDs) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	ids := make([]uuid.UUID, len(body.IDs))
	for i, raw := range body.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
			return
		}
		ids[i] = id
	}

	if err := h.catalogService.RemoveCourses(c.Request.Context(), ids); err != nil {
		h.log.Error("Remove courses failed", "error", err, "count", len(ids))
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": len(ids)})
}

func (h *CourseHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", nil)
		return
	}

	k := 10
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_k", err)
			return
		}
		k = parsed
	}

	filters := types.SearchFilters{
		Levels:      splitCSV(c.Query("levels")),
		Departments: splitCSV(c.Query("departments")),
		Categories:  splitCSV(c.Query("categories")),
	}

	hits, err := h.catalogService.Search(c.Request.Context(), query, k, filters)
	if err != nil {
		h.log.Error("Course search failed", "error", err, "query", query)
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"hits": hits})
}

func (h *CourseHandler) Stats(c *gin.Context) {
	stats, err := h.catalogService.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Course stats failed", "error", err)
		RespondMapped(c, err)
		return
	}
	RespondOK(c, stats)
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
