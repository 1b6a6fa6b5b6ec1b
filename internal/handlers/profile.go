package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/services"
	"github.com/coursematch/coursematch-backend/internal/types"
)

const (
	maxResumeBytes   = 10 << 20
	defaultListLimit = 50
)

type ProfileHandler struct {
	log            *logger.Logger
	profileService services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:            log.With("handler", "ProfileHandler"),
		profileService: profileService,
	}
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var input types.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), input, types.ProfileSourceManual)
	if err != nil {
		h.log.Error("Create profile failed", "error", err)
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

func (h *ProfileHandler) CreateFromResume(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_resume_file", err)
		return
	}
	if fileHeader.Size > maxResumeBytes {
		RespondError(c, http.StatusBadRequest, "resume_too_large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_resume_file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_resume_file", err)
		return
	}

	profile, err := h.profileService.CreateFromResume(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.log.Error("Create profile from resume failed", "error", err, "filename", fileHeader.Filename)
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

func (h *ProfileHandler) CreateFromURL(c *gin.Context) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.URL == "" {
		RespondError(c, http.StatusBadRequest, "missing_url", err)
		return
	}

	profile, err := h.profileService.CreateFromURL(c.Request.Context(), body.URL)
	if err != nil {
		h.log.Error("Create profile from url failed", "error", err, "url", body.URL)
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_profile_id", err)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), id)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) List(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	profiles, err := h.profileService.ListProfiles(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("List profiles failed", "error", err)
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"profiles": profiles})
}

func (h *ProfileHandler) Stats(c *gin.Context) {
	stats, err := h.profileService.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Profile stats failed", "error", err)
		RespondMapped(c, err)
		return
	}
	RespondOK(c, stats)
}
