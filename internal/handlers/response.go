package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondMapped translates pipeline sentinels to HTTP statuses. Anything
// unrecognized is a 500.
func RespondMapped(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidProfile):
		RespondError(c, http.StatusBadRequest, "invalid_profile", err)
	case errors.Is(err, errs.ErrProfileNotFound):
		RespondError(c, http.StatusNotFound, "profile_not_found", err)
	case errors.Is(err, errs.ErrAnalysisUnavailable):
		RespondError(c, http.StatusBadGateway, "analysis_unavailable", err)
	case errors.Is(err, errs.ErrCorpusUnavailable):
		RespondError(c, http.StatusBadGateway, "corpus_unavailable", err)
	case errors.Is(err, errs.ErrConfiguration):
		RespondError(c, http.StatusInternalServerError, "configuration_error", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
