package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
)

func TestRespondMappedStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid_profile", fmt.Errorf("%w: name required", errs.ErrInvalidProfile), http.StatusBadRequest, "invalid_profile"},
		{"profile_not_found", fmt.Errorf("%w: abc", errs.ErrProfileNotFound), http.StatusNotFound, "profile_not_found"},
		{"analysis_unavailable", fmt.Errorf("%w: timeout", errs.ErrAnalysisUnavailable), http.StatusBadGateway, "analysis_unavailable"},
		{"corpus_unavailable", fmt.Errorf("%w: down", errs.ErrCorpusUnavailable), http.StatusBadGateway, "corpus_unavailable"},
		{"configuration", fmt.Errorf("%w: missing key", errs.ErrConfiguration), http.StatusInternalServerError, "configuration_error"},
		{"unknown", fmt.Errorf("something else"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			RespondMapped(c, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, rec.Code)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code: want=%q got=%q", tc.wantCode, envelope.Error.Code)
			}
			if envelope.Error.Message == "" {
				t.Fatalf("expected non-empty message")
			}
		})
	}
}
