package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/platform/openai"
	"github.com/coursematch/coursematch-backend/internal/types"
)

// AnalyzerService reads a profile summary and produces the skill gaps, goals,
// level, and corpus search query that drive a recommendation run. Stateless;
// one structured-output call per request, retries live in the OpenAI client.
type AnalyzerService interface {
	Analyze(ctx context.Context, profileSummary string) (*types.AnalysisResult, error)
}

type analyzerService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewAnalyzerService(log *logger.Logger, ai openai.Client) (AnalyzerService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ai == nil {
		return nil, fmt.Errorf("openai client required")
	}
	return &analyzerService{
		log: log.With("service", "AnalyzerService"),
		ai:  ai,
	}, nil
}

const analyzerSystemPrompt = `You are a career advisor for an online course catalog.
Given a learner profile, identify what the learner should study next.
Be concrete: name technologies and subject areas, not platitudes.
The search_query field is used verbatim for semantic search over course
descriptions, so phrase it as course subject matter.`

var analysisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"skill_gaps": map[string]any{
			"type":        "string",
			"description": "Skills the learner is missing for their goals",
		},
		"career_goals": map[string]any{
			"type":        "string",
			"description": "The learner's stated or inferred career direction",
		},
		"learning_level": map[string]any{
			"type":        "string",
			"description": "One of Beginner, Intermediate, Advanced",
		},
		"search_query": map[string]any{
			"type":        "string",
			"description": "Search text for matching course descriptions",
		},
	},
	"required":             []string{"skill_gaps", "career_goals", "learning_level", "search_query"},
	"additionalProperties": false,
}

func (s *analyzerService) Analyze(ctx context.Context, profileSummary string) (*types.AnalysisResult, error) {
	summary := strings.TrimSpace(profileSummary)
	if summary == "" {
		return nil, fmt.Errorf("%w: empty profile summary", errs.ErrInvalidProfile)
	}

	user := "Learner profile:\n" + summary
	obj, err := s.ai.GenerateJSON(ctx, analyzerSystemPrompt, user, "profile_analysis", analysisSchema)
	if err != nil {
		s.log.Error("profile analysis failed", "error", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrAnalysisUnavailable, err)
	}

	result := &types.AnalysisResult{
		SkillGaps:     fieldOrNotSpecified(obj, "skill_gaps"),
		CareerGoals:   fieldOrNotSpecified(obj, "career_goals"),
		LearningLevel: fieldOrNotSpecified(obj, "learning_level"),
		SearchQuery:   fieldOrNotSpecified(obj, "search_query"),
	}
	return result, nil
}

func fieldOrNotSpecified(obj map[string]any, key string) string {
	if raw, ok := obj[key]; ok {
		if str, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(str); trimmed != "" {
				return trimmed
			}
		}
	}
	return types.AnalysisNotSpecified
}
