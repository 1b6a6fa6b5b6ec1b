package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/repos"
	"github.com/coursematch/coursematch-backend/internal/types"
)

// ScoreFunc turns a candidate hit and the analysis that produced it into a
// final ranking score. The default passes the similarity score through; a
// custom func is the hook for re-ranking experiments.
type ScoreFunc func(hit types.CandidateHit, analysis *types.AnalysisResult) float64

func DefaultScore(hit types.CandidateHit, _ *types.AnalysisResult) float64 {
	return hit.SimilarityScore
}

// RecommenderService runs the full pipeline: load profile, analyze, search
// the corpus, score and explain, rank. Stateless across calls; every stage
// failure propagates, never a partial list.
type RecommenderService interface {
	Recommend(ctx context.Context, profileID uuid.UUID, maxCourses int, filters types.SearchFilters) (*types.RecommendationResult, error)
}

type recommenderService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	analyzer    AnalyzerService
	catalog     CatalogService
	score       ScoreFunc
}

func NewRecommenderService(
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	analyzer AnalyzerService,
	catalog CatalogService,
	score ScoreFunc,
) (RecommenderService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profile repo required")
	}
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if score == nil {
		score = DefaultScore
	}
	return &recommenderService{
		log:         log.With("service", "RecommenderService"),
		profileRepo: profileRepo,
		analyzer:    analyzer,
		catalog:     catalog,
		score:       score,
	}, nil
}

func (s *recommenderService) Recommend(ctx context.Context, profileID uuid.UUID, maxCourses int, filters types.SearchFilters) (*types.RecommendationResult, error) {
	profiles, err := s.profileRepo.GetByIDs(ctx, nil, []uuid.UUID{profileID})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrProfileNotFound, profileID)
	}
	profile := profiles[0]

	analysis, err := s.analyzer.Analyze(ctx, profile.ProfileSummary)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(analysis.SearchQuery)
	if query == "" || strings.EqualFold(query, types.AnalysisNotSpecified) {
		// No usable query from analysis; search on the raw summary instead.
		query = profile.ProfileSummary
		s.log.Warn("analysis produced no search query, falling back to profile summary",
			"profile_id", profileID,
		)
	}

	hits, err := s.catalog.Search(ctx, query, maxCourses, filters)
	if err != nil {
		return nil, err
	}

	recommendations := make([]types.Recommendation, 0, len(hits))
	for _, hit := range hits {
		recommendations = append(recommendations, types.Recommendation{
			Course:          hit.Course,
			SimilarityScore: hit.SimilarityScore,
			FinalScore:      s.score(hit, analysis),
			Explanation:     explain(hit.Course, analysis),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].FinalScore == recommendations[j].FinalScore {
			return recommendations[i].Course.Seq < recommendations[j].Course.Seq
		}
		return recommendations[i].FinalScore > recommendations[j].FinalScore
	})
	if maxCourses > 0 && len(recommendations) > maxCourses {
		recommendations = recommendations[:maxCourses]
	}

	return &types.RecommendationResult{
		Analysis:        *analysis,
		Recommendations: recommendations,
	}, nil
}

// explain ties course metadata to the analysis with a fixed template, so the
// same inputs always yield the same text.
func explain(course types.Course, analysis *types.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s)", course.Title, course.Code))

	if course.Category != "" {
		b.WriteString(fmt.Sprintf(" covers %s", course.Category))
	}
	if course.Level != "" {
		b.WriteString(fmt.Sprintf(" at the %s level", course.Level))
	}

	if analysis.SkillGaps != types.AnalysisNotSpecified {
		b.WriteString(fmt.Sprintf(", addressing your skill gaps in %s", analysis.SkillGaps))
	}
	if analysis.CareerGoals != types.AnalysisNotSpecified {
		b.WriteString(fmt.Sprintf(" and supporting your goal of %s", analysis.CareerGoals))
	}
	b.WriteString(".")
	return b.String()
}
