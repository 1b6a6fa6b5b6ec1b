package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coursematch/coursematch-backend/internal/clients/redis"
	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/platform/openai"
	"github.com/coursematch/coursematch-backend/internal/platform/vector"
	"github.com/coursematch/coursematch-backend/internal/repos"
	"github.com/coursematch/coursematch-backend/internal/types"
)

const (
	courseNamespace = "course"

	searchKMin = 1
	searchKMax = 20

	embedBatchSize    = 16
	embedBatchWorkers = 4
)

// CatalogService owns the course corpus: relational rows in Postgres plus one
// embedding per course in the vector store, keyed by the course id.
type CatalogService interface {
	AddCourses(ctx context.Context, courses []*types.Course) ([]*types.Course, error)
	RemoveCourses(ctx context.Context, courseIDs []uuid.UUID) error
	Search(ctx context.Context, query string, k int, filters types.SearchFilters) ([]types.CandidateHit, error)
	Stats(ctx context.Context) (*types.CourseStats, error)
}

type catalogService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	ai         openai.Client
	store      vector.Store
	embedCache redis.EmbedCache
	embedModel string
}

func NewCatalogService(
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	ai openai.Client,
	store vector.Store,
	embedCache redis.EmbedCache,
) (CatalogService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if courseRepo == nil {
		return nil, fmt.Errorf("course repo required")
	}
	if ai == nil {
		return nil, fmt.Errorf("openai client required")
	}
	if store == nil {
		return nil, fmt.Errorf("vector store required")
	}
	return &catalogService{
		log:        log.With("service", "CatalogService"),
		courseRepo: courseRepo,
		ai:         ai,
		store:      store,
		embedCache: embedCache,
		embedModel: "course-content",
	}, nil
}

// AddCourses inserts rows, embeds content in parallel batches, and upserts
// the vectors. The relational insert happens first so seq is assigned before
// anything reaches the vector store.
func (s *catalogService) AddCourses(ctx context.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	for _, c := range courses {
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.ContentText) == "" {
			return nil, fmt.Errorf("course %q missing title or content", c.Code)
		}
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}

	created, err := s.courseRepo.CreateMany(ctx, nil, courses)
	if err != nil {
		return nil, fmt.Errorf("insert courses: %w", err)
	}

	vectors := make([]vector.Vector, len(created))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedBatchWorkers)

	for start := 0; start < len(created); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(created) {
			end = len(created)
		}
		batch := created[start:end]
		offset := start

		g.Go(func() error {
			inputs := make([]string, len(batch))
			for i, c := range batch {
				inputs[i] = embeddingText(c)
			}
			embeddings, err := s.ai.Embed(gctx, inputs)
			if err != nil {
				return fmt.Errorf("embed courses: %w", err)
			}
			for i, c := range batch {
				vectors[offset+i] = vector.Vector{
					ID:     c.ID.String(),
					Values: embeddings[i],
					Metadata: map[string]any{
						"level":      c.Level,
						"department": c.Department,
						"category":   c.Category,
					},
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.rollbackCourseRows(ctx, created)
		return nil, err
	}

	if err := s.store.Upsert(ctx, courseNamespace, vectors); err != nil {
		s.rollbackCourseRows(ctx, created)
		return nil, fmt.Errorf("upsert course vectors: %w", err)
	}

	s.log.Info("courses added to corpus", "count", len(created))
	return created, nil
}

// rollbackCourseRows removes rows inserted by AddCourses when embedding or the
// vector upsert fails. Without it the corpus ends up with rows that have no
// vectors: Stats reports them, Search never finds them, and startup seeding
// sees a non-empty corpus and never retries.
func (s *catalogService) rollbackCourseRows(ctx context.Context, created []*types.Course) {
	ids := make([]uuid.UUID, len(created))
	for i, c := range created {
		ids[i] = c.ID
	}
	// the failure may be the caller's deadline expiring, so detach from it
	cleanupCtx := context.WithoutCancel(ctx)
	if err := s.courseRepo.DeleteByIDs(cleanupCtx, nil, ids); err != nil {
		s.log.Error("course row rollback failed", "error", err, "count", len(ids))
	}
}

// RemoveCourses deletes courses from both halves of the corpus. Vectors go
// first: if the vector delete fails the rows stay queryable, and a row delete
// failure leaves only unsearchable orphan rows behind.
func (s *catalogService) RemoveCourses(ctx context.Context, courseIDs []uuid.UUID) error {
	if len(courseIDs) == 0 {
		return nil
	}

	vectorIDs := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		vectorIDs[i] = id.String()
	}
	if err := s.store.DeleteIDs(ctx, courseNamespace, vectorIDs); err != nil {
		return fmt.Errorf("%w: delete course vectors: %v", errs.ErrCorpusUnavailable, err)
	}

	if err := s.courseRepo.DeleteByIDs(ctx, nil, courseIDs); err != nil {
		return fmt.Errorf("delete course rows: %w", err)
	}

	s.log.Info("courses removed from corpus", "count", len(courseIDs))
	return nil
}

// Search embeds the query and runs a pre-filtered similarity search. Filters
// restrict candidates inside the vector store so a filtered search still
// returns up to k genuine matches rather than post-filtering a fixed page.
func (s *catalogService) Search(ctx context.Context, query string, k int, filters types.SearchFilters) ([]types.CandidateHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query required")
	}
	if k < searchKMin {
		k = searchKMin
	}
	if k > searchKMax {
		k = searchKMax
	}

	embedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", errs.ErrCorpusUnavailable, err)
	}

	matches, err := s.store.QueryMatches(ctx, courseNamespace, embedding, k, filterMap(filters))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorpusUnavailable, err)
	}
	if len(matches) == 0 {
		return []types.CandidateHit{}, nil
	}

	scoreByID := make(map[uuid.UUID]float64, len(matches))
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		id, err := uuid.Parse(m.ID)
		if err != nil {
			s.log.Warn("corpus match with non-uuid id skipped", "match_id", m.ID)
			continue
		}
		scoreByID[id] = m.Score
		ids = append(ids, id)
	}

	rows, err := s.courseRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load courses: %v", errs.ErrCorpusUnavailable, err)
	}

	hits := make([]types.CandidateHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, types.CandidateHit{
			Course:          *row,
			SimilarityScore: scoreByID[row.ID],
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].SimilarityScore == hits[j].SimilarityScore {
			return hits[i].Course.Seq < hits[j].Course.Seq
		}
		return hits[i].SimilarityScore > hits[j].SimilarityScore
	})
	return hits, nil
}

func (s *catalogService) Stats(ctx context.Context) (*types.CourseStats, error) {
	total, err := s.courseRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	return &types.CourseStats{TotalCourses: total}, nil
}

func (s *catalogService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.embedCache != nil {
		if cached, ok := s.embedCache.Get(ctx, s.embedModel, query); ok {
			return cached, nil
		}
	}

	embeddings, err := s.ai.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embeddings))
	}

	if s.embedCache != nil {
		s.embedCache.Set(ctx, s.embedModel, query, embeddings[0])
	}
	return embeddings[0], nil
}

func embeddingText(c *types.Course) string {
	parts := []string{c.Title}
	if c.Department != "" {
		parts = append(parts, c.Department)
	}
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	if c.Level != "" {
		parts = append(parts, c.Level)
	}
	parts = append(parts, c.ContentText)
	return strings.Join(parts, ". ")
}

// filterMap renders SearchFilters in the corpus filter dialect: one $in set
// per populated field, fields ANDed. Empty sets place no restriction.
func filterMap(f types.SearchFilters) map[string]any {
	if f.Empty() {
		return nil
	}
	out := map[string]any{}
	if len(f.Levels) > 0 {
		out["level"] = map[string]any{"$in": f.Levels}
	}
	if len(f.Departments) > 0 {
		out["department"] = map[string]any{"$in": f.Departments}
	}
	if len(f.Categories) > 0 {
		out["category"] = map[string]any{"$in": f.Categories}
	}
	return out
}
