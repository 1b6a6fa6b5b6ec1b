package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/platform/vector"
	"github.com/coursematch/coursematch-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() {
		log.Sync()
	})
	return log
}

type fakeAI struct {
	embedFn    func(ctx context.Context, inputs []string) ([][]float32, error)
	generateFn func(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error)
}

func (f *fakeAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if f.embedFn == nil {
		out := make([][]float32, len(inputs))
		for i := range inputs {
			out[i] = []float32{1, 0, 0}
		}
		return out, nil
	}
	return f.embedFn(ctx, inputs)
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	return f.generateFn(ctx, system, user, schemaName, schema)
}

type fakeStore struct {
	upsertFn func(ctx context.Context, namespace string, vectors []vector.Vector) error
	queryFn  func(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]vector.Match, error)
	deleteFn func(ctx context.Context, namespace string, ids []string) error
}

func (f *fakeStore) Upsert(ctx context.Context, namespace string, vectors []vector.Vector) error {
	if f.upsertFn == nil {
		return nil
	}
	return f.upsertFn(ctx, namespace, vectors)
}

func (f *fakeStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]vector.Match, error) {
	return f.queryFn(ctx, namespace, q, topK, filter)
}

func (f *fakeStore) DeleteIDs(ctx context.Context, namespace string, ids []string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, namespace, ids)
}

// fakeCourseRepo keeps courses in memory and assigns seq in insertion order.
type fakeCourseRepo struct {
	courses map[uuid.UUID]*types.Course
	nextSeq int64
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[uuid.UUID]*types.Course{}}
}

func (f *fakeCourseRepo) CreateMany(_ context.Context, _ *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	for _, c := range courses {
		f.nextSeq++
		c.Seq = f.nextSeq
		f.courses[c.ID] = c
	}
	return courses, nil
}

func (f *fakeCourseRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.courses, id)
	}
	return nil
}

func (f *fakeCourseRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	return int64(len(f.courses)), nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*types.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, _ *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return profiles, nil
}

func (f *fakeProfileRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Profile, error) {
	var out []*types.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) List(_ context.Context, _ *gorm.DB, limit int) ([]*types.Profile, error) {
	var out []*types.Profile
	for _, p := range f.profiles {
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Stats(_ context.Context, _ *gorm.DB) (*types.ProfileStats, error) {
	sources := map[string]int64{}
	for _, p := range f.profiles {
		sources[p.SourceType]++
	}
	return &types.ProfileStats{
		TotalProfiles: int64(len(f.profiles)),
		TotalSources:  sources,
	}, nil
}

type fakeAnalyzer struct {
	analyzeFn func(ctx context.Context, profileSummary string) (*types.AnalysisResult, error)
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, profileSummary string) (*types.AnalysisResult, error) {
	return f.analyzeFn(ctx, profileSummary)
}

type fakeCatalog struct {
	searchFn func(ctx context.Context, query string, k int, filters types.SearchFilters) ([]types.CandidateHit, error)
}

func (f *fakeCatalog) AddCourses(_ context.Context, courses []*types.Course) ([]*types.Course, error) {
	return courses, nil
}

func (f *fakeCatalog) RemoveCourses(_ context.Context, _ []uuid.UUID) error {
	return nil
}

func (f *fakeCatalog) Search(ctx context.Context, query string, k int, filters types.SearchFilters) ([]types.CandidateHit, error) {
	return f.searchFn(ctx, query, k, filters)
}

func (f *fakeCatalog) Stats(_ context.Context) (*types.CourseStats, error) {
	return &types.CourseStats{}, nil
}
