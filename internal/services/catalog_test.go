package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
	"github.com/coursematch/coursematch-backend/internal/platform/vector"
	"github.com/coursematch/coursematch-backend/internal/types"
)

func newTestCatalog(t *testing.T, repo *fakeCourseRepo, ai *fakeAI, store vector.Store) CatalogService {
	t.Helper()
	svc, err := NewCatalogService(newTestLogger(t), repo, ai, store, nil)
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}
	return svc
}

func TestAddCoursesEmbedsAndUpserts(t *testing.T) {
	repo := newFakeCourseRepo()
	var upserted []vector.Vector
	store := &fakeStore{
		upsertFn: func(_ context.Context, namespace string, vectors []vector.Vector) error {
			if namespace != courseNamespace {
				t.Fatalf("namespace: got=%q", namespace)
			}
			upserted = vectors
			return nil
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	courses := []*types.Course{
		{Code: "CS101", Title: "Intro", ContentText: "Programming basics.", Level: types.CourseLevelBeginner},
		{Code: "CS201", Title: "Data Structures", ContentText: "Trees and graphs.", Level: types.CourseLevelIntermediate},
	}
	created, err := svc.AddCourses(context.Background(), courses)
	if err != nil {
		t.Fatalf("AddCourses: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created: want=2 got=%d", len(created))
	}
	if created[0].Seq == 0 || created[1].Seq <= created[0].Seq {
		t.Fatalf("seq assignment: got=%d then %d", created[0].Seq, created[1].Seq)
	}
	if len(upserted) != 2 {
		t.Fatalf("upserted vectors: want=2 got=%d", len(upserted))
	}
	if upserted[0].ID != created[0].ID.String() {
		t.Fatalf("vector id: want=%q got=%q", created[0].ID, upserted[0].ID)
	}
	if upserted[0].Metadata["level"] != types.CourseLevelBeginner {
		t.Fatalf("vector metadata level: got=%v", upserted[0].Metadata["level"])
	}
}

func TestAddCoursesRejectsMissingContent(t *testing.T) {
	svc := newTestCatalog(t, newFakeCourseRepo(), &fakeAI{}, &fakeStore{})

	_, err := svc.AddCourses(context.Background(), []*types.Course{
		{Code: "CS999", Title: "No Content"},
	})
	if err == nil {
		t.Fatalf("expected error for missing content")
	}
}

func TestAddCoursesRollsBackRowsWhenEmbeddingFails(t *testing.T) {
	repo := newFakeCourseRepo()
	ai := &fakeAI{
		embedFn: func(_ context.Context, _ []string) ([][]float32, error) {
			return nil, fmt.Errorf("openai http 500")
		},
	}
	svc := newTestCatalog(t, repo, ai, &fakeStore{})

	_, err := svc.AddCourses(context.Background(), []*types.Course{
		{Code: "CS101", Title: "Intro", ContentText: "Programming basics."},
		{Code: "CS201", Title: "Data Structures", ContentText: "Trees and graphs."},
	})
	if err == nil {
		t.Fatalf("expected error when embedding fails")
	}
	total, err := repo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 0 {
		t.Fatalf("rows without vectors left behind: count=%d", total)
	}
}

func TestAddCoursesRollsBackRowsWhenUpsertFails(t *testing.T) {
	repo := newFakeCourseRepo()
	store := &fakeStore{
		upsertFn: func(_ context.Context, _ string, _ []vector.Vector) error {
			return fmt.Errorf("connection refused")
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	_, err := svc.AddCourses(context.Background(), []*types.Course{
		{Code: "CS101", Title: "Intro", ContentText: "Programming basics."},
	})
	if err == nil {
		t.Fatalf("expected error when upsert fails")
	}
	total, err := repo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 0 {
		t.Fatalf("rows without vectors left behind: count=%d", total)
	}
}

func TestAddCoursesFailureLeavesCorpusEmptyForReseed(t *testing.T) {
	repo := newFakeCourseRepo()
	attempts := 0
	ai := &fakeAI{
		embedFn: func(_ context.Context, inputs []string) ([][]float32, error) {
			attempts++
			if attempts == 1 {
				return nil, fmt.Errorf("temporary outage")
			}
			out := make([][]float32, len(inputs))
			for i := range inputs {
				out[i] = []float32{1, 0, 0}
			}
			return out, nil
		},
	}
	svc := newTestCatalog(t, repo, ai, &fakeStore{})

	if err := SeedCoursesIfEmpty(context.Background(), newTestLogger(t), svc); err == nil {
		t.Fatalf("expected seeding to surface the embed failure")
	}
	// failed seeding must not mark the corpus populated
	if err := SeedCoursesIfEmpty(context.Background(), newTestLogger(t), svc); err != nil {
		t.Fatalf("SeedCoursesIfEmpty retry: %v", err)
	}
	total, err := repo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != int64(len(sampleCourses)) {
		t.Fatalf("reseed after failure: want=%d rows got=%d", len(sampleCourses), total)
	}
}

func TestRemoveCoursesDeletesVectorsAndRows(t *testing.T) {
	repo := newFakeCourseRepo()
	created, err := repo.CreateMany(context.Background(), nil, []*types.Course{
		{ID: uuid.New(), Code: "A", Title: "First", ContentText: "x"},
		{ID: uuid.New(), Code: "B", Title: "Second", ContentText: "x"},
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	var deletedIDs []string
	store := &fakeStore{
		deleteFn: func(_ context.Context, namespace string, ids []string) error {
			if namespace != courseNamespace {
				t.Fatalf("namespace: got=%q", namespace)
			}
			deletedIDs = ids
			return nil
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	if err := svc.RemoveCourses(context.Background(), []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("RemoveCourses: %v", err)
	}
	if len(deletedIDs) != 1 || deletedIDs[0] != created[0].ID.String() {
		t.Fatalf("vector delete ids: got=%v", deletedIDs)
	}
	total, err := repo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 1 {
		t.Fatalf("rows after removal: want=1 got=%d", total)
	}
}

func TestRemoveCoursesKeepsRowsWhenVectorDeleteFails(t *testing.T) {
	repo := newFakeCourseRepo()
	created, err := repo.CreateMany(context.Background(), nil, []*types.Course{
		{ID: uuid.New(), Code: "A", Title: "First", ContentText: "x"},
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	store := &fakeStore{
		deleteFn: func(_ context.Context, _ string, _ []string) error {
			return fmt.Errorf("connection refused")
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	err = svc.RemoveCourses(context.Background(), []uuid.UUID{created[0].ID})
	if !errors.Is(err, errs.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
	total, err := repo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 1 {
		t.Fatalf("rows must survive a failed vector delete: got=%d", total)
	}
}

// cosineStore holds upserted vectors and answers queries with real cosine
// similarity, so added courses flow back out of Search unmocked.
type cosineStore struct {
	vectors map[string][]float32
}

func (s *cosineStore) Upsert(_ context.Context, _ string, vectors []vector.Vector) error {
	if s.vectors == nil {
		s.vectors = map[string][]float32{}
	}
	for _, v := range vectors {
		s.vectors[v.ID] = v.Values
	}
	return nil
}

func (s *cosineStore) QueryMatches(_ context.Context, _ string, q []float32, topK int, _ map[string]any) ([]vector.Match, error) {
	var matches []vector.Match
	for id, values := range s.vectors {
		matches = append(matches, vector.Match{ID: id, Score: cosine(q, values)})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *cosineStore) DeleteIDs(_ context.Context, _ string, ids []string) error {
	for _, id := range ids {
		delete(s.vectors, id)
	}
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestAddCoursesRoundTripThroughSearch(t *testing.T) {
	repo := newFakeCourseRepo()
	ai := &fakeAI{
		embedFn: func(_ context.Context, inputs []string) ([][]float32, error) {
			out := make([][]float32, len(inputs))
			for i, in := range inputs {
				if strings.Contains(strings.ToLower(in), "machine learning") {
					out[i] = []float32{1, 0, 0}
				} else {
					out[i] = []float32{0, 1, 0}
				}
			}
			return out, nil
		},
	}
	svc := newTestCatalog(t, repo, ai, &cosineStore{})

	created, err := svc.AddCourses(context.Background(), []*types.Course{
		{Code: "CS301", Title: "Machine Learning Fundamentals", ContentText: "Supervised learning."},
		{Code: "CS501", Title: "Advanced Network Security", ContentText: "Threat modeling."},
	})
	if err != nil {
		t.Fatalf("AddCourses: %v", err)
	}

	hits, err := svc.Search(context.Background(), "machine learning basics", 5, types.SearchFilters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatalf("expected the inserted course to be retrievable")
	}
	if hits[0].Course.ID != created[0].ID {
		t.Fatalf("top hit: want=%s got=%s", created[0].Code, hits[0].Course.Code)
	}
	if hits[0].SimilarityScore < 0.9 {
		t.Fatalf("matching-content similarity: want>=0.9 got=%v", hits[0].SimilarityScore)
	}
}

func TestSearchClampsK(t *testing.T) {
	repo := newFakeCourseRepo()
	var gotK int
	store := &fakeStore{
		queryFn: func(_ context.Context, _ string, _ []float32, topK int, _ map[string]any) ([]vector.Match, error) {
			gotK = topK
			return nil, nil
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{5, 5},
		{20, 20},
		{100, 20},
	}
	for _, tc := range cases {
		if _, err := svc.Search(context.Background(), "query", tc.in, types.SearchFilters{}); err != nil {
			t.Fatalf("Search(k=%d): %v", tc.in, err)
		}
		if gotK != tc.want {
			t.Fatalf("Search(k=%d): topK want=%d got=%d", tc.in, tc.want, gotK)
		}
	}
}

func TestSearchOrdersByScoreThenSeq(t *testing.T) {
	repo := newFakeCourseRepo()
	created, err := repo.CreateMany(context.Background(), nil, []*types.Course{
		{ID: uuid.New(), Code: "A", Title: "First", ContentText: "x"},
		{ID: uuid.New(), Code: "B", Title: "Second", ContentText: "x"},
		{ID: uuid.New(), Code: "C", Title: "Third", ContentText: "x"},
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	store := &fakeStore{
		queryFn: func(_ context.Context, _ string, _ []float32, _ int, _ map[string]any) ([]vector.Match, error) {
			return []vector.Match{
				{ID: created[2].ID.String(), Score: 0.8},
				{ID: created[0].ID.String(), Score: 0.8},
				{ID: created[1].ID.String(), Score: 0.9},
			}, nil
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	hits, err := svc.Search(context.Background(), "query", 3, types.SearchFilters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("hits: want=3 got=%d", len(hits))
	}
	if hits[0].Course.Code != "B" {
		t.Fatalf("top hit: want=B got=%q", hits[0].Course.Code)
	}
	// tied at 0.8: lower seq (A) before higher seq (C)
	if hits[1].Course.Code != "A" || hits[2].Course.Code != "C" {
		t.Fatalf("tie order: got=%q,%q", hits[1].Course.Code, hits[2].Course.Code)
	}
}

func TestSearchFilterTranslation(t *testing.T) {
	repo := newFakeCourseRepo()
	var gotFilter map[string]any
	store := &fakeStore{
		queryFn: func(_ context.Context, _ string, _ []float32, _ int, filter map[string]any) ([]vector.Match, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	_, err := svc.Search(context.Background(), "query", 5, types.SearchFilters{
		Levels:     []string{types.CourseLevelBeginner},
		Categories: []string{"Artificial Intelligence"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(gotFilter) != 2 {
		t.Fatalf("filter keys: want=2 got=%v", gotFilter)
	}
	levelFilter, ok := gotFilter["level"].(map[string]any)
	if !ok {
		t.Fatalf("level filter: got=%v", gotFilter["level"])
	}
	if _, ok := levelFilter["$in"]; !ok {
		t.Fatalf("level filter missing $in: got=%v", levelFilter)
	}
	if _, ok := gotFilter["department"]; ok {
		t.Fatalf("empty department set should place no restriction")
	}

	// empty filters pass nil through
	if _, err := svc.Search(context.Background(), "query", 5, types.SearchFilters{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotFilter != nil {
		t.Fatalf("empty filters: want=nil got=%v", gotFilter)
	}
}

func TestSearchFewerThanKIsNotAnError(t *testing.T) {
	repo := newFakeCourseRepo()
	created, err := repo.CreateMany(context.Background(), nil, []*types.Course{
		{ID: uuid.New(), Code: "A", Title: "Only", ContentText: "x"},
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	store := &fakeStore{
		queryFn: func(_ context.Context, _ string, _ []float32, _ int, _ map[string]any) ([]vector.Match, error) {
			return []vector.Match{{ID: created[0].ID.String(), Score: 0.7}}, nil
		},
	}
	svc := newTestCatalog(t, repo, &fakeAI{}, store)

	hits, err := svc.Search(context.Background(), "query", 10, types.SearchFilters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits: want=1 got=%d", len(hits))
	}
}

func TestSearchNoMatchesReturnsEmptyList(t *testing.T) {
	store := &fakeStore{
		queryFn: func(_ context.Context, _ string, _ []float32, _ int, _ map[string]any) ([]vector.Match, error) {
			return nil, nil
		},
	}
	svc := newTestCatalog(t, newFakeCourseRepo(), &fakeAI{}, store)

	hits, err := svc.Search(context.Background(), "query", 5, types.SearchFilters{
		Levels: []string{"NoSuchLevel"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", hits)
	}
}

func TestSearchCorpusFailure(t *testing.T) {
	store := &fakeStore{
		queryFn: func(_ context.Context, _ string, _ []float32, _ int, _ map[string]any) ([]vector.Match, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := newTestCatalog(t, newFakeCourseRepo(), &fakeAI{}, store)

	_, err := svc.Search(context.Background(), "query", 5, types.SearchFilters{})
	if !errors.Is(err, errs.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestSearchEmbedFailure(t *testing.T) {
	ai := &fakeAI{
		embedFn: func(_ context.Context, _ []string) ([][]float32, error) {
			return nil, fmt.Errorf("openai http 500")
		},
	}
	svc := newTestCatalog(t, newFakeCourseRepo(), ai, &fakeStore{})

	_, err := svc.Search(context.Background(), "query", 5, types.SearchFilters{})
	if !errors.Is(err, errs.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
}
