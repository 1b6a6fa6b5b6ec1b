package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/types"
)

type seedCatalog struct {
	total int64
	added []*types.Course
}

func (c *seedCatalog) AddCourses(_ context.Context, courses []*types.Course) ([]*types.Course, error) {
	c.added = append(c.added, courses...)
	return courses, nil
}

func (c *seedCatalog) RemoveCourses(_ context.Context, _ []uuid.UUID) error {
	return nil
}

func (c *seedCatalog) Search(_ context.Context, _ string, _ int, _ types.SearchFilters) ([]types.CandidateHit, error) {
	return nil, nil
}

func (c *seedCatalog) Stats(_ context.Context) (*types.CourseStats, error) {
	return &types.CourseStats{TotalCourses: c.total}, nil
}

func TestSeedCoursesIfEmptySeedsOnce(t *testing.T) {
	catalog := &seedCatalog{total: 0}
	if err := SeedCoursesIfEmpty(context.Background(), newTestLogger(t), catalog); err != nil {
		t.Fatalf("SeedCoursesIfEmpty: %v", err)
	}
	if len(catalog.added) != len(sampleCourses) {
		t.Fatalf("seeded courses: want=%d got=%d", len(sampleCourses), len(catalog.added))
	}

	codes := map[string]bool{}
	for _, c := range catalog.added {
		codes[c.Code] = true
	}
	if !codes["CS301"] || !codes["CS501"] {
		t.Fatalf("sample catalog missing expected courses: %v", codes)
	}
}

func TestSeedCoursesIfEmptySkipsPopulatedCorpus(t *testing.T) {
	catalog := &seedCatalog{total: 42}
	if err := SeedCoursesIfEmpty(context.Background(), newTestLogger(t), catalog); err != nil {
		t.Fatalf("SeedCoursesIfEmpty: %v", err)
	}
	if len(catalog.added) != 0 {
		t.Fatalf("populated corpus should not be reseeded, added=%d", len(catalog.added))
	}
}
