package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/repos/testutil"
	"github.com/coursematch/coursematch-backend/internal/types"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCourseRepo(db, testutil.Logger(t))
	ctx := context.Background()

	before, err := repo.Count(ctx, tx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	created, err := repo.CreateMany(ctx, tx, []*types.Course{
		{
			ID:          uuid.New(),
			Code:        "CS101",
			Title:       "Introduction to Programming",
			Department:  "Computer Science",
			Level:       types.CourseLevelBeginner,
			Credits:     3,
			Category:    "Programming",
			ContentText: "Variables, control flow, functions.",
		},
		{
			ID:          uuid.New(),
			Code:        "CS301",
			Title:       "Machine Learning Fundamentals",
			Department:  "Computer Science",
			Level:       types.CourseLevelBeginner,
			Credits:     4,
			Category:    "Artificial Intelligence",
			ContentText: "Supervised learning, regression, classification.",
		},
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("CreateMany: expected 2 courses, got %d", len(created))
	}
	if created[0].Seq == 0 || created[1].Seq == 0 {
		t.Fatalf("CreateMany: expected seq backfill, got %d and %d", created[0].Seq, created[1].Seq)
	}
	if created[1].Seq <= created[0].Seq {
		t.Fatalf("CreateMany: expected seq to follow insertion order, got %d then %d", created[0].Seq, created[1].Seq)
	}

	gotByIDs, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[1].ID, created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 2 {
		t.Fatalf("GetByIDs: expected 2 courses, got %d", len(gotByIDs))
	}

	after, err := repo.Count(ctx, tx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before+2 {
		t.Fatalf("Count: expected %d, got %d", before+2, after)
	}

	if err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	remaining, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID, created[1].ID})
	if err != nil {
		t.Fatalf("GetByIDs after delete: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != created[1].ID {
		t.Fatalf("DeleteByIDs: expected only %s to remain, got %d rows", created[1].ID, len(remaining))
	}
}
