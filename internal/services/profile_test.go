package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
	"github.com/coursematch/coursematch-backend/internal/types"
)

func newTestProfileService(t *testing.T, repo *fakeProfileRepo, ai *fakeAI) ProfileService {
	t.Helper()
	if ai == nil {
		ai = &fakeAI{}
	}
	svc, err := NewProfileService(newTestLogger(t), repo, ai)
	if err != nil {
		t.Fatalf("NewProfileService: %v", err)
	}
	return svc
}

func TestCreateProfileValidation(t *testing.T) {
	svc := newTestProfileService(t, newFakeProfileRepo(), nil)

	cases := []struct {
		name  string
		input types.ProfileInput
	}{
		{"missing_name", types.ProfileInput{Email: "a@example.com"}},
		{"missing_email", types.ProfileInput{Name: "Ada"}},
		{"bad_email", types.ProfileInput{Name: "Ada", Email: "not-an-email"}},
		{"blank_name", types.ProfileInput{Name: "   ", Email: "a@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProfile(context.Background(), tc.input, types.ProfileSourceManual)
			if !errors.Is(err, errs.ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestCreateProfileDerivesSummary(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(t, repo, nil)

	input := types.ProfileInput{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Skills:     []string{"Python", " SQL ", ""},
		Education:  "BSc Mathematics",
		Experience: "2 years data analysis",
		Summary:    "Looking to move into machine learning",
	}
	created, err := svc.CreateProfile(context.Background(), input, types.ProfileSourceManual)
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	want := strings.Join([]string{
		"Name: Ada Lovelace",
		"Skills: Python, SQL",
		"Education: BSc Mathematics",
		"Experience: 2 years data analysis",
		"Summary: Looking to move into machine learning",
	}, "\n")
	if created.ProfileSummary != want {
		t.Fatalf("profile summary:\nwant=%q\ngot=%q", want, created.ProfileSummary)
	}
	if created.SourceType != types.ProfileSourceManual {
		t.Fatalf("source type: got=%q", created.SourceType)
	}
}

func TestDeriveProfileSummaryDeterministicAndOmitsEmpty(t *testing.T) {
	a := DeriveProfileSummary("Ada", []string{"Python"}, "", "", "")
	b := DeriveProfileSummary("Ada", []string{"Python"}, "", "", "")
	if a != b {
		t.Fatalf("not deterministic: %q vs %q", a, b)
	}
	if strings.Contains(a, "Education:") || strings.Contains(a, "Experience:") || strings.Contains(a, "Summary:") {
		t.Fatalf("empty sections should be omitted: %q", a)
	}
	if !strings.HasPrefix(a, "Name: Ada") {
		t.Fatalf("summary should start with name line: %q", a)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newTestProfileService(t, newFakeProfileRepo(), nil)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	if !errors.Is(err, errs.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestCreateFromResumeRejectsBadPDF(t *testing.T) {
	svc := newTestProfileService(t, newFakeProfileRepo(), &fakeAI{
		generateFn: func(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
			t.Fatalf("unexpected LLM call for unreadable pdf")
			return nil, nil
		},
	})

	_, err := svc.CreateFromResume(context.Background(), "resume.pdf", []byte("not a pdf"))
	if !errors.Is(err, errs.ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestExtractProfileFieldsMapsSchema(t *testing.T) {
	repo := newFakeProfileRepo()
	ai := &fakeAI{
		generateFn: func(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
			if schemaName != "profile_fields" {
				t.Fatalf("schema name: got=%q", schemaName)
			}
			return map[string]any{
				"name":       "Jane Doe",
				"email":      "jane@example.com",
				"phone":      "",
				"skills":     []any{"Go", "Kubernetes", 42},
				"education":  "MSc CS",
				"experience": "5 years backend",
				"summary":    "Platform engineer",
			}, nil
		},
	}
	svc := newTestProfileService(t, repo, ai)

	impl, ok := svc.(*profileService)
	if !ok {
		t.Fatalf("expected *profileService, got %T", svc)
	}
	input, err := impl.extractProfileFields(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("extractProfileFields: %v", err)
	}
	if input.Name != "Jane Doe" || input.Email != "jane@example.com" {
		t.Fatalf("identity fields: %+v", input)
	}
	if len(input.Skills) != 2 {
		t.Fatalf("skills should drop non-strings: %v", input.Skills)
	}
}
