package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/coursematch/coursematch-backend/internal/ingestion/extractor"
	"github.com/coursematch/coursematch-backend/internal/pkg/errs"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/platform/openai"
	"github.com/coursematch/coursematch-backend/internal/repos"
	"github.com/coursematch/coursematch-backend/internal/types"
)

// ProfileService creates and reads learner profiles. The derived
// profile_summary is written once at creation; it is the only profile text
// the analyzer ever sees.
type ProfileService interface {
	CreateProfile(ctx context.Context, input types.ProfileInput, sourceType string) (*types.Profile, error)
	CreateFromResume(ctx context.Context, filename string, data []byte) (*types.Profile, error)
	CreateFromURL(ctx context.Context, pageURL string) (*types.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error)
	ListProfiles(ctx context.Context, limit int) ([]*types.Profile, error)
	Stats(ctx context.Context) (*types.ProfileStats, error)
}

type profileService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	ai          openai.Client
}

func NewProfileService(log *logger.Logger, profileRepo repos.ProfileRepo, ai openai.Client) (ProfileService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profile repo required")
	}
	if ai == nil {
		return nil, fmt.Errorf("openai client required")
	}
	return &profileService{
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		ai:          ai,
	}, nil
}

func (s *profileService) CreateProfile(ctx context.Context, input types.ProfileInput, sourceType string) (*types.Profile, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrInvalidProfile)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", errs.ErrInvalidProfile)
	}
	switch sourceType {
	case types.ProfileSourceManual, types.ProfileSourceResume, types.ProfileSourceURL:
	default:
		sourceType = types.ProfileSourceManual
	}

	skills := make([]string, 0, len(input.Skills))
	for _, skill := range input.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}

	profile := &types.Profile{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(input.Phone),
		Skills:     datatypes.JSON(skillsJSON),
		Education:  strings.TrimSpace(input.Education),
		Experience: strings.TrimSpace(input.Experience),
		Summary:    strings.TrimSpace(input.Summary),
		SourceType: sourceType,
	}
	profile.ProfileSummary = DeriveProfileSummary(name, skills, profile.Education, profile.Experience, profile.Summary)

	created, err := s.profileRepo.Create(ctx, nil, []*types.Profile{profile})
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	s.log.Info("profile created", "profile_id", created[0].ID, "source_type", sourceType)
	return created[0], nil
}

func (s *profileService) CreateFromResume(ctx context.Context, filename string, data []byte) (*types.Profile, error) {
	text, err := extractor.PDFText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidProfile, err)
	}
	input, err := s.extractProfileFields(ctx, text)
	if err != nil {
		return nil, err
	}
	s.log.Info("resume parsed", "filename", filename, "text_len", len(text))
	return s.CreateProfile(ctx, *input, types.ProfileSourceResume)
}

func (s *profileService) CreateFromURL(ctx context.Context, pageURL string) (*types.Profile, error) {
	text, err := extractor.PageText(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidProfile, err)
	}
	input, err := s.extractProfileFields(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.CreateProfile(ctx, *input, types.ProfileSourceURL)
}

func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	profiles, err := s.profileRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrProfileNotFound, id)
	}
	return profiles[0], nil
}

func (s *profileService) ListProfiles(ctx context.Context, limit int) ([]*types.Profile, error) {
	return s.profileRepo.List(ctx, nil, limit)
}

func (s *profileService) Stats(ctx context.Context) (*types.ProfileStats, error) {
	return s.profileRepo.Stats(ctx, nil)
}

const profileExtractionPrompt = `Extract the person's profile from the text.
Use empty strings for anything the text does not state. Do not invent
contact details.`

var profileExtractionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":       map[string]any{"type": "string"},
		"email":      map[string]any{"type": "string"},
		"phone":      map[string]any{"type": "string"},
		"skills":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"education":  map[string]any{"type": "string"},
		"experience": map[string]any{"type": "string"},
		"summary":    map[string]any{"type": "string"},
	},
	"required":             []string{"name", "email", "phone", "skills", "education", "experience", "summary"},
	"additionalProperties": false,
}

func (s *profileService) extractProfileFields(ctx context.Context, text string) (*types.ProfileInput, error) {
	obj, err := s.ai.GenerateJSON(ctx, profileExtractionPrompt, text, "profile_fields", profileExtractionSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: extract profile fields: %v", errs.ErrAnalysisUnavailable, err)
	}

	input := &types.ProfileInput{
		Name:       stringField(obj, "name"),
		Email:      stringField(obj, "email"),
		Phone:      stringField(obj, "phone"),
		Education:  stringField(obj, "education"),
		Experience: stringField(obj, "experience"),
		Summary:    stringField(obj, "summary"),
	}
	if rawSkills, ok := obj["skills"].([]any); ok {
		for _, raw := range rawSkills {
			if skill, ok := raw.(string); ok && strings.TrimSpace(skill) != "" {
				input.Skills = append(input.Skills, strings.TrimSpace(skill))
			}
		}
	}
	return input, nil
}

func stringField(obj map[string]any, key string) string {
	if raw, ok := obj[key]; ok {
		if str, ok := raw.(string); ok {
			return strings.TrimSpace(str)
		}
	}
	return ""
}

// DeriveProfileSummary renders the canonical summary text for a profile.
// Sections with no content are omitted; the same inputs always produce the
// same text.
func DeriveProfileSummary(name string, skills []string, education, experience, summary string) string {
	var lines []string
	lines = append(lines, "Name: "+name)
	if len(skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(skills, ", "))
	}
	if education != "" {
		lines = append(lines, "Education: "+education)
	}
	if experience != "" {
		lines = append(lines, "Experience: "+experience)
	}
	if summary != "" {
		lines = append(lines, "Summary: "+summary)
	}
	return strings.Join(lines, "\n")
}
