package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProfileSourceManual = "manual"
	ProfileSourceResume = "resume"
	ProfileSourceURL    = "url"
)

// Profile is a learner profile. ProfileSummary is derived once at save time
// and is the only profile text the analysis pipeline reads; a recommendation
// run never recomputes it.
type Profile struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Email          string         `gorm:"column:email;not null" json:"email"`
	Phone          string         `gorm:"column:phone" json:"phone,omitempty"`
	Skills         datatypes.JSON `gorm:"column:skills;type:jsonb" json:"skills"`
	Education      string         `gorm:"column:education" json:"education"`
	Experience     string         `gorm:"column:experience" json:"experience"`
	Summary        string         `gorm:"column:summary" json:"summary"`
	ProfileSummary string         `gorm:"column:profile_summary;not null" json:"profile_summary"`
	SourceType     string         `gorm:"column:source_type;not null;default:manual" json:"source_type"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }

// ProfileInput is the manual-creation payload. Skills/Education/Experience
// are optional; Name and Email are required.
type ProfileInput struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Education  string   `json:"education"`
	Experience string   `json:"experience"`
	Summary    string   `json:"summary"`
}

// ProfileStats summarizes the profile store for the stats endpoint.
type ProfileStats struct {
	TotalProfiles int64            `json:"total_profiles"`
	TotalSources  map[string]int64 `json:"total_sources"`
	LastUpdated   *time.Time       `json:"last_updated,omitempty"`
}
