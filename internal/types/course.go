package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CourseLevelBeginner     = "Beginner"
	CourseLevelIntermediate = "Intermediate"
	CourseLevelAdvanced     = "Advanced"
)

// Course is one catalog entry. Seq records insertion order and is the stable
// tie-break key for equal-score ranking. The course embedding lives in the
// vector store, keyed by the course id.
type Course struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Seq         int64          `gorm:"column:seq;autoIncrement;uniqueIndex" json:"seq"`
	Code        string         `gorm:"column:code;not null;index" json:"code"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Department  string         `gorm:"column:department;index" json:"department"`
	Level       string         `gorm:"column:level;index" json:"level"`
	Credits     int            `gorm:"column:credits" json:"credits"`
	Instructor  string         `gorm:"column:instructor" json:"instructor"`
	Category    string         `gorm:"column:category;index" json:"category"`
	ContentText string         `gorm:"column:content_text;not null" json:"content_text"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// CourseStats summarizes the corpus for the stats endpoint.
type CourseStats struct {
	TotalCourses int64 `json:"total_courses"`
}

// SearchFilters restricts corpus search by course metadata. Each field is a
// value set; an empty set places no restriction on that field. Populated
// fields are combined with AND.
type SearchFilters struct {
	Levels      []string `json:"levels"`
	Departments []string `json:"departments"`
	Categories  []string `json:"categories"`
}

func (f SearchFilters) Empty() bool {
	return len(f.Levels) == 0 && len(f.Departments) == 0 && len(f.Categories) == 0
}
