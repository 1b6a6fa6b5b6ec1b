package types

// AnalysisNotSpecified is the sentinel placed in any analysis field the model
// left blank, so downstream consumers never see empty strings.
const AnalysisNotSpecified = "not specified"

// AnalysisResult is the analyzer's reading of a profile summary. Ephemeral:
// computed per recommendation run, never persisted.
type AnalysisResult struct {
	SkillGaps     string `json:"skill_gaps"`
	CareerGoals   string `json:"career_goals"`
	LearningLevel string `json:"learning_level"`
	SearchQuery   string `json:"search_query"`
}
