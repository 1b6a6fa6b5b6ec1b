package types

// CandidateHit is one corpus search result: a course plus its similarity to
// the query text.
type CandidateHit struct {
	Course          Course  `json:"course"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Recommendation is a scored, explained candidate in a ranked list.
type Recommendation struct {
	Course          Course  `json:"course"`
	SimilarityScore float64 `json:"similarity_score"`
	FinalScore      float64 `json:"final_score"`
	Explanation     string  `json:"explanation"`
}

// RecommendationResult carries the analysis that drove a run alongside the
// ranked list, so callers can show why the list looks the way it does.
type RecommendationResult struct {
	Analysis        AnalysisResult   `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
}
