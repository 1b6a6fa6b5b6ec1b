package services

import (
	"context"
	"fmt"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/types"
)

// SeedCoursesIfEmpty loads the bundled sample catalog when the corpus has no
// courses, so a fresh deployment can serve recommendations immediately.
func SeedCoursesIfEmpty(ctx context.Context, log *logger.Logger, catalog CatalogService) error {
	stats, err := catalog.Stats(ctx)
	if err != nil {
		return fmt.Errorf("corpus stats: %w", err)
	}
	if stats.TotalCourses > 0 {
		return nil
	}

	log.Info("course corpus empty, seeding sample catalog", "count", len(sampleCourses))
	courses := make([]*types.Course, len(sampleCourses))
	for i := range sampleCourses {
		c := sampleCourses[i]
		courses[i] = &c
	}
	if _, err := catalog.AddCourses(ctx, courses); err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	return nil
}

var sampleCourses = []types.Course{
	{
		Code:        "CS101",
		Title:       "Introduction to Programming",
		Department:  "Computer Science",
		Level:       types.CourseLevelBeginner,
		Credits:     3,
		Instructor:  "Dr. Sarah Chen",
		Category:    "Programming",
		ContentText: "Fundamentals of programming using Python. Variables, control flow, functions, basic data structures, and problem decomposition. No prior experience required.",
	},
	{
		Code:        "CS201",
		Title:       "Data Structures and Algorithms",
		Department:  "Computer Science",
		Level:       types.CourseLevelIntermediate,
		Credits:     4,
		Instructor:  "Prof. James Okafor",
		Category:    "Programming",
		ContentText: "Arrays, linked lists, trees, graphs, hash tables. Algorithm analysis, sorting, searching, recursion, and dynamic programming with practical coding assignments.",
	},
	{
		Code:        "CS301",
		Title:       "Machine Learning Fundamentals",
		Department:  "Computer Science",
		Level:       types.CourseLevelBeginner,
		Credits:     4,
		Instructor:  "Dr. Priya Raman",
		Category:    "Artificial Intelligence",
		ContentText: "Introduction to machine learning: supervised and unsupervised learning, regression, classification, model evaluation, and hands-on work with scikit-learn.",
	},
	{
		Code:        "CS401",
		Title:       "Deep Learning and Neural Networks",
		Department:  "Computer Science",
		Level:       types.CourseLevelAdvanced,
		Credits:     4,
		Instructor:  "Dr. Priya Raman",
		Category:    "Artificial Intelligence",
		ContentText: "Neural network architectures, backpropagation, convolutional and recurrent networks, transformers, and training at scale with PyTorch.",
	},
	{
		Code:        "CS501",
		Title:       "Advanced Network Security",
		Department:  "Computer Science",
		Level:       types.CourseLevelAdvanced,
		Credits:     3,
		Instructor:  "Prof. Marcus Webb",
		Category:    "Security",
		ContentText: "Cryptographic protocols, intrusion detection, penetration testing methodology, and secure network architecture for experienced practitioners.",
	},
	{
		Code:        "DS101",
		Title:       "Introduction to Data Analysis",
		Department:  "Data Science",
		Level:       types.CourseLevelBeginner,
		Credits:     3,
		Instructor:  "Dr. Elena Vasquez",
		Category:    "Data Science",
		ContentText: "Working with data in Python: pandas, exploratory analysis, descriptive statistics, and visualization with matplotlib. Aimed at newcomers to data work.",
	},
	{
		Code:        "DS301",
		Title:       "Statistical Modeling",
		Department:  "Data Science",
		Level:       types.CourseLevelIntermediate,
		Credits:     4,
		Instructor:  "Dr. Elena Vasquez",
		Category:    "Data Science",
		ContentText: "Probability distributions, hypothesis testing, linear and logistic regression, experimental design, and Bayesian inference with applied case studies.",
	},
	{
		Code:        "BA201",
		Title:       "Business Analytics",
		Department:  "Business",
		Level:       types.CourseLevelIntermediate,
		Credits:     3,
		Instructor:  "Prof. David Kim",
		Category:    "Analytics",
		ContentText: "Data-driven decision making: KPI design, dashboarding, forecasting, and communicating quantitative results to stakeholders.",
	},
	{
		Code:        "SE301",
		Title:       "Software Engineering Practices",
		Department:  "Computer Science",
		Level:       types.CourseLevelIntermediate,
		Credits:     3,
		Instructor:  "Prof. James Okafor",
		Category:    "Software Engineering",
		ContentText: "Version control, code review, testing strategies, continuous integration, and collaborative development on a semester-long team project.",
	},
	{
		Code:        "CS450",
		Title:       "Cloud Computing and Distributed Systems",
		Department:  "Computer Science",
		Level:       types.CourseLevelAdvanced,
		Credits:     4,
		Instructor:  "Dr. Sarah Chen",
		Category:    "Infrastructure",
		ContentText: "Distributed system design, consensus, containerization, orchestration, and building fault-tolerant services on public cloud platforms.",
	},
}
