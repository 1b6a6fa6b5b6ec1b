package app

import (
	"github.com/coursematch/coursematch-backend/internal/handlers"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
)

type Handlers struct {
	Healthcheck    *handlers.HealthcheckHandler
	Profile        *handlers.ProfileHandler
	Course         *handlers.CourseHandler
	Recommendation *handlers.RecommendationHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Healthcheck:    handlers.NewHealthcheckHandler(),
		Profile:        handlers.NewProfileHandler(log, serviceset.Profile),
		Course:         handlers.NewCourseHandler(log, serviceset.Catalog),
		Recommendation: handlers.NewRecommendationHandler(log, serviceset.Recommender),
	}
}
