package app

import (
	"github.com/gin-gonic/gin"

	"github.com/coursematch/coursematch-backend/internal/server"
)

func wireRouter(handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		HealthcheckHandler:    handlerset.Healthcheck,
		ProfileHandler:        handlerset.Profile,
		CourseHandler:         handlerset.Course,
		RecommendationHandler: handlerset.Recommendation,
	})
}
