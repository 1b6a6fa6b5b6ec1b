package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coursematch/coursematch-backend/internal/handlers"
)

type RouterConfig struct {
	HealthcheckHandler    *handlers.HealthcheckHandler
	ProfileHandler        *handlers.ProfileHandler
	CourseHandler         *handlers.CourseHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")
	{
		// Profiles
		api.POST("/profiles", cfg.ProfileHandler.Create)
		api.POST("/profiles/resume", cfg.ProfileHandler.CreateFromResume)
		api.POST("/profiles/url", cfg.ProfileHandler.CreateFromURL)
		api.GET("/profiles", cfg.ProfileHandler.List)
		api.GET("/profiles/stats", cfg.ProfileHandler.Stats)
		api.GET("/profiles/:id", cfg.ProfileHandler.Get)

		// Courses
		api.POST("/courses", cfg.CourseHandler.AddCourses)
		api.DELETE("/courses", cfg.CourseHandler.Remove)
		api.GET("/courses/search", cfg.CourseHandler.Search)
		api.GET("/courses/stats", cfg.CourseHandler.Stats)

		// Recommendations
		api.POST("/recommendations", cfg.RecommendationHandler.Recommend)
	}

	return router
}
