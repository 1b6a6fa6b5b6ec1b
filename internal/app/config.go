package app

import (
	"github.com/coursematch/coursematch-backend/internal/platform/envutil"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	SeedCourses bool
}

func LoadConfig(log *logger.Logger) Config {
	port := envutil.GetEnv("PORT", "8080", log)
	seed := envutil.GetEnvAsInt("SEED_SAMPLE_COURSES", 1, log)
	return Config{
		Port:        port,
		SeedCourses: seed != 0,
	}
}
