package app

import (
	"gorm.io/gorm"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/repos"
)

type Repos struct {
	Profile repos.ProfileRepo
	Course  repos.CourseRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile: repos.NewProfileRepo(db, log),
		Course:  repos.NewCourseRepo(db, log),
	}
}
