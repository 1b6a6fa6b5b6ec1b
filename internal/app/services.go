package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/coursematch/coursematch-backend/internal/clients/redis"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/platform/openai"
	"github.com/coursematch/coursematch-backend/internal/platform/qdrant"
	"github.com/coursematch/coursematch-backend/internal/services"
)

type Services struct {
	OpenAI      openai.Client
	Profile     services.ProfileService
	Analyzer    services.AnalyzerService
	Catalog     services.CatalogService
	Recommender services.RecommenderService
}

func wireServices(log *logger.Logger, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	ai, err := openai.NewClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init openai client: %w", err)
	}

	qdrantCfg, err := qdrant.ResolveConfigFromEnv()
	if err != nil {
		return Services{}, fmt.Errorf("resolve qdrant config: %w", err)
	}
	store, err := qdrant.NewVectorStore(log, qdrantCfg)
	if err != nil {
		return Services{}, fmt.Errorf("init qdrant vector store: %w", err)
	}

	var embedCache redis.EmbedCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		embedCache, err = redis.NewEmbedCache(log)
		if err != nil {
			return Services{}, fmt.Errorf("init redis embed cache: %w", err)
		}
	}

	profileService, err := services.NewProfileService(log, reposet.Profile, ai)
	if err != nil {
		return Services{}, err
	}
	analyzer, err := services.NewAnalyzerService(log, ai)
	if err != nil {
		return Services{}, err
	}
	catalog, err := services.NewCatalogService(log, reposet.Course, ai, store, embedCache)
	if err != nil {
		return Services{}, err
	}
	recommender, err := services.NewRecommenderService(log, reposet.Profile, analyzer, catalog, nil)
	if err != nil {
		return Services{}, err
	}

	return Services{
		OpenAI:      ai,
		Profile:     profileService,
		Analyzer:    analyzer,
		Catalog:     catalog,
		Recommender: recommender,
	}, nil
}
