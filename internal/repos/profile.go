package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursematch/coursematch-backend/internal/platform/logger"
	"github.com/coursematch/coursematch-backend/internal/types"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.Profile, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Profile, error)
	Stats(ctx context.Context, tx *gorm.DB) (*types.ProfileStats, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(profiles) == 0 {
		return []*types.Profile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (pr *profileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Profile
	if len(profileIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", profileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *profileRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*types.Profile
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *profileRepo) Stats(ctx context.Context, tx *gorm.DB) (*types.ProfileStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Profile{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var sourceCounts []struct {
		SourceType string
		Count      int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Profile{}).
		Select("source_type, count(*) as count").
		Group("source_type").
		Scan(&sourceCounts).Error; err != nil {
		return nil, err
	}
	sources := make(map[string]int64, len(sourceCounts))
	for _, sc := range sourceCounts {
		sources[sc.SourceType] = sc.Count
	}

	stats := &types.ProfileStats{
		TotalProfiles: total,
		TotalSources:  sources,
	}

	var latest types.Profile
	err := transaction.WithContext(ctx).
		Order("updated_at DESC").
		First(&latest).Error
	switch {
	case err == nil:
		lastUpdated := latest.UpdatedAt
		stats.LastUpdated = &lastUpdated
	case errors.Is(err, gorm.ErrRecordNotFound):
		// empty store
	default:
		return nil, err
	}

	return stats, nil
}
