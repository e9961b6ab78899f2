package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/concept-studio/models"
	"gorm.io/gorm"
)

// AudienceRepositoryImpl implements AudienceRepository
type AudienceRepositoryImpl struct {
	*BaseRepository[models.Audience, models.AudienceFilter]
}

func NewAudienceRepository(db *gorm.DB) AudienceRepository {
	return &AudienceRepositoryImpl{BaseRepository: NewBaseRepository[models.Audience, models.AudienceFilter](db)}
}

func (r *AudienceRepositoryImpl) applyFilter(db *gorm.DB, f models.AudienceFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.AgeRange != nil {
		db = db.Where("age_range = ?", *f.AgeRange)
	}
	if f.Gender != nil {
		db = db.Where("gender = ?", *f.Gender)
	}
	if f.IncomeLevel != nil {
		db = db.Where("income_level = ?", *f.IncomeLevel)
	}
	if f.Interest != nil {
		db = db.Where("? = ANY (interests)", *f.Interest)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *AudienceRepositoryImpl) ByFilter(ctx context.Context, filter models.AudienceFilter, orderBy string, limit, offset int) ([]*models.Audience, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Audience{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Audience
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find audiences by filter: %w", err)
	}
	return rows, nil
}

// ListLatest returns audiences newest first
func (r *AudienceRepositoryImpl) ListLatest(ctx context.Context, limit, offset int) ([]*models.Audience, error) {
	return r.ByFilter(ctx, models.AudienceFilter{}, "created_at DESC", limit, offset)
}

// Update rewrites every mutable column of the audience. The identifier and
// created_at are left untouched. Reports whether a row matched.
func (r *AudienceRepositoryImpl) Update(ctx context.Context, audience *models.Audience) (bool, error) {
	db := r.getDB(ctx)

	res := db.Model(&models.Audience{}).
		Where("id = ?", audience.ID).
		Updates(map[string]any{
			"name":         audience.Name,
			"age_range":    audience.AgeRange,
			"gender":       audience.Gender,
			"location":     audience.Location,
			"interests":    audience.Interests,
			"income_level": audience.IncomeLevel,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update audience %s: %w", audience.ID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *AudienceRepositoryImpl) Count(ctx context.Context, filter models.AudienceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Audience{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count audiences: %w", err)
	}
	return count, nil
}

func (r *AudienceRepositoryImpl) Exists(ctx context.Context, filter models.AudienceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
