package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/concept-studio/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConceptRepositoryImpl implements ConceptRepository
type ConceptRepositoryImpl struct {
	*BaseRepository[models.Concept, models.ConceptFilter]
}

func NewConceptRepository(db *gorm.DB) ConceptRepository {
	return &ConceptRepositoryImpl{BaseRepository: NewBaseRepository[models.Concept, models.ConceptFilter](db)}
}

func (r *ConceptRepositoryImpl) applyFilter(db *gorm.DB, f models.ConceptFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.AudienceID != nil {
		db = db.Where("audience_id = ?", *f.AudienceID)
	}
	if f.ParentConceptID != nil {
		db = db.Where("parent_concept_id = ?", *f.ParentConceptID)
	}
	if f.RootsOnly != nil {
		if *f.RootsOnly {
			db = db.Where("parent_concept_id IS NULL")
		} else {
			db = db.Where("parent_concept_id IS NOT NULL")
		}
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ConceptRepositoryImpl) ByFilter(ctx context.Context, filter models.ConceptFilter, orderBy string, limit, offset int) ([]*models.Concept, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Concept{}), filter)

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

	var rows []*models.Concept
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find concepts by filter: %w", err)
	}
	return rows, nil
}

// ByIDWithAudience loads a concept and expands its audience row.
// Audience is nil when the referenced row no longer exists.
func (r *ConceptRepositoryImpl) ByIDWithAudience(ctx context.Context, id uuid.UUID) (*models.Concept, error) {
	db := r.getDB(ctx)

	var c models.Concept
	err := db.Preload("Audience").Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find concept %s: %w", id, err)
	}
	return &c, nil
}

// ByIDForUpdate reads a concept under a row lock when called inside a transaction
func (r *ConceptRepositoryImpl) ByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Concept, error) {
	db := r.getDB(ctx)

	var c models.Concept
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock concept %s: %w", id, err)
	}
	return &c, nil
}

// ListLatestWithAudience returns concepts newest first, each with its audience expanded
func (r *ConceptRepositoryImpl) ListLatestWithAudience(ctx context.Context, limit, offset int) ([]*models.Concept, error) {
	db := r.getDB(ctx)

	query := db.Preload("Audience").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Concept
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	return rows, nil
}

func (r *ConceptRepositoryImpl) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Concept, error) {
	return r.ByFilter(ctx, models.ConceptFilter{ParentConceptID: &parentID}, "created_at DESC", 0, 0)
}

// UpdateContent overwrites title and description only; parent_concept_id is never part of the update.
// When expectedUpdatedAt is set the write is conditional on the current token.
// Returns the number of rows affected.
func (r *ConceptRepositoryImpl) UpdateContent(ctx context.Context, id uuid.UUID, title, description string, updatedAt time.Time, expectedUpdatedAt *time.Time) (int64, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Concept{}).Where("id = ?", id)
	if expectedUpdatedAt != nil {
		query = query.Where("updated_at = ?", expectedUpdatedAt.UTC())
	}

	res := query.UpdateColumns(map[string]any{
		"title":       title,
		"description": description,
		"updated_at":  updatedAt,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update concept content %s: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ConceptRepositoryImpl) Count(ctx context.Context, filter models.ConceptFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Concept{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count concepts: %w", err)
	}
	return count, nil
}

func (r *ConceptRepositoryImpl) Exists(ctx context.Context, filter models.ConceptFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
