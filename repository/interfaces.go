// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/concept-studio/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uuid.UUID) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AudienceRepository defines operations for audience profiles
type AudienceRepository interface {
	Repository[models.Audience, models.AudienceFilter]
	Update(ctx context.Context, audience *models.Audience) (bool, error)
	ListLatest(ctx context.Context, limit, offset int) ([]*models.Audience, error)
}

// ConceptRepository defines operations for concepts
type ConceptRepository interface {
	Repository[models.Concept, models.ConceptFilter]
	ByIDWithAudience(ctx context.Context, id uuid.UUID) (*models.Concept, error)
	ByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Concept, error)
	ListLatestWithAudience(ctx context.Context, limit, offset int) ([]*models.Concept, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Concept, error)
	UpdateContent(ctx context.Context, id uuid.UUID, title, description string, updatedAt time.Time, expectedUpdatedAt *time.Time) (int64, error)
}
