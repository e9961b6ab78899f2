package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/repository"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConceptGateway is the concept side of the persistence gateway. It is stateless
// and returns rows with the audience expanded when it still exists.
type ConceptGateway interface {
	FetchAudience(ctx context.Context, audienceID uuid.UUID) (*models.Audience, error)
	InsertConcept(ctx context.Context, audienceID uuid.UUID, title, description string, parentID *uuid.UUID) (*models.Concept, error)
	UpdateConceptContent(ctx context.Context, id uuid.UUID, title, description string, expectedUpdatedAt *time.Time) (*models.Concept, error)
	DeleteConcept(ctx context.Context, id uuid.UUID) error
	ListConcepts(ctx context.Context) ([]*models.Concept, error)
	GetConcept(ctx context.Context, id uuid.UUID) (*models.Concept, error)
}

// ConceptGatewayImpl implements ConceptGateway over the repositories
type ConceptGatewayImpl struct {
	audienceRepo repository.AudienceRepository
	conceptRepo  repository.ConceptRepository
	db           *gorm.DB
}

// NewConceptGateway creates a new concept gateway instance
func NewConceptGateway(audienceRepo repository.AudienceRepository, conceptRepo repository.ConceptRepository, db *gorm.DB) ConceptGateway {
	return &ConceptGatewayImpl{
		audienceRepo: audienceRepo,
		conceptRepo:  conceptRepo,
		db:           db,
	}
}

// FetchAudience returns ErrAudienceNotFound when the row does not exist
func (g *ConceptGatewayImpl) FetchAudience(ctx context.Context, audienceID uuid.UUID) (*models.Audience, error) {
	audience, err := g.audienceRepo.ByID(ctx, audienceID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if audience == nil {
		return nil, ErrAudienceNotFound
	}
	return audience, nil
}

// InsertConcept stores a concept after checking, in one transaction, that the audience
// exists and that a supplied parent exists and targets the same audience.
func (g *ConceptGatewayImpl) InsertConcept(ctx context.Context, audienceID uuid.UUID, title, description string, parentID *uuid.UUID) (*models.Concept, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, validationError("title is required")
	}
	if description == "" {
		return nil, validationError("description is required")
	}

	var inserted *models.Concept
	err := repository.WithTransaction(ctx, g.db, func(txCtx context.Context) error {
		audience, err := g.audienceRepo.ByID(txCtx, audienceID)
		if err != nil {
			return persistenceError(err)
		}
		if audience == nil {
			return ErrAudienceNotFound
		}

		if parentID != nil {
			// Row lock keeps the parent from disappearing before the child references it
			parent, err := g.conceptRepo.ByIDForUpdate(txCtx, *parentID)
			if err != nil {
				return persistenceError(err)
			}
			if parent == nil {
				return ErrConceptNotFound
			}
			if parent.AudienceID != audienceID {
				return ErrParentMismatch
			}
		}

		now := utils.StoreNow()
		concept := &models.Concept{
			AudienceID:      audienceID,
			Title:           title,
			Description:     description,
			ParentConceptID: parentID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := g.conceptRepo.Save(txCtx, concept); err != nil {
			return persistenceError(err)
		}

		inserted, err = g.conceptRepo.ByIDWithAudience(txCtx, concept.ID)
		if err != nil {
			return persistenceError(err)
		}
		if inserted == nil {
			return persistenceError(ErrConceptNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

// UpdateConceptContent overwrites title and description only. With a token the
// write succeeds only if the row still carries that updated_at value.
func (g *ConceptGatewayImpl) UpdateConceptContent(ctx context.Context, id uuid.UUID, title, description string, expectedUpdatedAt *time.Time) (*models.Concept, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, validationError("title is required")
	}
	if description == "" {
		return nil, validationError("description is required")
	}

	var updated *models.Concept
	err := repository.WithTransaction(ctx, g.db, func(txCtx context.Context) error {
		affected, err := g.conceptRepo.UpdateContent(txCtx, id, title, description, utils.StoreNow(), expectedUpdatedAt)
		if err != nil {
			return persistenceError(err)
		}
		if affected == 0 {
			current, err := g.conceptRepo.ByID(txCtx, id)
			if err != nil {
				return persistenceError(err)
			}
			if current == nil {
				return ErrConceptNotFound
			}
			return ErrConceptModified
		}

		updated, err = g.conceptRepo.ByIDWithAudience(txCtx, id)
		if err != nil {
			return persistenceError(err)
		}
		if updated == nil {
			return ErrConceptNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteConcept removes a concept; children keep their rows with parent_concept_id nulled by the store
func (g *ConceptGatewayImpl) DeleteConcept(ctx context.Context, id uuid.UUID) error {
	if _, err := g.conceptRepo.Delete(ctx, id); err != nil {
		return persistenceError(err)
	}
	return nil
}

// ListConcepts returns every concept newest first with audiences expanded
func (g *ConceptGatewayImpl) ListConcepts(ctx context.Context) ([]*models.Concept, error) {
	rows, err := g.conceptRepo.ListLatestWithAudience(ctx, 0, 0)
	if err != nil {
		return nil, persistenceError(err)
	}
	return rows, nil
}

// GetConcept returns ErrConceptNotFound when the row does not exist
func (g *ConceptGatewayImpl) GetConcept(ctx context.Context, id uuid.UUID) (*models.Concept, error) {
	concept, err := g.conceptRepo.ByIDWithAudience(ctx, id)
	if err != nil {
		return nil, persistenceError(err)
	}
	if concept == nil {
		return nil, ErrConceptNotFound
	}
	return concept, nil
}
