package businessflow

import (
	"context"
	"slices"
	"strings"

	"github.com/amirphl/concept-studio/app/dto"
	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/repository"
	"github.com/amirphl/concept-studio/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AudienceFlow handles the audience side of the persistence gateway
type AudienceFlow interface {
	InsertAudience(ctx context.Context, req *dto.AudienceRequest) (*dto.AudienceResponse, error)
	UpdateAudience(ctx context.Context, req *dto.AudienceRequest) (*dto.AudienceResponse, error)
	DeleteAudience(ctx context.Context, id string) (*dto.DeleteAudienceResponse, error)
	ListAudiences(ctx context.Context) (*dto.ListAudiencesResponse, error)
	GetAudience(ctx context.Context, id string) (*dto.AudienceResponse, error)
}

// AudienceFlowImpl implements the audience business flow
type AudienceFlowImpl struct {
	audienceRepo repository.AudienceRepository
	db           *gorm.DB
	logger       *utils.Logger
}

// NewAudienceFlow creates a new audience flow instance
func NewAudienceFlow(audienceRepo repository.AudienceRepository, db *gorm.DB, logger *utils.Logger) AudienceFlow {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &AudienceFlowImpl{
		audienceRepo: audienceRepo,
		db:           db,
		logger:       logger.With("component", "audience_flow"),
	}
}

// InsertAudience validates and stores a new audience; the store assigns id and created_at
func (f *AudienceFlowImpl) InsertAudience(ctx context.Context, req *dto.AudienceRequest) (*dto.AudienceResponse, error) {
	audience, err := audienceFromRequest(req)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_VALIDATION_FAILED", "Audience validation failed", err)
	}
	audience.CreatedAt = utils.StoreNow()

	if err := f.audienceRepo.Save(ctx, audience); err != nil {
		f.logger.Error("Failed to insert audience", "name", audience.Name, "error", err)
		return nil, NewBusinessError("AUDIENCE_INSERT_FAILED", "Failed to insert audience", persistenceError(err))
	}

	resp := ToAudienceDTO(*audience)
	return &resp, nil
}

// UpdateAudience replaces every mutable field of an existing audience
func (f *AudienceFlowImpl) UpdateAudience(ctx context.Context, req *dto.AudienceRequest) (*dto.AudienceResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_VALIDATION_FAILED", "Invalid audience id", err)
	}

	audience, err := audienceFromRequest(req)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_VALIDATION_FAILED", "Audience validation failed", err)
	}
	audience.ID = id

	var updated *models.Audience
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		ok, err := f.audienceRepo.Update(txCtx, audience)
		if err != nil {
			return persistenceError(err)
		}
		if !ok {
			return ErrAudienceNotFound
		}

		updated, err = f.audienceRepo.ByID(txCtx, id)
		if err != nil {
			return persistenceError(err)
		}
		if updated == nil {
			return ErrAudienceNotFound
		}
		return nil
	})
	if err != nil {
		if !IsAudienceNotFound(err) {
			f.logger.Error("Failed to update audience", "audience_id", id, "error", err)
		}
		return nil, NewBusinessError("AUDIENCE_UPDATE_FAILED", "Failed to update audience", err)
	}

	resp := ToAudienceDTO(*updated)
	return &resp, nil
}

// DeleteAudience removes an audience. Its concepts are removed by the store's cascade.
func (f *AudienceFlowImpl) DeleteAudience(ctx context.Context, id string) (*dto.DeleteAudienceResponse, error) {
	audienceID, err := parseID(id)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_VALIDATION_FAILED", "Invalid audience id", err)
	}

	if _, err := f.audienceRepo.Delete(ctx, audienceID); err != nil {
		f.logger.Error("Failed to delete audience", "audience_id", audienceID, "error", err)
		return nil, NewBusinessError("AUDIENCE_DELETE_FAILED", "Failed to delete audience", persistenceError(err))
	}

	return &dto.DeleteAudienceResponse{
		Message: "Audience deleted successfully",
		ID:      audienceID.String(),
	}, nil
}

// ListAudiences returns every audience, newest first
func (f *AudienceFlowImpl) ListAudiences(ctx context.Context) (*dto.ListAudiencesResponse, error) {
	rows, err := f.audienceRepo.ListLatest(ctx, 0, 0)
	if err != nil {
		f.logger.Error("Failed to list audiences", "error", err)
		return nil, NewBusinessError("AUDIENCE_LIST_FAILED", "Failed to list audiences", persistenceError(err))
	}

	items := toAudienceDTOs(rows)
	return &dto.ListAudiencesResponse{
		Audiences: items,
		Total:     len(items),
	}, nil
}

func (f *AudienceFlowImpl) GetAudience(ctx context.Context, id string) (*dto.AudienceResponse, error) {
	audienceID, err := parseID(id)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_VALIDATION_FAILED", "Invalid audience id", err)
	}

	audience, err := f.audienceRepo.ByID(ctx, audienceID)
	if err != nil {
		f.logger.Error("Failed to fetch audience", "audience_id", audienceID, "error", err)
		return nil, NewBusinessError("AUDIENCE_FETCH_FAILED", "Failed to fetch audience", persistenceError(err))
	}
	if audience == nil {
		return nil, NewBusinessError("AUDIENCE_NOT_FOUND", "Audience not found", ErrAudienceNotFound)
	}

	resp := ToAudienceDTO(*audience)
	return &resp, nil
}

// audienceFromRequest enforces the audience invariants: every field present,
// enums drawn from their closed sets, and at least one distinct known interest.
func audienceFromRequest(req *dto.AudienceRequest) (*models.Audience, error) {
	if req == nil {
		return nil, validationError("request body is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, validationError("location is required")
	}
	if !models.IsValidAgeRange(req.AgeRange) {
		return nil, validationError("age_range %q is not one of %v", req.AgeRange, models.AgeRanges)
	}
	if !models.IsValidGender(req.Gender) {
		return nil, validationError("gender %q is not one of %v", req.Gender, models.Genders)
	}
	if !models.IsValidIncomeLevel(req.IncomeLevel) {
		return nil, validationError("income_level %q is not one of %v", req.IncomeLevel, models.IncomeLevels)
	}

	interests := utils.TrimAll(req.Interests)
	if len(interests) == 0 {
		return nil, validationError("at least one interest is required")
	}
	seen := make([]string, 0, len(interests))
	for _, tag := range interests {
		if !models.IsValidInterestTag(tag) {
			return nil, validationError("interest %q is not a known tag", tag)
		}
		if slices.Contains(seen, tag) {
			return nil, validationError("interest %q is listed more than once", tag)
		}
		seen = append(seen, tag)
	}

	return &models.Audience{
		Name:        name,
		AgeRange:    req.AgeRange,
		Gender:      req.Gender,
		Location:    location,
		Interests:   pq.StringArray(interests),
		IncomeLevel: req.IncomeLevel,
	}, nil
}
