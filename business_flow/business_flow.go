// Package businessflow contains the business logic for the application.
package businessflow

import (
	"strings"

	"github.com/amirphl/concept-studio/app/dto"
	"github.com/amirphl/concept-studio/app/services"
	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
)

const RequestIDKey = "X-Request-ID"

// ToAudienceDTO converts an audience model to its response representation
func ToAudienceDTO(a models.Audience) dto.AudienceResponse {
	interests := make([]string, len(a.Interests))
	copy(interests, a.Interests)

	return dto.AudienceResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		AgeRange:    a.AgeRange,
		Gender:      a.Gender,
		Location:    a.Location,
		Interests:   interests,
		IncomeLevel: a.IncomeLevel,
		CreatedAt:   utils.FormatTimestamp(a.CreatedAt),
	}
}

// ToConceptDTO converts a concept model, including its expanded audience when loaded
func ToConceptDTO(c models.Concept) dto.ConceptResponse {
	resp := dto.ConceptResponse{
		ID:          c.ID.String(),
		AudienceID:  c.AudienceID.String(),
		Title:       c.Title,
		Description: c.Description,
		State:       string(c.State()),
		CreatedAt:   utils.FormatTimestamp(c.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(c.UpdatedAt),
	}
	if c.ParentConceptID != nil {
		resp.ParentConceptID = utils.ToPtr(c.ParentConceptID.String())
	}
	if c.Audience != nil {
		a := ToAudienceDTO(*c.Audience)
		resp.Audience = &a
	}
	return resp
}

func toConceptDTOs(rows []*models.Concept) []dto.ConceptResponse {
	out := make([]dto.ConceptResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, ToConceptDTO(*c))
	}
	return out
}

func toAudienceDTOs(rows []*models.Audience) []dto.AudienceResponse {
	out := make([]dto.AudienceResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, ToAudienceDTO(*a))
	}
	return out
}

// ToGenerationAudience projects an audience row onto the prompt context
func ToGenerationAudience(a models.Audience) services.GenerationAudience {
	interests := make([]string, len(a.Interests))
	copy(interests, a.Interests)

	return services.GenerationAudience{
		Name:        a.Name,
		AgeRange:    a.AgeRange,
		Gender:      a.Gender,
		Location:    a.Location,
		Interests:   interests,
		IncomeLevel: a.IncomeLevel,
	}
}

// parseID parses a textual identifier, wrapping failures as ErrInvalidID
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
