package dto

// GenerationAudiencePayload is the audience profile sent to the generation endpoint.
// Extra row fields such as id and created_at are accepted and ignored.
type GenerationAudiencePayload struct {
	Name        string   `json:"name" validate:"required"`
	AgeRange    string   `json:"age_range" validate:"required,age_range"`
	Gender      string   `json:"gender" validate:"required,gender"`
	Location    string   `json:"location" validate:"required"`
	Interests   []string `json:"interests" validate:"required,min=1,dive,interest_tag"`
	IncomeLevel string   `json:"income_level" validate:"required,income_level"`
}

// ParentConceptPayload is the concept being remixed
type ParentConceptPayload struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// GenerateConceptRequest represents the body of POST /api/generate-concept
type GenerateConceptRequest struct {
	Audience      *GenerationAudiencePayload `json:"audience" validate:"required"`
	ParentConcept *ParentConceptPayload      `json:"parentConcept,omitempty" validate:"omitempty"`
}

// GenerateConceptResponse is the bare {title, description} pair
type GenerateConceptResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GenerateConceptErrorResponse is the bare error body of the generation endpoint
type GenerateConceptErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
