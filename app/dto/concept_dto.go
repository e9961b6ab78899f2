package dto

// ConceptResponse represents a concept row with its expanded audience.
// Audience is null when the referenced audience row no longer exists.
type ConceptResponse struct {
	ID              string            `json:"id"`
	AudienceID      string            `json:"audience_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	ParentConceptID *string           `json:"parent_concept_id"`
	State           string            `json:"state"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
	Audience        *AudienceResponse `json:"audience"`
}

// CreateConceptRequest represents the request to generate a root concept for an audience
type CreateConceptRequest struct {
	AudienceID string `json:"audience_id" validate:"required,uuid"`
}

// RemixConceptRequest represents the request to remix an existing concept.
// ExpectedUpdatedAt is the optimistic concurrency token for OVERWRITE.
type RemixConceptRequest struct {
	ConceptID         string  `json:"-"`
	Policy            string  `json:"policy" validate:"required,remix_policy"`
	ExpectedUpdatedAt *string `json:"expected_updated_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05.999999999Z07:00"`
}

// RemixConceptResponse represents the outcome of a remix
type RemixConceptResponse struct {
	Policy  string          `json:"policy"`
	Created bool            `json:"created"`
	Concept ConceptResponse `json:"concept"`
}

// ListConceptsResponse represents all concepts, newest first
type ListConceptsResponse struct {
	Concepts []ConceptResponse `json:"concepts"`
	Total    int               `json:"total"`
}

// ConceptLineageResponse lists a concept followed by its ancestors up to the root
type ConceptLineageResponse struct {
	ConceptID string            `json:"concept_id"`
	Lineage   []ConceptResponse `json:"lineage"`
	Depth     int               `json:"depth"`
}

// DeleteConceptResponse represents the response to a concept deletion
type DeleteConceptResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// WorkspaceResponse carries everything the studio page renders on load
type WorkspaceResponse struct {
	Audiences []AudienceResponse `json:"audiences"`
	Concepts  []ConceptResponse  `json:"concepts"`
}
