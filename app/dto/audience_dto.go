package dto

// AudienceRequest carries the full field set for inserting or replacing an audience
type AudienceRequest struct {
	ID          string   `json:"-"`
	Name        string   `json:"name" validate:"required,max=255"`
	AgeRange    string   `json:"age_range" validate:"required,age_range"`
	Gender      string   `json:"gender" validate:"required,gender"`
	Location    string   `json:"location" validate:"required,max=255"`
	Interests   []string `json:"interests" validate:"required,min=1,unique,dive,interest_tag"`
	IncomeLevel string   `json:"income_level" validate:"required,income_level"`
}

// AudienceResponse represents an audience row in responses
type AudienceResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AgeRange    string   `json:"age_range"`
	Gender      string   `json:"gender"`
	Location    string   `json:"location"`
	Interests   []string `json:"interests"`
	IncomeLevel string   `json:"income_level"`
	CreatedAt   string   `json:"created_at"`
}

// ListAudiencesResponse represents the audience catalogue, newest first
type ListAudiencesResponse struct {
	Audiences []AudienceResponse `json:"audiences"`
	Total     int                `json:"total"`
}

// DeleteAudienceResponse represents the response to an audience deletion
type DeleteAudienceResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
