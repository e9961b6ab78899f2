package testing

import (
	"fmt"
	"time"

	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// TechMillennials returns the reference audience profile used across scenarios
func TechMillennials() *models.Audience {
	return &models.Audience{
		Name:        "Tech Millennials",
		AgeRange:    "25-34",
		Gender:      "All",
		Location:    "Urban Northeast, USA",
		Interests:   pq.StringArray{"Technology", "Gaming"},
		IncomeLevel: "Middle ($50k-$75k)",
	}
}

// CreateTestAudience inserts an audience row. A nil audience inserts TechMillennials.
func (tf *TestFixtures) CreateTestAudience(audience *models.Audience) (*models.Audience, error) {
	if audience == nil {
		audience = TechMillennials()
	}
	if audience.CreatedAt.IsZero() {
		audience.CreatedAt = utils.StoreNow()
	}
	if err := tf.DB.DB.Create(audience).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audience %s: %w", audience.Name, err)
	}
	return audience, nil
}

// CreateTestConcept inserts a concept row directly, bypassing lineage checks
func (tf *TestFixtures) CreateTestConcept(audienceID uuid.UUID, title, description string, parentID *uuid.UUID, createdAt time.Time) (*models.Concept, error) {
	if createdAt.IsZero() {
		createdAt = utils.StoreNow()
	}
	c := &models.Concept{
		AudienceID:      audienceID,
		Title:           title,
		Description:     description,
		ParentConceptID: parentID,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := tf.DB.DB.Omit("Audience", "Parent").Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create test concept %s: %w", title, err)
	}
	return c, nil
}
