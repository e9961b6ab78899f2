package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConceptState describes whether a concept was freshly generated or derived from a parent
type ConceptState string

const (
	ConceptStateRoot    ConceptState = "ROOT"
	ConceptStateDerived ConceptState = "DERIVED"
)

// Concept is a generated {title, description} pair anchored to exactly one audience.
// ParentConceptID is nulled by the store when the parent row is deleted.
// UpdatedAt doubles as the optimistic concurrency token for content overwrites.
type Concept struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AudienceID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_concepts_audience_id" json:"audience_id"`
	Title           string     `gorm:"type:text;not null" json:"title"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	ParentConceptID *uuid.UUID `gorm:"type:uuid;index:idx_concepts_parent_concept_id" json:"parent_concept_id"`

	CreatedAt time.Time `gorm:"not null;default:now();index:idx_concepts_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Relations
	Audience *Audience `gorm:"foreignKey:AudienceID;references:ID" json:"audience"`
	Parent   *Concept  `gorm:"foreignKey:ParentConceptID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Concept) TableName() string {
	return "concepts"
}

func (c *Concept) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// State reports ROOT for concepts without a parent pointer and DERIVED otherwise.
// A concept never changes state after insert; only BRANCH remixes produce DERIVED rows.
func (c *Concept) State() ConceptState {
	if c.ParentConceptID == nil {
		return ConceptStateRoot
	}
	return ConceptStateDerived
}

func (c *Concept) IsRoot() bool {
	return c.State() == ConceptStateRoot
}

// ConceptFilter represents filter criteria for concept queries
type ConceptFilter struct {
	ID              *uuid.UUID
	AudienceID      *uuid.UUID
	ParentConceptID *uuid.UUID
	RootsOnly       *bool
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}
