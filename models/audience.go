// Package models contains the persistent entities and closed vocabularies of the concept studio
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Audience is a named demographic profile consumed as prompt context.
// Interests are stored as a PostgreSQL TEXT[] column and keep insertion order.
type Audience struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	AgeRange    string         `gorm:"type:text;not null" json:"age_range"`
	Gender      string         `gorm:"type:text;not null" json:"gender"`
	Location    string         `gorm:"type:text;not null" json:"location"`
	Interests   pq.StringArray `gorm:"type:text[];not null" json:"interests"`
	IncomeLevel string         `gorm:"type:text;not null" json:"income_level"`

	CreatedAt time.Time `gorm:"not null;default:now();index:idx_audiences_created_at" json:"created_at"`

	Concepts []Concept `gorm:"foreignKey:AudienceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Audience) TableName() string {
	return "audiences"
}

// BeforeCreate assigns the identifier on the client side so inserts behave the
// same on stores without gen_random_uuid().
func (a *Audience) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AudienceFilter represents filter criteria for audience queries
type AudienceFilter struct {
	ID            *uuid.UUID
	Name          *string
	AgeRange      *string
	Gender        *string
	IncomeLevel   *string
	Interest      *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
