package handlers

import (
	"strings"

	"github.com/amirphl/concept-studio/models"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the audience vocabulary and remix policy rules registered
func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("age_range", func(fl validator.FieldLevel) bool {
		return models.IsValidAgeRange(fl.Field().String())
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return models.IsValidGender(fl.Field().String())
	})
	_ = v.RegisterValidation("income_level", func(fl validator.FieldLevel) bool {
		return models.IsValidIncomeLevel(fl.Field().String())
	})
	_ = v.RegisterValidation("interest_tag", func(fl validator.FieldLevel) bool {
		return models.IsValidInterestTag(fl.Field().String())
	})
	_ = v.RegisterValidation("remix_policy", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRemixPolicy(fl.Field().String())
		return err == nil
	})

	return v
}

func ageRangeChoices() []string    { return models.AgeRanges }
func genderChoices() []string      { return models.Genders }
func incomeLevelChoices() []string { return models.IncomeLevels }

func joinQuoted(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
