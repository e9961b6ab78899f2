package models

import (
	"fmt"
	"slices"
	"strings"
)

// Closed vocabularies for audience profiles
var (
	AgeRanges = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}

	Genders = []string{"All", "Male", "Female", "Non-binary", "Prefer not to say"}

	IncomeLevels = []string{
		"Low (<$30k)",
		"Lower-Middle ($30k-$50k)",
		"Middle ($50k-$75k)",
		"Upper-Middle ($75k-$100k)",
		"High ($100k+)",
	}

	InterestTags = []string{
		"Technology",
		"Fashion",
		"Sports",
		"Travel",
		"Food & Dining",
		"Health & Fitness",
		"Entertainment",
		"Arts & Culture",
		"Gaming",
		"Outdoor Activities",
		"Home & Garden",
		"Finance",
		"Education",
	}
)

func IsValidAgeRange(v string) bool {
	return slices.Contains(AgeRanges, v)
}

func IsValidGender(v string) bool {
	return slices.Contains(Genders, v)
}

func IsValidIncomeLevel(v string) bool {
	return slices.Contains(IncomeLevels, v)
}

func IsValidInterestTag(v string) bool {
	return slices.Contains(InterestTags, v)
}

// RemixPolicy selects how a remix result is persisted
type RemixPolicy string

const (
	// RemixPolicyBranch inserts a new child row pointing at the source concept
	RemixPolicyBranch RemixPolicy = "BRANCH"
	// RemixPolicyOverwrite replaces the source concept's content in place
	RemixPolicyOverwrite RemixPolicy = "OVERWRITE"
)

func (p RemixPolicy) String() string {
	return string(p)
}

func (p RemixPolicy) Valid() bool {
	return p == RemixPolicyBranch || p == RemixPolicyOverwrite
}

// ParseRemixPolicy parses a policy name case-insensitively.
func ParseRemixPolicy(s string) (RemixPolicy, error) {
	p := RemixPolicy(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown remix policy %q", s)
	}
	return p, nil
}
