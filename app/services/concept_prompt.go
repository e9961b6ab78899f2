package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	promptPersona = "You are a creative marketing strategist."

	freshTask = " Based on the following audience demographics, generate an innovative marketing concept."
	remixTask = " Based on the following audience and original concept, create an updated version that remixes and improves upon the original with fresh creative ideas."

	freshInstruction = "Generate a creative marketing concept tailored to this audience."
	remixInstruction = "Generate an improved marketing concept that remixes and enhances the original. Keep the core essence but add fresh creative elements."

	jsonContract = ` Return ONLY a JSON object with this exact structure:
{
  "title": "Compelling concept title",
  "description": "Detailed concept description (2-3 sentences)"
}`
)

// BuildConceptPrompt renders the single user turn sent to the model.
// Labels and their order are fixed so identical inputs produce identical prompts.
func BuildConceptPrompt(audience GenerationAudience, parent *ParentConcept) string {
	var b strings.Builder

	b.WriteString(promptPersona)
	if parent != nil {
		b.WriteString(remixTask)
	} else {
		b.WriteString(freshTask)
	}

	b.WriteString("\n\nAudience:\n")
	b.WriteString("- Name: " + audience.Name + "\n")
	b.WriteString("- Age Range: " + audience.AgeRange + "\n")
	b.WriteString("- Gender: " + audience.Gender + "\n")
	b.WriteString("- Location: " + audience.Location + "\n")
	b.WriteString("- Interests: " + strings.Join(audience.Interests, ", ") + "\n")
	b.WriteString("- Income Level: " + audience.IncomeLevel + "\n\n")

	if parent != nil {
		b.WriteString("Original Concept to Remix:\n")
		b.WriteString("Title: " + parent.Title + "\n")
		b.WriteString("Description: " + parent.Description + "\n\n")
		b.WriteString(remixInstruction)
	} else {
		b.WriteString(freshInstruction)
	}

	b.WriteString(jsonContract)
	return b.String()
}

// PromptFingerprint returns the hex sha256 of a prompt
func PromptFingerprint(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
