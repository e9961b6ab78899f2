package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/concept-studio/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation attempts partitioned by kind (fresh, remix) and outcome
	conceptGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concept_generations_total",
			Help: "Total number of concept generation calls by outcome",
		},
		[]string{"kind", "outcome"},
	)

	conceptGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concept_generation_duration_seconds",
			Help:    "Latency of concept generation calls in seconds",
			Buckets: []float64{0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		},
		[]string{"kind"},
	)
)

// GenerationAudience is the audience profile used as prompt context
type GenerationAudience struct {
	Name        string
	AgeRange    string
	Gender      string
	Location    string
	Interests   []string
	IncomeLevel string
}

// ParentConcept is the concept being remixed
type ParentConcept struct {
	Title       string
	Description string
}

// GeneratedConcept holds trimmed, non-empty generation output
type GeneratedConcept struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ConceptGenerator synthesises a concept for an audience, optionally remixing a parent.
// Implementations hold no state across calls and never persist.
type ConceptGenerator interface {
	Generate(ctx context.Context, audience GenerationAudience, parent *ParentConcept) (*GeneratedConcept, error)
}

// LLMConceptGenerator implements ConceptGenerator on top of a chat-completion client
type LLMConceptGenerator struct {
	client LLMClient
	model  string
	logger *utils.Logger
}

// NewLLMConceptGenerator creates a generator bound to one model
func NewLLMConceptGenerator(client LLMClient, model string, logger *utils.Logger) ConceptGenerator {
	if model == "" {
		model = utils.DefaultLLMModel
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &LLMConceptGenerator{
		client: client,
		model:  model,
		logger: logger.With("component", "concept_generator"),
	}
}

// Generate performs one chat completion and validates its output. Malformed output is not retried.
func (g *LLMConceptGenerator) Generate(ctx context.Context, audience GenerationAudience, parent *ParentConcept) (*GeneratedConcept, error) {
	kind := "fresh"
	if parent != nil {
		kind = "remix"
	}

	prompt := BuildConceptPrompt(audience, parent)
	fingerprint := PromptFingerprint(prompt)

	start := time.Now()
	content, err := g.client.ChatJSON(ctx, ChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature:    utils.ConceptTemperature,
		ResponseFormat: &ChatResponseFormat{Type: "json_object"},
	})
	conceptGenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "unavailable"
		if errors.Is(err, ErrMalformedLLMOutput) {
			outcome = "malformed"
		} else if !errors.Is(err, ErrLLMUnavailable) {
			err = fmt.Errorf("%w: %w", ErrLLMUnavailable, err)
		}
		conceptGenerationsTotal.WithLabelValues(kind, outcome).Inc()
		g.logger.Error("Concept generation failed",
			"kind", kind,
			"model", g.model,
			"prompt_fingerprint", fingerprint,
			"error", err,
		)
		return nil, err
	}

	concept, err := ParseGeneratedConcept(content)
	if err != nil {
		conceptGenerationsTotal.WithLabelValues(kind, "malformed").Inc()
		g.logger.Error("Concept generation returned malformed output",
			"kind", kind,
			"model", g.model,
			"prompt_fingerprint", fingerprint,
			"error", err,
		)
		return nil, err
	}

	conceptGenerationsTotal.WithLabelValues(kind, "success").Inc()
	g.logger.Info("Concept generated",
		"kind", kind,
		"model", g.model,
		"prompt_fingerprint", fingerprint,
		"duration", time.Since(start).String(),
	)

	return concept, nil
}

// ParseGeneratedConcept decodes a completion into a concept. Both keys must be
// present and non-empty after trimming; the returned values are trimmed.
func ParseGeneratedConcept(content string) (*GeneratedConcept, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", ErrMalformedLLMOutput, err)
	}

	title, err := requiredString(raw, "title")
	if err != nil {
		return nil, err
	}
	description, err := requiredString(raw, "description")
	if err != nil {
		return nil, err
	}

	return &GeneratedConcept{Title: title, Description: description}, nil
}

func requiredString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMalformedLLMOutput, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformedLLMOutput, key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrMalformedLLMOutput, key)
	}
	return s, nil
}
