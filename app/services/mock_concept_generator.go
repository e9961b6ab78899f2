package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockConceptGenerator implements ConceptGenerator without calling a provider.
// Queued responses are returned first; afterwards output is derived from the inputs.
type MockConceptGenerator struct {
	mu        sync.Mutex
	responses []MockGeneration
	Calls     []MockGenerationCall
}

// MockGeneration is a scripted generator outcome
type MockGeneration struct {
	Concept *GeneratedConcept
	Err     error
}

// MockGenerationCall records the inputs of one Generate call
type MockGenerationCall struct {
	Audience GenerationAudience
	Parent   *ParentConcept
	Prompt   string
}

// NewMockConceptGenerator creates a new mock generator
func NewMockConceptGenerator() *MockConceptGenerator {
	return &MockConceptGenerator{}
}

// Enqueue appends scripted outcomes consumed in order
func (m *MockConceptGenerator) Enqueue(results ...MockGeneration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, results...)
}

// EnqueueRaw scripts a raw completion body, parsed exactly as a provider response would be
func (m *MockConceptGenerator) EnqueueRaw(content string) {
	concept, err := ParseGeneratedConcept(content)
	m.Enqueue(MockGeneration{Concept: concept, Err: err})
}

func (m *MockConceptGenerator) Generate(ctx context.Context, audience GenerationAudience, parent *ParentConcept) (*GeneratedConcept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockGenerationCall{
		Audience: audience,
		Parent:   parent,
		Prompt:   BuildConceptPrompt(audience, parent),
	})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMUnavailable, err)
	}

	if len(m.responses) > 0 {
		next := m.responses[0]
		m.responses = m.responses[1:]
		return next.Concept, next.Err
	}

	if parent != nil {
		return &GeneratedConcept{
			Title:       parent.Title + " (Remix)",
			Description: fmt.Sprintf("A fresh take on %q for %s.", parent.Title, audience.Name),
		}, nil
	}
	return &GeneratedConcept{
		Title:       audience.Name + " Spotlight",
		Description: fmt.Sprintf("A campaign for %s built around %s.", audience.Name, strings.Join(audience.Interests, ", ")),
	}, nil
}

// CallCount returns the number of Generate calls observed
func (m *MockConceptGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
