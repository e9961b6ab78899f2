package services

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/concept-studio/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLMClient returns a fixed completion and records the request it saw
type stubLLMClient struct {
	content string
	err     error
	calls   int
	last    ChatRequest
}

func (s *stubLLMClient) ChatJSON(ctx context.Context, req ChatRequest) (string, error) {
	s.calls++
	s.last = req
	return s.content, s.err
}

func TestParseGeneratedConcept(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		title       string
		description string
	}{
		{
			name:        "valid object",
			content:     `{"title":"Pixel Quest","description":"A gamified scavenger hunt."}`,
			title:       "Pixel Quest",
			description: "A gamified scavenger hunt.",
		},
		{
			name:        "values are trimmed",
			content:     `{"title":"  Pixel Quest \n","description":"\tA hunt. "}`,
			title:       "Pixel Quest",
			description: "A hunt.",
		},
		{
			name:        "extra keys are ignored",
			content:     `{"title":"T","description":"D","tagline":"x"}`,
			title:       "T",
			description: "D",
		},
		{name: "not json", content: `Sure! Here is a concept`, expectError: true},
		{name: "missing title", content: `{"description":"D"}`, expectError: true},
		{name: "missing description", content: `{"title":"T"}`, expectError: true},
		{name: "blank title", content: `{"title":"   ","description":"D"}`, expectError: true},
		{name: "non string description", content: `{"title":"T","description":42}`, expectError: true},
		{name: "array payload", content: `["T","D"]`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concept, err := ParseGeneratedConcept(tt.content)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedLLMOutput)
				assert.Nil(t, concept)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, concept.Title)
			assert.Equal(t, tt.description, concept.Description)
		})
	}
}

func TestLLMConceptGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsSingleUserTurn", func(t *testing.T) {
		client := &stubLLMClient{content: `{"title":"Pixel Quest","description":"A hunt."}`}
		gen := NewLLMConceptGenerator(client, "", utils.NewNopLogger())

		concept, err := gen.Generate(ctx, techMillennials(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Pixel Quest", concept.Title)

		assert.Equal(t, 1, client.calls)
		assert.Equal(t, utils.DefaultLLMModel, client.last.Model)
		assert.Equal(t, utils.ConceptTemperature, client.last.Temperature)
		require.NotNil(t, client.last.ResponseFormat)
		assert.Equal(t, "json_object", client.last.ResponseFormat.Type)
		require.Len(t, client.last.Messages, 1)
		assert.Equal(t, "user", client.last.Messages[0].Role)
		assert.Equal(t, BuildConceptPrompt(techMillennials(), nil), client.last.Messages[0].Content)
	})

	t.Run("RemixUsesParent", func(t *testing.T) {
		client := &stubLLMClient{content: `{"title":"Pixel Quest 2","description":"Now at night."}`}
		gen := NewLLMConceptGenerator(client, "gpt-4o-mini", nil)

		parent := &ParentConcept{Title: "Pixel Quest", Description: "A hunt."}
		_, err := gen.Generate(ctx, techMillennials(), parent)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", client.last.Model)
		assert.Contains(t, client.last.Messages[0].Content, "Original Concept to Remix")
	})

	t.Run("MalformedOutputIsNotRetried", func(t *testing.T) {
		client := &stubLLMClient{content: `{"title":""}`}
		gen := NewLLMConceptGenerator(client, "", nil)

		concept, err := gen.Generate(ctx, techMillennials(), nil)
		assert.Nil(t, concept)
		assert.ErrorIs(t, err, ErrMalformedLLMOutput)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("TransportErrorsBecomeUnavailable", func(t *testing.T) {
		client := &stubLLMClient{err: errors.New("connection reset")}
		gen := NewLLMConceptGenerator(client, "", nil)

		_, err := gen.Generate(ctx, techMillennials(), nil)
		assert.ErrorIs(t, err, ErrLLMUnavailable)
		assert.NotErrorIs(t, err, ErrMalformedLLMOutput)
	})
}

func TestMockConceptGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("DerivesOutputFromInputs", func(t *testing.T) {
		mock := NewMockConceptGenerator()

		fresh, err := mock.Generate(ctx, techMillennials(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Tech Millennials Spotlight", fresh.Title)

		remix, err := mock.Generate(ctx, techMillennials(), &ParentConcept{Title: fresh.Title, Description: fresh.Description})
		require.NoError(t, err)
		assert.Equal(t, "Tech Millennials Spotlight (Remix)", remix.Title)

		assert.Equal(t, 2, mock.CallCount())
		assert.Nil(t, mock.Calls[0].Parent)
		assert.NotNil(t, mock.Calls[1].Parent)
	})

	t.Run("QueuedResponsesFirst", func(t *testing.T) {
		mock := NewMockConceptGenerator()
		mock.EnqueueRaw(`{"title":" Scripted ","description":"Body"}`)
		mock.EnqueueRaw(`not json`)

		first, err := mock.Generate(ctx, techMillennials(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Scripted", first.Title)

		_, err = mock.Generate(ctx, techMillennials(), nil)
		assert.ErrorIs(t, err, ErrMalformedLLMOutput)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		mock := NewMockConceptGenerator()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := mock.Generate(cctx, techMillennials(), nil)
		assert.ErrorIs(t, err, ErrLLMUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
