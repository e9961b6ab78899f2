package utils

import (
	"time"
)

// Request-scoped context keys
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)

// Concept generation constants
const (
	// DefaultLLMModel is used when LLM_MODEL is not set
	DefaultLLMModel = "gpt-4o"

	// ConceptTemperature is fixed; generation favours diversity over determinism
	ConceptTemperature = 0.8

	// DefaultRequestTimeout bounds a handler's request context
	DefaultRequestTimeout = 30 * time.Second

	// GenerationRequestTimeout bounds handlers that call the LLM provider
	GenerationRequestTimeout = 120 * time.Second

	// ConceptLockKeyPrefix namespaces per-concept mutation tokens in the cache
	ConceptLockKeyPrefix = "concept:lock:"

	// DefaultConceptLockTTL caps how long a crashed remix can hold a concept
	DefaultConceptLockTTL = 2 * time.Minute
)
