package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirphl/concept-studio/app/dto"
	"github.com/amirphl/concept-studio/app/services"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/repository"
	testingutil "github.com/amirphl/concept-studio/testing"
	"github.com/amirphl/concept-studio/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI mounts the handlers on a bare fiber app backed by a test database
type testAPI struct {
	app       *fiber.App
	generator *services.MockConceptGenerator
	fixtures  *testingutil.TestFixtures
}

func newTestAPI(testDB *testingutil.TestDB, checks map[string]HealthCheck) *testAPI {
	logger := utils.NewNopLogger()
	audienceRepo := repository.NewAudienceRepository(testDB.DB)
	conceptRepo := repository.NewConceptRepository(testDB.DB)
	generator := services.NewMockConceptGenerator()

	gateway := businessflow.NewConceptGateway(audienceRepo, conceptRepo, testDB.DB)
	conceptFlow := businessflow.NewConceptFlow(gateway, generator, businessflow.NewLocalConceptLocker(), logger)
	audienceFlow := businessflow.NewAudienceFlow(audienceRepo, testDB.DB, logger)
	workspaceFlow := businessflow.NewWorkspaceFlow(audienceRepo, gateway, logger)

	generate := NewGenerateConceptHandler(conceptFlow, logger)
	audiences := NewAudienceHandler(audienceFlow, logger)
	concepts := NewConceptHandler(conceptFlow, logger)
	workspace := NewWorkspaceHandler(workspaceFlow, checks, logger)

	app := fiber.New()
	app.Post("/api/generate-concept", generate.Generate)

	v1 := app.Group("/api/v1")
	v1.Get("/health", workspace.Health)
	v1.Get("/workspace", workspace.Workspace)
	v1.Get("/audiences", audiences.List)
	v1.Post("/audiences", audiences.Create)
	v1.Get("/audiences/:id", audiences.Get)
	v1.Put("/audiences/:id", audiences.Update)
	v1.Delete("/audiences/:id", audiences.Delete)
	v1.Get("/concepts", concepts.List)
	v1.Post("/concepts", concepts.Create)
	v1.Get("/concepts/export", concepts.Export)
	v1.Get("/concepts/:id", concepts.Get)
	v1.Get("/concepts/:id/lineage", concepts.Lineage)
	v1.Post("/concepts/:id/remix", concepts.Remix)
	v1.Delete("/concepts/:id", concepts.Delete)

	return &testAPI{
		app:       app,
		generator: generator,
		fixtures:  testingutil.NewTestFixtures(testDB),
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// envelope decodes an API response with typed data
func envelope[T any](t *testing.T, raw []byte) (dto.APIResponse, T) {
	t.Helper()
	var wrapper struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   json.RawMessage `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &wrapper))

	var data T
	if len(wrapper.Data) > 0 {
		require.NoError(t, json.Unmarshal(wrapper.Data, &data))
	}
	var detail dto.ErrorDetail
	if len(wrapper.Error) > 0 {
		require.NoError(t, json.Unmarshal(wrapper.Error, &detail))
	}
	return dto.APIResponse{Success: wrapper.Success, Message: wrapper.Message, Error: detail}, data
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	resp, _ := envelope[any](t, raw)
	detail, ok := resp.Error.(dto.ErrorDetail)
	require.True(t, ok)
	return detail.Code
}

var techMillennialsPayload = map[string]any{
	"name":         "Tech Millennials",
	"age_range":    "25-34",
	"gender":       "All",
	"location":     "Urban Northeast, USA",
	"interests":    []string{"Technology", "Gaming"},
	"income_level": "Middle ($50k-$75k)",
}

func TestGenerateConceptHandler(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		api := newTestAPI(testDB, nil)

		t.Run("FreshConcept", func(t *testing.T) {
			api.generator.EnqueueRaw(`{"title":"Code & Controllers","description":"A campaign blending dev culture with esports nights."}`)

			resp, raw := api.do(t, http.MethodPost, "/api/generate-concept", map[string]any{"audience": techMillennialsPayload})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, map[string]string{
				"title":       "Code & Controllers",
				"description": "A campaign blending dev culture with esports nights.",
			}, body)
		})

		t.Run("RemixConcept", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/generate-concept", map[string]any{
				"audience":      techMillennialsPayload,
				"parentConcept": map[string]string{"title": "Pixel Quest", "description": "A hunt."},
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body dto.GenerateConceptResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "Pixel Quest (Remix)", body.Title)

			last := api.generator.Calls[len(api.generator.Calls)-1]
			require.NotNil(t, last.Parent)
			assert.Equal(t, "Pixel Quest", last.Parent.Title)
		})

		t.Run("MalformedBody", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/generate-concept", `{"audience":`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body dto.GenerateConceptErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "Invalid request body", body.Error)
		})

		t.Run("MissingAudience", func(t *testing.T) {
			resp, _ := api.do(t, http.MethodPost, "/api/generate-concept", map[string]any{})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("UnknownInterest", func(t *testing.T) {
			payload := map[string]any{}
			for k, v := range techMillennialsPayload {
				payload[k] = v
			}
			payload["interests"] = []string{"Knitting"}

			resp, _ := api.do(t, http.MethodPost, "/api/generate-concept", map[string]any{"audience": payload})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("GenerationFailure", func(t *testing.T) {
			api.generator.EnqueueRaw(`{"title": ""}`)

			resp, raw := api.do(t, http.MethodPost, "/api/generate-concept", map[string]any{"audience": techMillennialsPayload})
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.JSONEq(t, `{"error":"Failed to generate concept"}`, string(raw))
		})

		t.Run("ProviderDown", func(t *testing.T) {
			api.generator.Enqueue(services.MockGeneration{Err: services.ErrLLMUnavailable})

			resp, raw := api.do(t, http.MethodPost, "/api/generate-concept", map[string]any{"audience": techMillennialsPayload})
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.JSONEq(t, `{"error":"Failed to generate concept"}`, string(raw))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAudienceHandler(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		api := newTestAPI(testDB, nil)

		var created dto.AudienceResponse

		t.Run("Create", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/audiences", techMillennialsPayload)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			env, data := envelope[dto.AudienceResponse](t, raw)
			assert.True(t, env.Success)
			assert.Equal(t, "Tech Millennials", data.Name)
			created = data
		})

		t.Run("CreateInvalid", func(t *testing.T) {
			payload := map[string]any{"name": "X", "age_range": "99+", "gender": "All", "location": "Y", "interests": []string{"Gaming"}, "income_level": "High ($100k+)"}
			resp, raw := api.do(t, http.MethodPost, "/api/v1/audiences", payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, raw))
		})

		t.Run("Update", func(t *testing.T) {
			payload := map[string]any{}
			for k, v := range techMillennialsPayload {
				payload[k] = v
			}
			payload["name"] = "Weekend Gamers"

			resp, raw := api.do(t, http.MethodPut, "/api/v1/audiences/"+created.ID, payload)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, data := envelope[dto.AudienceResponse](t, raw)
			assert.Equal(t, "Weekend Gamers", data.Name)
			assert.Equal(t, created.ID, data.ID)
		})

		t.Run("List", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodGet, "/api/v1/audiences", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, data := envelope[dto.ListAudiencesResponse](t, raw)
			assert.Equal(t, 1, data.Total)
		})

		t.Run("GetMissing", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodGet, "/api/v1/audiences/7f0c8a52-3b8e-4d8e-9d55-0c1f6b8f0d11", nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "AUDIENCE_NOT_FOUND", errorCode(t, raw))
		})

		t.Run("GetBadID", func(t *testing.T) {
			resp, _ := api.do(t, http.MethodGet, "/api/v1/audiences/not-a-uuid", nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("Delete", func(t *testing.T) {
			resp, _ := api.do(t, http.MethodDelete, "/api/v1/audiences/"+created.ID, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = api.do(t, http.MethodDelete, "/api/v1/audiences/"+created.ID, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConceptHandler(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		api := newTestAPI(testDB, nil)
		audience, err := api.fixtures.CreateTestAudience(nil)
		require.NoError(t, err)

		var root dto.ConceptResponse

		t.Run("Create", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts", map[string]string{"audience_id": audience.ID.String()})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			_, root = envelope[dto.ConceptResponse](t, raw)
			assert.Equal(t, "ROOT", root.State)
			assert.Equal(t, "Tech Millennials Spotlight", root.Title)
		})

		t.Run("CreateForMissingAudience", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts", map[string]string{"audience_id": "7f0c8a52-3b8e-4d8e-9d55-0c1f6b8f0d11"})
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "AUDIENCE_NOT_FOUND", errorCode(t, raw))
		})

		t.Run("CreateWithMalformedOutput", func(t *testing.T) {
			api.generator.EnqueueRaw(`{"title": ""}`)
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts", map[string]string{"audience_id": audience.ID.String()})
			assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
			assert.Equal(t, "MALFORMED_LLM_OUTPUT", errorCode(t, raw))
		})

		t.Run("BranchReturnsCreated", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts/"+root.ID+"/remix", map[string]string{"policy": "BRANCH"})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			_, data := envelope[dto.RemixConceptResponse](t, raw)
			assert.True(t, data.Created)
			require.NotNil(t, data.Concept.ParentConceptID)
			assert.Equal(t, root.ID, *data.Concept.ParentConceptID)
		})

		t.Run("OverwriteReturnsOK", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts/"+root.ID+"/remix", map[string]any{
				"policy":              "OVERWRITE",
				"expected_updated_at": root.UpdatedAt,
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, data := envelope[dto.RemixConceptResponse](t, raw)
			assert.False(t, data.Created)
			assert.Equal(t, root.ID, data.Concept.ID)
		})

		t.Run("StaleOverwriteConflicts", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts/"+root.ID+"/remix", map[string]any{
				"policy":              "OVERWRITE",
				"expected_updated_at": root.UpdatedAt,
			})
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
			assert.Equal(t, "CONCEPT_MODIFIED", errorCode(t, raw))
		})

		t.Run("InvalidPolicy", func(t *testing.T) {
			resp, _ := api.do(t, http.MethodPost, "/api/v1/concepts/"+root.ID+"/remix", map[string]string{"policy": "MERGE"})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("RemixMissingConcept", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodPost, "/api/v1/concepts/7f0c8a52-3b8e-4d8e-9d55-0c1f6b8f0d11/remix", map[string]string{"policy": "BRANCH"})
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "CONCEPT_NOT_FOUND", errorCode(t, raw))
		})

		t.Run("ListAndLineage", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodGet, "/api/v1/concepts", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, list := envelope[dto.ListConceptsResponse](t, raw)
			require.Equal(t, 2, list.Total)

			branch := list.Concepts[0]
			resp, raw = api.do(t, http.MethodGet, "/api/v1/concepts/"+branch.ID+"/lineage", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, lineage := envelope[dto.ConceptLineageResponse](t, raw)
			assert.Equal(t, 1, lineage.Depth)
		})

		t.Run("Export", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodGet, "/api/v1/concepts/export", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=concepts_")
			assert.NotEmpty(t, raw)
		})

		t.Run("Delete", func(t *testing.T) {
			resp, _ := api.do(t, http.MethodDelete, "/api/v1/concepts/"+root.ID, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = api.do(t, http.MethodGet, "/api/v1/concepts/"+root.ID, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWorkspaceHandler(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		healthy := true
		checks := map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				if !healthy {
					return errors.New("connection refused")
				}
				return nil
			},
		}
		api := newTestAPI(testDB, checks)

		t.Run("Workspace", func(t *testing.T) {
			_, err := api.fixtures.CreateTestAudience(nil)
			require.NoError(t, err)

			resp, raw := api.do(t, http.MethodGet, "/api/v1/workspace", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, data := envelope[dto.WorkspaceResponse](t, raw)
			assert.Len(t, data.Audiences, 1)
			assert.Empty(t, data.Concepts)
		})

		t.Run("Healthy", func(t *testing.T) {
			resp, raw := api.do(t, http.MethodGet, "/api/v1/health", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, data := envelope[dto.HealthResponse](t, raw)
			assert.Equal(t, "ok", data.Checks["database"])
		})

		t.Run("Degraded", func(t *testing.T) {
			healthy = false
			defer func() { healthy = true }()

			resp, raw := api.do(t, http.MethodGet, "/api/v1/health", nil)
			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
			_, data := envelope[dto.HealthResponse](t, raw)
			assert.Equal(t, "degraded", data.Status)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", businessflow.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid id", businessflow.ErrInvalidID, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"remix policy", businessflow.NewBusinessError("INVALID_REMIX_POLICY", "bad", errors.Join(businessflow.ErrValidation, businessflow.ErrInvalidRemixPolicy)), http.StatusBadRequest, "INVALID_REMIX_POLICY"},
		{"audience missing", businessflow.ErrAudienceNotFound, http.StatusNotFound, "AUDIENCE_NOT_FOUND"},
		{"concept missing", businessflow.ErrConceptNotFound, http.StatusNotFound, "CONCEPT_NOT_FOUND"},
		{"parent mismatch", businessflow.ErrParentMismatch, http.StatusUnprocessableEntity, "PARENT_MISMATCH"},
		{"busy", businessflow.ErrConceptBusy, http.StatusConflict, "CONCEPT_BUSY"},
		{"modified", businessflow.ErrConceptModified, http.StatusConflict, "CONCEPT_MODIFIED"},
		{"malformed", businessflow.ErrMalformedLLMOutput, http.StatusBadGateway, "MALFORMED_LLM_OUTPUT"},
		{"unavailable", businessflow.ErrLLMUnavailable, http.StatusBadGateway, "LLM_UNAVAILABLE"},
		{"lock backend", businessflow.ErrLockUnavailable, http.StatusServiceUnavailable, "LOCK_UNAVAILABLE"},
		{"persistence", businessflow.ErrPersistence, http.StatusInternalServerError, "PERSISTENCE_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
