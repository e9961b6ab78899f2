package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/amirphl/concept-studio/app/dto"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/utils"
	"github.com/gofiber/fiber/v3"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// WorkspaceHandlerInterface defines the contract for page-load and health handlers
type WorkspaceHandlerInterface interface {
	Workspace(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// WorkspaceHandler serves the studio page load and the health probe
type WorkspaceHandler struct {
	baseHandler
	flow   businessflow.WorkspaceFlow
	checks map[string]HealthCheck
}

func NewWorkspaceHandler(flow businessflow.WorkspaceFlow, checks map[string]HealthCheck, logger *utils.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		baseHandler: newBaseHandler(logger),
		flow:        flow,
		checks:      checks,
	}
}

// Workspace returns audiences and concepts in one response
// @Summary Load Workspace
// @Description Fetch every audience and every concept (with expanded audience), each newest first
// @Tags Workspace
// @Produce json
// @Security AnonKey
// @Success 200 {object} dto.APIResponse{data=dto.WorkspaceResponse} "Workspace loaded successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/workspace [get]
func (h *WorkspaceHandler) Workspace(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/workspace")
	defer cancel()

	result, err := h.flow.LoadWorkspace(ctx)
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Workspace loaded successfully", result)
}

// Health reports the state of the store and the cache
// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Service is healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "A dependency is unhealthy"
// @Router /api/v1/health [get]
func (h *WorkspaceHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("Health check failed", "check", name, "error", err)
			results[name] = "unhealthy"
			status = "degraded"
			continue
		}
		results[name] = "ok"
	}

	resp := dto.HealthResponse{
		Status:    status,
		Timestamp: utils.UTCNowRFC3339(),
		Checks:    results,
	}
	if status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.APIResponse{
			Success: false,
			Message: "Service is degraded",
			Data:    resp,
		})
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", resp)
}
