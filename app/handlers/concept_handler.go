package handlers

import (
	"github.com/amirphl/concept-studio/app/dto"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/utils"
	"github.com/gofiber/fiber/v3"
)

// ConceptHandlerInterface defines the contract for concept handlers
type ConceptHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Lineage(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Remix(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// ConceptHandler handles concept lifecycle requests
type ConceptHandler struct {
	baseHandler
	flow businessflow.ConceptFlow
}

// NewConceptHandler creates a new concept handler
func NewConceptHandler(flow businessflow.ConceptFlow, logger *utils.Logger) *ConceptHandler {
	return &ConceptHandler{
		baseHandler: newBaseHandler(logger),
		flow:        flow,
	}
}

// List Concepts
// @Summary List Concepts
// @Description List every concept newest first, each with its audience expanded
// @Tags Concepts
// @Produce json
// @Security AnonKey
// @Success 200 {object} dto.APIResponse{data=dto.ListConceptsResponse} "Concepts retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/concepts [get]
func (h *ConceptHandler) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/concepts")
	defer cancel()

	result, err := h.flow.ListConcepts(ctx)
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Concepts retrieved successfully", result)
}

// Get Concept
// @Summary Get Concept
// @Tags Concepts
// @Produce json
// @Security AnonKey
// @Param id path string true "Concept ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConceptResponse} "Concept retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Concept not found"
// @Router /api/v1/concepts/{id} [get]
func (h *ConceptHandler) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/concepts/:id")
	defer cancel()

	result, err := h.flow.GetConcept(ctx, c.Params("id"))
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Concept retrieved successfully", result)
}

// Lineage lists a concept and its ancestors up to the root
// @Summary Concept Lineage
// @Tags Concepts
// @Produce json
// @Security AnonKey
// @Param id path string true "Concept ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConceptLineageResponse} "Lineage retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Concept not found"
// @Router /api/v1/concepts/{id}/lineage [get]
func (h *ConceptHandler) Lineage(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/concepts/:id/lineage")
	defer cancel()

	result, err := h.flow.ListLineage(ctx, c.Params("id"))
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Lineage retrieved successfully", result)
}

// Create generates and stores a root concept for an audience
// @Summary Create Concept
// @Tags Concepts
// @Accept json
// @Produce json
// @Security AnonKey
// @Param request body dto.CreateConceptRequest true "Target audience"
// @Success 201 {object} dto.APIResponse{data=dto.ConceptResponse} "Concept created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Audience not found"
// @Failure 502 {object} dto.APIResponse "Generation failed upstream"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/concepts [post]
func (h *ConceptHandler) Create(c fiber.Ctx) error {
	var req dto.CreateConceptRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/concepts", utils.GenerationRequestTimeout)
	defer cancel()

	result, err := h.flow.CreateConcept(ctx, &req)
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Concept created successfully", result)
}

// Remix regenerates a concept. BRANCH stores a new child, OVERWRITE replaces the source content.
// @Summary Remix Concept
// @Tags Concepts
// @Accept json
// @Produce json
// @Security AnonKey
// @Param id path string true "Concept ID"
// @Param request body dto.RemixConceptRequest true "Remix policy and optional concurrency token"
// @Success 201 {object} dto.APIResponse{data=dto.RemixConceptResponse} "Concept branched"
// @Success 200 {object} dto.APIResponse{data=dto.RemixConceptResponse} "Concept overwritten"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Concept or audience not found"
// @Failure 409 {object} dto.APIResponse "Concept busy or modified"
// @Failure 502 {object} dto.APIResponse "Generation failed upstream"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/concepts/{id}/remix [post]
func (h *ConceptHandler) Remix(c fiber.Ctx) error {
	var req dto.RemixConceptRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}
	req.ConceptID = c.Params("id")

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/concepts/:id/remix", utils.GenerationRequestTimeout)
	defer cancel()

	result, err := h.flow.RemixConcept(ctx, &req)
	if err != nil {
		return h.FlowError(c, err)
	}

	if result.Created {
		return h.SuccessResponse(c, fiber.StatusCreated, "Concept branched successfully", result)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Concept overwritten successfully", result)
}

// Delete Concept
// @Summary Delete Concept
// @Description Delete a concept. Its children become roots.
// @Tags Concepts
// @Produce json
// @Security AnonKey
// @Param id path string true "Concept ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteConceptResponse} "Concept deleted successfully"
// @Failure 409 {object} dto.APIResponse "Concept busy"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/concepts/{id} [delete]
func (h *ConceptHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/concepts/:id")
	defer cancel()

	result, err := h.flow.DeleteConcept(ctx, c.Params("id"))
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Export downloads every concept as an Excel workbook
// @Summary Export Concepts (Excel)
// @Tags Concepts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security AnonKey
// @Success 200 {file} file "Excel workbook"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/concepts/export [get]
func (h *ConceptHandler) Export(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/concepts/export")
	defer cancel()

	filename, data, err := h.flow.ExportConcepts(ctx)
	if err != nil {
		return h.FlowError(c, err)
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
