package handlers

import (
	"github.com/amirphl/concept-studio/app/dto"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/utils"
	"github.com/gofiber/fiber/v3"
)

// AudienceHandlerInterface defines the contract for audience handlers
type AudienceHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// AudienceHandler handles audience CRUD requests
type AudienceHandler struct {
	baseHandler
	flow businessflow.AudienceFlow
}

// NewAudienceHandler creates a new audience handler
func NewAudienceHandler(flow businessflow.AudienceFlow, logger *utils.Logger) *AudienceHandler {
	return &AudienceHandler{
		baseHandler: newBaseHandler(logger),
		flow:        flow,
	}
}

// List Audiences
// @Summary List Audiences
// @Description List every audience, newest first
// @Tags Audiences
// @Produce json
// @Security AnonKey
// @Success 200 {object} dto.APIResponse{data=dto.ListAudiencesResponse} "Audiences retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Missing or invalid anon key"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/audiences [get]
func (h *AudienceHandler) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences")
	defer cancel()

	result, err := h.flow.ListAudiences(ctx)
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Audiences retrieved successfully", result)
}

// Get Audience
// @Summary Get Audience
// @Tags Audiences
// @Produce json
// @Security AnonKey
// @Param id path string true "Audience ID"
// @Success 200 {object} dto.APIResponse{data=dto.AudienceResponse} "Audience retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid audience id"
// @Failure 404 {object} dto.APIResponse "Audience not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/audiences/{id} [get]
func (h *AudienceHandler) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences/:id")
	defer cancel()

	result, err := h.flow.GetAudience(ctx, c.Params("id"))
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Audience retrieved successfully", result)
}

// Create Audience
// @Summary Create Audience
// @Description Create an audience profile. Enumerated fields must use the closed vocabularies.
// @Tags Audiences
// @Accept json
// @Produce json
// @Security AnonKey
// @Param request body dto.AudienceRequest true "Audience fields"
// @Success 201 {object} dto.APIResponse{data=dto.AudienceResponse} "Audience created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/audiences [post]
func (h *AudienceHandler) Create(c fiber.Ctx) error {
	var req dto.AudienceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences")
	defer cancel()

	result, err := h.flow.InsertAudience(ctx, &req)
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Audience created successfully", result)
}

// Update Audience
// @Summary Update Audience
// @Description Replace every field of an existing audience
// @Tags Audiences
// @Accept json
// @Produce json
// @Security AnonKey
// @Param id path string true "Audience ID"
// @Param request body dto.AudienceRequest true "Audience fields"
// @Success 200 {object} dto.APIResponse{data=dto.AudienceResponse} "Audience updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Audience not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/audiences/{id} [put]
func (h *AudienceHandler) Update(c fiber.Ctx) error {
	var req dto.AudienceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}
	req.ID = c.Params("id")

	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences/:id")
	defer cancel()

	result, err := h.flow.UpdateAudience(ctx, &req)
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Audience updated successfully", result)
}

// Delete Audience
// @Summary Delete Audience
// @Description Delete an audience together with all of its concepts
// @Tags Audiences
// @Produce json
// @Security AnonKey
// @Param id path string true "Audience ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteAudienceResponse} "Audience deleted successfully"
// @Failure 400 {object} dto.APIResponse "Invalid audience id"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/audiences/{id} [delete]
func (h *AudienceHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences/:id")
	defer cancel()

	result, err := h.flow.DeleteAudience(ctx, c.Params("id"))
	if err != nil {
		return h.FlowError(c, err)
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
