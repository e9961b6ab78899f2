package handlers

import (
	"github.com/amirphl/concept-studio/app/dto"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const (
	generateFailedMessage = "Failed to generate concept"
	invalidBodyMessage    = "Invalid request body"
)

// GenerateConceptHandlerInterface defines the contract for the stateless generation endpoint
type GenerateConceptHandlerInterface interface {
	Generate(c fiber.Ctx) error
}

// GenerateConceptHandler serves POST /api/generate-concept. It answers with bare
// bodies rather than the API envelope.
type GenerateConceptHandler struct {
	baseHandler
	flow businessflow.ConceptFlow
}

func NewGenerateConceptHandler(flow businessflow.ConceptFlow, logger *utils.Logger) *GenerateConceptHandler {
	return &GenerateConceptHandler{
		baseHandler: newBaseHandler(logger),
		flow:        flow,
	}
}

// Generate produces a concept for the supplied audience without persisting it
// @Summary Generate Concept
// @Description Generate a marketing concept for an audience. When parentConcept is supplied the result is a remix of it. Nothing is stored.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateConceptRequest true "Audience and optional parent concept"
// @Success 200 {object} dto.GenerateConceptResponse "Generated concept"
// @Failure 400 {object} dto.GenerateConceptErrorResponse "Invalid request body"
// @Failure 500 {object} dto.GenerateConceptErrorResponse "Failed to generate concept"
// @Router /api/generate-concept [post]
func (h *GenerateConceptHandler) Generate(c fiber.Ctx) error {
	var req dto.GenerateConceptRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateConceptErrorResponse{
			Error:   invalidBodyMessage,
			Details: err.Error(),
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		var details []string
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				details = append(details, getValidationErrorMessage(fe))
			}
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateConceptErrorResponse{
			Error:   invalidBodyMessage,
			Details: details,
		})
	}

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/generate-concept", utils.GenerationRequestTimeout)
	defer cancel()

	result, err := h.flow.GenerateConcept(ctx, &req)
	if err != nil {
		if businessflow.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateConceptErrorResponse{
				Error:   invalidBodyMessage,
				Details: err.Error(),
			})
		}
		h.logger.Error("Concept generation request failed",
			"request_id", c.Get(businessflow.RequestIDKey),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GenerateConceptErrorResponse{
			Error: generateFailedMessage,
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
