// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/concept-studio/app/dto"
	businessflow "github.com/amirphl/concept-studio/business_flow"
	"github.com/amirphl/concept-studio/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// baseHandler carries what every handler needs to answer a request
type baseHandler struct {
	validator *validator.Validate
	logger    *utils.Logger
}

func newBaseHandler(logger *utils.Logger) baseHandler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return baseHandler{
		validator: NewValidator(),
		logger:    logger,
	}
}

func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validate runs struct validation and renders a 400 on failure. It returns true when the request is valid.
func (h *baseHandler) validate(c fiber.Ctx, req any) (bool, error) {
	if err := h.validator.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, getValidationErrorMessage(fe))
		}
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", messages)
	}
	return true, nil
}

// FlowError renders a business flow failure with the status of its error kind
func (h *baseHandler) FlowError(c fiber.Ctx, err error) error {
	status, code := classifyError(err)

	message := "Internal server error"
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}

	var details any
	if status < fiber.StatusInternalServerError {
		details = err.Error()
	} else {
		h.logger.Error("Request failed",
			"path", c.Path(),
			"method", c.Method(),
			"request_id", c.Get(businessflow.RequestIDKey),
			"code", code,
			"error", err,
		)
	}

	return h.ErrorResponse(c, status, message, code, details)
}

// classifyError maps an error kind to an HTTP status and a stable error code
func classifyError(err error) (int, string) {
	switch {
	case businessflow.IsInvalidRemixPolicy(err):
		return fiber.StatusBadRequest, "INVALID_REMIX_POLICY"
	case businessflow.IsValidation(err), businessflow.IsInvalidID(err):
		return fiber.StatusBadRequest, "VALIDATION_ERROR"
	case businessflow.IsAudienceNotFound(err):
		return fiber.StatusNotFound, "AUDIENCE_NOT_FOUND"
	case businessflow.IsConceptNotFound(err):
		return fiber.StatusNotFound, "CONCEPT_NOT_FOUND"
	case businessflow.IsParentMismatch(err):
		return fiber.StatusUnprocessableEntity, "PARENT_MISMATCH"
	case businessflow.IsConceptBusy(err):
		return fiber.StatusConflict, "CONCEPT_BUSY"
	case businessflow.IsConceptModified(err):
		return fiber.StatusConflict, "CONCEPT_MODIFIED"
	case businessflow.IsMalformedLLMOutput(err):
		return fiber.StatusBadGateway, "MALFORMED_LLM_OUTPUT"
	case businessflow.IsLLMUnavailable(err):
		return fiber.StatusBadGateway, "LLM_UNAVAILABLE"
	case businessflow.IsLockUnavailable(err):
		return fiber.StatusServiceUnavailable, "LOCK_UNAVAILABLE"
	case businessflow.IsPersistence(err):
		return fiber.StatusInternalServerError, "PERSISTENCE_ERROR"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

// createRequestContextWithTimeout detaches from the client connection so a store
// write that follows a generation still completes if the caller goes away
func (h *baseHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	return ctx, cancel
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must have at least " + err.Param() + " item(s)"
	case "unique":
		return err.Field() + " must not contain duplicates"
	case "uuid":
		return err.Field() + " must be a valid UUID"
	case "datetime":
		return err.Field() + " must be an RFC3339 timestamp"
	case "age_range":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), joinQuoted(ageRangeChoices()))
	case "gender":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), joinQuoted(genderChoices()))
	case "income_level":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), joinQuoted(incomeLevelChoices()))
	case "interest_tag":
		return fmt.Sprintf("%s contains an unknown interest %q", err.Field(), err.Value())
	case "remix_policy":
		return err.Field() + " must be BRANCH or OVERWRITE"
	default:
		return err.Field() + " is invalid"
	}
}
