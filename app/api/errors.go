package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"canvasrag/chunker"
	"canvasrag/extract"
	"canvasrag/model"
)

// ErrorHandler translates typed pipeline errors into JSON responses.
// User-correctable failures keep their message; internal failures are
// logged with full context and surfaced as a generic error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiError, ok := err.(Error); ok {
		return c.Status(apiError.Code).JSON(apiError)
	}
	if valError, ok := err.(ValidationError); ok {
		return c.Status(valError.Status).JSON(valError)
	}

	var unsupported *extract.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(NewError(fiber.StatusUnsupportedMediaType, unsupported.Error()))
	}
	var extraction *extract.ExtractionError
	if errors.As(err, &extraction) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(NewError(fiber.StatusUnprocessableEntity, extraction.Error()))
	}
	var provider *model.EmbeddingProviderError
	if errors.As(err, &provider) {
		log.Printf("[API] embedding provider failure: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(NewError(fiber.StatusBadGateway, "embedding backend unavailable"))
	}
	var tokenization *chunker.TokenizationError
	if errors.As(err, &tokenization) {
		log.Printf("[API] tokenization failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, "internal error"))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	log.Printf("[API] request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, "internal error"))
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrInvalidID() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid id given",
	}
}
