package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"canvasrag/rag"
	"canvasrag/types"
)

type RetrieveHandler struct {
	pipeline *rag.Pipeline
}

func NewRetrieveHandler(pipeline *rag.Pipeline) *RetrieveHandler {
	return &RetrieveHandler{pipeline: pipeline}
}

// HandleRetrieve is the sole read entry point: the generation layer
// posts a query plus filters and formats the returned chunks into
// prompt context itself.
func (h *RetrieveHandler) HandleRetrieve(c *fiber.Ctx) error {
	var params types.RetrieveParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	opts := rag.RetrieveOptions{
		FieldKey:            params.FieldKey,
		Limit:               params.Limit,
		SimilarityThreshold: params.SimilarityThreshold,
		ChunksPerDocument:   params.ChunksPerDocument,
	}
	if params.CanvasID != "" {
		id, err := uuid.Parse(params.CanvasID)
		if err != nil {
			return ErrInvalidID()
		}
		opts.CanvasID = types.NullUUID(id)
	}
	for _, raw := range params.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ErrInvalidID()
		}
		opts.DocumentIDs = append(opts.DocumentIDs, id)
	}

	result, err := h.pipeline.Retrieve(c.Context(), params.Query, opts)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
