package api

import (
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"canvasrag/rag"
	"canvasrag/types"
)

type DocumentHandler struct {
	pipeline      *rag.Pipeline
	maxUploadSize int64
}

func NewDocumentHandler(pipeline *rag.Pipeline, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		pipeline:      pipeline,
		maxUploadSize: maxUploadSize,
	}
}

type UploadResult struct {
	Filename   string `json:"filename"`
	DocumentID string `json:"document_id,omitempty"`
	ChunkCount int    `json:"chunk_count"`
	TokenTotal int    `json:"token_total"`
	Error      string `json:"error,omitempty"`
}

// HandleUpload ingests one or more files from a multipart form. Files
// are processed independently: a bad file reports its error in the
// response without aborting the rest of the batch.
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	canvasID, err := h.canvasScope(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return ErrBadRequest()
	}
	files := form.File["files"]
	if len(files) == 0 {
		return NewError(fiber.StatusBadRequest, "no files provided")
	}
	fieldKey := c.FormValue("field_key")

	results := make([]UploadResult, 0, len(files))
	for _, fileHeader := range files {
		result := UploadResult{Filename: fileHeader.Filename}

		mimeType := fileHeader.Header.Get("Content-Type")
		if v := rag.ValidateUpload(fileHeader.Filename, mimeType, fileHeader.Size, h.maxUploadSize); !v.Valid {
			result.Error = v.Error
			results = append(results, result)
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			result.Error = "failed to read uploaded file"
			results = append(results, result)
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			result.Error = "failed to read uploaded file"
			results = append(results, result)
			continue
		}

		documentID := uuid.New()
		ingested, err := h.pipeline.Ingest(c.Context(), data, fileHeader.Filename, mimeType, documentID, canvasID, fieldKey)
		if err != nil {
			// Extraction and tokenization failures abort this file
			// only; other files in the batch continue.
			log.Printf("[UPLOAD] ingestion failed for %s: %v", fileHeader.Filename, err)
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.DocumentID = documentID.String()
		result.ChunkCount = ingested.ChunkCount
		result.TokenTotal = ingested.TokenTotal
		results = append(results, result)
	}

	return c.JSON(fiber.Map{"results": results})
}

func (h *DocumentHandler) HandleDeleteDocument(c *fiber.Ctx) error {
	documentID, err := uuid.Parse(c.Params("documentID"))
	if err != nil {
		return ErrInvalidID()
	}
	if err := h.pipeline.DeleteByDocument(c.Context(), documentID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"result": "ok"})
}

func (h *DocumentHandler) HandleDeleteCanvasDocuments(c *fiber.Ctx) error {
	canvasID, err := uuid.Parse(c.Params("canvasID"))
	if err != nil {
		return ErrInvalidID()
	}
	if err := h.pipeline.DeleteByCanvas(c.Context(), canvasID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"result": "ok"})
}

// canvasScope reads the optional canvas id from the route. Uploads
// without one are globally visible to every canvas.
func (h *DocumentHandler) canvasScope(c *fiber.Ctx) (uuid.NullUUID, error) {
	raw := c.Params("canvasID")
	if raw == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.NullUUID{}, ErrInvalidID()
	}
	return types.NullUUID(id), nil
}
