package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasrag/chunker"
	"canvasrag/rag"
	"canvasrag/store"
)

type wordTokenizer struct{}

func (wordTokenizer) Count(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func (wordTokenizer) Tail(text string, n int) (string, error) {
	words := strings.Fields(text)
	if n <= 0 {
		return "", nil
	}
	if len(words) <= n {
		return text, nil
	}
	return strings.Join(words[len(words)-n:], " "), nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func newTestApp() (*fiber.App, *store.MemoryStore) {
	m := store.NewMemoryStore()
	pipeline := rag.New(chunker.New(wordTokenizer{}), stubEmbedder{}, m, 50, 10)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	retrieveHandler := NewRetrieveHandler(pipeline)
	documentHandler := NewDocumentHandler(pipeline, 10*1024*1024)
	apiv1 := app.Group("/api/v1")
	apiv1.Post("/retrieve", retrieveHandler.HandleRetrieve)
	apiv1.Post("/documents", documentHandler.HandleUpload)
	apiv1.Post("/canvases/:canvasID/documents", documentHandler.HandleUpload)
	apiv1.Delete("/documents/:documentID", documentHandler.HandleDeleteDocument)
	apiv1.Delete("/canvases/:canvasID/documents", documentHandler.HandleDeleteCanvasDocuments)
	return app, m
}

func jsonRequest(method, target string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartUpload(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHandleRetrieveEmptyStore(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/retrieve", fiber.Map{"query": "revenue model"}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Chunks      []json.RawMessage `json:"chunks"`
		TotalChunks int               `json:"total_chunks"`
	}
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Chunks)
	assert.Equal(t, 0, body.TotalChunks)
}

func TestHandleRetrieveMissingQuery(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/retrieve", fiber.Map{"limit": 3}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ValidationError
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Errors, "Query")
}

func TestHandleRetrieveBadCanvasID(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/retrieve", fiber.Map{
		"query": "q", "canvas_id": "not-a-uuid",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleUploadRoundTrip(t *testing.T) {
	app, m := newTestApp()

	text := strings.Repeat("market size channels partners costs revenue ", 25)
	resp, err := app.Test(multipartUpload(t, "/api/v1/documents", "plan.txt", text), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []UploadResult `json:"results"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 1)
	assert.Empty(t, body.Results[0].Error)
	assert.NotEmpty(t, body.Results[0].DocumentID)
	assert.Greater(t, body.Results[0].ChunkCount, 0)
	assert.Equal(t, body.Results[0].ChunkCount, m.Len())

	// Query what we just ingested.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/retrieve", fiber.Map{"query": "revenue"}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var retrieved struct {
		Chunks []struct {
			Content string `json:"content"`
		} `json:"chunks"`
	}
	decodeBody(t, resp, &retrieved)
	assert.NotEmpty(t, retrieved.Chunks)
}

func TestHandleUploadUnsupportedFile(t *testing.T) {
	app, m := newTestApp()

	resp, err := app.Test(multipartUpload(t, "/api/v1/documents", "data.xyz", "binary"), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []UploadResult `json:"results"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 1)
	assert.Contains(t, body.Results[0].Error, "unsupported")
	assert.Equal(t, 0, m.Len())
}

func TestHandleUploadNoFiles(t *testing.T) {
	app, _ := newTestApp()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("field_key", "value_proposition"))
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleDeleteDocument(t *testing.T) {
	app, m := newTestApp()

	text := strings.Repeat("alpha beta gamma ", 40)
	resp, err := app.Test(multipartUpload(t, "/api/v1/documents", "plan.txt", text), -1)
	require.NoError(t, err)

	var body struct {
		Results []UploadResult `json:"results"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 1)
	require.Greater(t, m.Len(), 0)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+body.Results[0].DocumentID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, m.Len())
}

func TestHandleDeleteDocumentBadID(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/documents/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleUploadCanvasScoped(t *testing.T) {
	app, m := newTestApp()

	canvasID := "7b7f7f3e-9c7e-4f2a-9a43-2b1f37b3a111"
	text := strings.Repeat("segment persona niche ", 30)
	resp, err := app.Test(multipartUpload(t, "/api/v1/canvases/"+canvasID+"/documents", "notes.txt", text), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Greater(t, m.Len(), 0)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/canvases/"+canvasID+"/documents", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, m.Len())
}
