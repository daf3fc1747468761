package server

import (
	"context"
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"canvasrag/app/api"
	"canvasrag/chunker"
	"canvasrag/config"
	"canvasrag/model"
	"canvasrag/rag"
	"canvasrag/store"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
	BodyLimit:    64 * 1024 * 1024,
}

type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	closer func()
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	if s.closer != nil {
		s.closer()
	}
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()

	storer, err := s.openStore(ctx)
	if err != nil {
		log.Fatal("error to connect to Postgres database: ", err)
		return
	}

	tokenizer, err := chunker.NewTiktokenTokenizer(s.cfg.EmbeddingModel)
	if err != nil {
		log.Fatal("error to load tokenizer: ", err)
		return
	}

	embedder := model.NewOpenAIEmbedder(s.cfg.OpenAIBaseURL, s.cfg.OpenAIAPIKey, s.cfg.EmbeddingModel, s.cfg.Dimensions)
	pipeline := rag.New(chunker.New(tokenizer), embedder, storer, s.cfg.MaxTokens, s.cfg.OverlapTokens)

	var (
		app             = fiber.New(fiberConfig)
		checkHandler    = api.NewCheckHandler()
		retrieveHandler = api.NewRetrieveHandler(pipeline)
		documentHandler = api.NewDocumentHandler(pipeline, s.cfg.MaxUploadSize)
		check           = app.Group("/check")
		apiv1           = app.Group("/api/v1")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/retrieve", retrieveHandler.HandleRetrieve)
	apiv1.Post("/documents", documentHandler.HandleUpload)
	apiv1.Post("/canvases/:canvasID/documents", documentHandler.HandleUpload)
	apiv1.Delete("/documents/:documentID", documentHandler.HandleDeleteDocument)
	apiv1.Delete("/canvases/:canvasID/documents", documentHandler.HandleDeleteCanvasDocuments)

	if err := app.Listen(s.cfg.ServerAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}

// openStore connects the configured vector backend, or falls back to
// the no-op degraded backend when none is configured. The fallback is
// a recognized mode, not an error.
func (s *Server) openStore(ctx context.Context) (store.VectorStorer, error) {
	dsn := s.cfg.PostgresDSN()
	if dsn == "" {
		s.logger.Info("no vector backend configured, running without retrieval grounding")
		return store.NewUnavailable(), nil
	}

	pg, err := store.NewPostgresStore(ctx, dsn, s.cfg.Dimensions)
	if err != nil {
		return nil, err
	}
	if err := pg.Init(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	s.closer = func() {
		if err := pg.Close(); err != nil {
			log.Printf("error closing pool: %v\n", err)
		}
	}
	return pg, nil
}
