package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/siherrmann/docrag/model"
)

// RagService is the part of the facade the HTTP layer needs
type RagService interface {
	IngestFile(ctx context.Context, filePath string) (int, error)
	Answer(ctx context.Context, question string, config *model.QueryConfig) (*model.QueryResult, error)
	ChunkCount(ctx context.Context) (int, error)
}

// Server exposes the rag service over HTTP
type Server struct {
	echo    *echo.Echo
	service RagService
	logger  *slog.Logger
}

// QueryRequest is the body of POST /query
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// UploadRequest is the body of POST /upload
type UploadRequest struct {
	JSONFile string `json:"json_file"`
}

// NewServer creates the HTTP server with all routes registered
func NewServer(service RagService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info(
				"Request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
			)
			return nil
		},
	}))

	s := &Server{
		echo:    e,
		service: service,
		logger:  logger,
	}

	e.GET("/health", s.handleHealth)
	e.POST("/query", s.handleQuery)
	e.POST("/upload", s.handleUpload)

	return s
}

// Start serves HTTP on the given address until the context is cancelled
func (s *Server) Start(ctx context.Context, address string) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.echo.Start(address)
	}()

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	count, err := s.service.ChunkCount(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"collection": count,
	})
}

func (s *Server) handleQuery(c echo.Context) error {
	req := &QueryRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "question is empty"})
	}

	config := model.DefaultQueryConfig()
	if req.TopK > 0 {
		config.TopK = req.TopK
	}

	result, err := s.service.Answer(c.Request().Context(), req.Question, &config)
	if err != nil {
		s.logger.Error("Query failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleUpload(c echo.Context) error {
	req := &UploadRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.JSONFile) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "json_file is empty"})
	}

	count, err := s.service.IngestFile(c.Request().Context(), req.JSONFile)
	if err != nil {
		s.logger.Error("Upload failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ingested",
		"chunks": count,
	})
}
