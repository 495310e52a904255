package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/siherrmann/docrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRagService is an in-memory stand-in for the facade
type fakeRagService struct {
	count      int
	countErr   error
	ingestErr  error
	answerErr  error
	lastFile   string
	lastTopK   int
	lastAnswer string
}

func (f *fakeRagService) IngestFile(ctx context.Context, filePath string) (int, error) {
	f.lastFile = filePath
	if f.ingestErr != nil {
		return 0, f.ingestErr
	}
	return f.count, nil
}

func (f *fakeRagService) Answer(ctx context.Context, question string, config *model.QueryConfig) (*model.QueryResult, error) {
	f.lastTopK = config.TopK
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	return &model.QueryResult{
		Question:             question,
		RestructuredQuestion: question,
		Answer:               f.lastAnswer,
		Context:              []string{"first", "second"},
	}, nil
}

func (f *fakeRagService) ChunkCount(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func doRequest(t *testing.T, s *Server, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	t.Run("Valid call GET /health", func(t *testing.T) {
		service := &fakeRagService{count: 5}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, float64(5), resp["collection"])
	})

	t.Run("Invalid call GET /health with failing count", func(t *testing.T) {
		service := &fakeRagService{countErr: fmt.Errorf("connection lost")}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleQuery(t *testing.T) {
	t.Run("Valid call POST /query", func(t *testing.T) {
		service := &fakeRagService{lastAnswer: "the answer"}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/query", `{"question": "what is it?", "top_k": 2}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var result model.QueryResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "what is it?", result.Question)
		assert.Equal(t, "the answer", result.Answer)
		assert.Equal(t, []string{"first", "second"}, result.Context)
		assert.Equal(t, 2, service.lastTopK)
	})

	t.Run("Valid call POST /query with default top k", func(t *testing.T) {
		service := &fakeRagService{}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/query", `{"question": "what is it?"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.DefaultQueryConfig().TopK, service.lastTopK)
	})

	t.Run("Invalid call POST /query with empty question", func(t *testing.T) {
		service := &fakeRagService{}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/query", `{"question": "  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid call POST /query with failing engine", func(t *testing.T) {
		service := &fakeRagService{answerErr: fmt.Errorf("llm unavailable")}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/query", `{"question": "what is it?"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "llm unavailable")
	})
}

func TestHandleUpload(t *testing.T) {
	t.Run("Valid call POST /upload", func(t *testing.T) {
		service := &fakeRagService{count: 3}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/upload", `{"json_file": "/documents/analysis.json"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/documents/analysis.json", service.lastFile)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ingested", resp["status"])
		assert.Equal(t, float64(3), resp["chunks"])
	})

	t.Run("Invalid call POST /upload with empty file path", func(t *testing.T) {
		service := &fakeRagService{}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/upload", `{"json_file": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid call POST /upload with failing ingest", func(t *testing.T) {
		service := &fakeRagService{ingestErr: fmt.Errorf("file not found")}
		s := NewServer(service, nil)

		rec := doRequest(t, s, http.MethodPost, "/upload", `{"json_file": "/missing.json"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
