package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localbrain/internal/embedding"
	"localbrain/internal/retriever"
	"localbrain/internal/service"
	"localbrain/internal/vectorindex"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string) (string, error) { return "ok", nil }

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	emb := embedding.NewHashEmbedder(64)
	idx := vectorindex.NewMemoryIndex()
	svc := service.New(emb, idx, stubGenerator{}, retriever.New(emb, idx), service.Options{}, nil)
	return New(svc, dataDir, 200, nil), dataDir
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "localbrain", body["service"])
}

func TestIngestEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv, dataDir := newTestServer(t)
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, "mission.txt"), []byte("AAAABBBBCC"), 0o644))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"filename":"mission.txt","chunk_size":4}`))
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body ingestResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, 3, body.ChunksProcessed)
		assert.Equal(t, "AAAA", body.PreviewFirstChunk)
	})

	t.Run("missing file maps to 404", func(t *testing.T) {
		srv, _ := newTestServer(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"filename":"nope.txt"}`))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty file maps to 404", func(t *testing.T) {
		srv, dataDir := newTestServer(t)
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, "empty.txt"), nil, 0o644))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"filename":"empty.txt"}`))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad chunk size maps to 400", func(t *testing.T) {
		srv, dataDir := newTestServer(t)
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, "doc.txt"), []byte("content"), 0o644))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"filename":"doc.txt","chunk_size":-1}`))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing filename maps to 400", func(t *testing.T) {
		srv, _ := newTestServer(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{}`))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET not allowed", func(t *testing.T) {
		srv, _ := newTestServer(t)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingest", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
