// Package server exposes the ingestion trigger surface over HTTP. It
// is a thin adapter: request validation and error mapping only, no
// pipeline logic.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kataras/golog"

	"localbrain/internal/domain"
	"localbrain/internal/service"
)

// Ingestor is the server-facing subset of the application core.
type Ingestor interface {
	Ingest(ctx context.Context, source, rawText string, chunkSize int) (service.IngestReport, error)
}

// Server serves /ingest and /health.
type Server struct {
	ingestor         Ingestor
	dataDir          string
	defaultChunkSize int
	log              *golog.Logger
}

// New creates the HTTP surface. Files named in ingest requests are
// resolved inside dataDir.
func New(ingestor Ingestor, dataDir string, defaultChunkSize int, log *golog.Logger) *Server {
	if log == nil {
		log = golog.New()
	}
	return &Server{ingestor: ingestor, dataDir: dataDir, defaultChunkSize: defaultChunkSize, log: log}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ingest", s.handleIngest)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // ingestion embeds every chunk before responding
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Infof("listening on %s", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type ingestRequest struct {
	Filename  string `json:"filename"`
	ChunkSize int    `json:"chunk_size"`
}

type ingestResponse struct {
	Status            string `json:"status"`
	File              string `json:"file"`
	ChunksProcessed   int    `json:"chunks_processed"`
	PreviewFirstChunk string `json:"preview_first_chunk"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "localbrain"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "POST only"})
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Filename == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "filename is required"})
		return
	}
	if req.ChunkSize == 0 {
		req.ChunkSize = s.defaultChunkSize
	}

	path := filepath.Join(s.dataDir, filepath.Base(req.Filename))
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warnf("ingest request for unreadable file %s: %v", path, err)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "file " + req.Filename + " not found or empty"})
		return
	}

	report, err := s.ingestor.Ingest(r.Context(), req.Filename, string(data), req.ChunkSize)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyDocument):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "file " + req.Filename + " not found or empty"})
		return
	case errors.Is(err, domain.ErrInvalidConfiguration):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	default:
		s.log.Errorf("ingestion failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Status:            "success",
		File:              req.Filename,
		ChunksProcessed:   report.ChunksWritten,
		PreviewFirstChunk: report.FirstChunkPreview,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
