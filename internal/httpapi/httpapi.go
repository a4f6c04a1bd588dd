// Package httpapi exposes the analyzer over HTTP.
//
// Routes keep the trailing-slash form used by existing clients (/upload/,
// /query/, /topics/); paths without the slash are served too.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"policyrag/internal/domain"
	"policyrag/internal/parser"
	"policyrag/internal/store"
)

// Uploader persists an uploaded file and returns it as a document.
type Uploader interface {
	Save(filename string, data []byte) (domain.Document, error)
}

// Options tunes request handling.
type Options struct {
	CORSOrigins         []string
	MaxUploadBytes      int64
	DefaultMaxResponses int
	MaxResponsesLimit   int
	SummarySentences    int
	SlowRequest         time.Duration
}

// Deps are the collaborators behind the handlers. Summarizer is optional.
type Deps struct {
	Service    domain.PolicyService
	Uploads    Uploader
	Summarizer domain.Summarizer
}

type api struct {
	deps Deps
	opts Options
}

// QueryRequest is the body of POST /query/.
type QueryRequest struct {
	Text         string `json:"text" validate:"required"`
	MaxResponses *int   `json:"max_responses,omitempty" validate:"omitempty,min=1,max=100"`
}

// QueryResponse is the body returned by POST /query/.
type QueryResponse struct {
	Responses []domain.ScoredResponse `json:"responses"`
}

// UploadResponse is the body returned by POST /upload/.
type UploadResponse struct {
	Message  string `json:"message"`
	DocID    string `json:"doc_id"`
	Summary  string `json:"summary"`
	Relevant int    `json:"relevant"`
}

type documentView struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// NewRouter builds the chi router with middleware and routes mounted.
func NewRouter(deps Deps, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.DefaultMaxResponses <= 0 {
		opts.DefaultMaxResponses = 3
	}
	if opts.MaxResponsesLimit <= 0 || opts.MaxResponsesLimit > 100 {
		opts.MaxResponsesLimit = 100
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	a := &api{deps: deps, opts: opts}

	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(requestID)
	r.Use(accessLog(opts.SlowRequest))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/healthz", a.health)
	r.Post("/upload", a.upload)
	r.Post("/query", a.query)
	r.Get("/topics", a.topics)
	r.Get("/documents", a.documents)
	r.Post("/refit", a.refit)
	return r
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > a.opts.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.opts.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty file")
		return
	}

	doc, err := a.deps.Uploads.Save(header.Filename, data)
	switch {
	case errors.Is(err, parser.ErrUnsupported):
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	case errors.Is(err, store.ErrHidden), errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("file", header.Filename).Msg("save upload")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := a.deps.Service.Analyze(r.Context(), doc)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("doc_id", doc.ID).Msg("analyze upload")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var summary string
	if a.deps.Summarizer != nil {
		summary, err = a.deps.Summarizer.Summarize(doc.Content, a.opts.SummarySentences)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("doc_id", doc.ID).Msg("summarize upload")
		}
	}
	writeJSON(w, http.StatusOK, UploadResponse{
		Message:  "Document processed successfully",
		DocID:    doc.ID,
		Summary:  summary,
		Relevant: res.Relevant,
	})
}

func (a *api) query(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[QueryRequest](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := a.opts.DefaultMaxResponses
	if req.MaxResponses != nil {
		limit = *req.MaxResponses
	}
	if limit > a.opts.MaxResponsesLimit {
		writeError(w, http.StatusBadRequest, "max_responses is above the configured limit")
		return
	}

	responses, err := a.deps.Service.Query(r.Context(), req.Text, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Responses: responses})
}

func (a *api) topics(w http.ResponseWriter, r *http.Request) {
	topics := a.deps.Service.Topics()
	if topics == nil {
		topics = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": topics})
}

func (a *api) documents(w http.ResponseWriter, r *http.Request) {
	docs := a.deps.Service.Documents()
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentView{ID: d.ID, Path: d.Path})
	}
	writeJSON(w, http.StatusOK, map[string][]documentView{"documents": out})
}

func (a *api) refit(w http.ResponseWriter, r *http.Request) {
	err := a.deps.Service.Refit(r.Context())
	if err != nil && r.Context().Err() != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	topics := a.deps.Service.Topics()
	if topics == nil {
		topics = []string{}
	}
	body := map[string]any{"topics": topics, "fallback": err != nil}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
