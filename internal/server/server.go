package server

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/nmezrioui/facturex/internal/entity"
	"github.com/nmezrioui/facturex/internal/pipeline"
	"github.com/nmezrioui/facturex/internal/repository"
)

const maxUploadBytes = 20 << 20

// TextSource converts an uploaded document to plain text.
type TextSource interface {
	TextOf(ctx context.Context, filename string, data []byte) (string, error)
}

// InvoiceRunner runs one document text through the extraction pipeline.
type InvoiceRunner interface {
	Run(ctx context.Context, text string, excluded entity.CompanyProfile) (*pipeline.Result, error)
}

// Server exposes the pipeline and the stored invoices over HTTP.
type Server struct {
	converter TextSource
	runner    InvoiceRunner
	repos     *repository.RepositorySet
	logger    *slog.Logger
}

func New(converter TextSource, runner InvoiceRunner, repos *repository.RepositorySet, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		converter: converter,
		runner:    runner,
		repos:     repos,
		logger:    logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware, s.logMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	api.HandleFunc("/invoices", s.handleListInvoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id:[0-9]+}", s.handleGetInvoice).Methods(http.MethodGet)
	api.HandleFunc("/profiles", s.handleCreateProfile).Methods(http.MethodPost)
	api.HandleFunc("/profiles", s.handleListProfiles).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{id:[0-9]+}", s.handleGetProfile).Methods(http.MethodGet)

	return r
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("http.request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("http.panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
