package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nmezrioui/facturex/internal/common"
	"github.com/nmezrioui/facturex/internal/entity"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.DB().PingContext(r.Context()); err != nil {
		s.respondError(w, common.NewAppError("DB_UNREACHABLE", "database ping failed", common.ErrDatabase))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract accepts a multipart upload, runs it through conversion and
// the extraction pipeline, and returns the persisted invoice id plus the
// reconciled fields.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, common.NewAppError("BAD_UPLOAD", "invalid multipart form", common.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, common.NewAppError("NO_FILE", "no file provided", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, common.NewAppError("READ_FAILED", "failed to read upload", err))
		return
	}
	if len(data) == 0 {
		s.respondError(w, common.NewAppError("EMPTY_FILE", "uploaded file is empty", common.ErrInvalidInput))
		return
	}

	var excluded entity.CompanyProfile
	if raw := strings.TrimSpace(r.FormValue("profile_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(w, common.NewAppError("BAD_PROFILE_ID", "profile_id must be an integer", common.ErrInvalidInput))
			return
		}
		p, err := s.repos.Profiles.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.respondError(w, common.NewAppError("PROFILE_NOT_FOUND", "no such profile", common.ErrNotFound))
				return
			}
			s.respondError(w, err)
			return
		}
		excluded = *p
	}

	text, err := s.converter.TextOf(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedFormat) {
			s.respondError(w, common.NewAppError("UNSUPPORTED_FORMAT", "unsupported document format", common.ErrUnsupportedFormat))
			return
		}
		s.respondError(w, common.NewAppError("CONVERSION_FAILED", "could not extract text from document", err))
		return
	}

	res, err := s.runner.Run(r.Context(), text, excluded)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invs, err := s.repos.Invoices.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if invs == nil {
		invs = []*entity.Invoice{}
	}
	s.respondJSON(w, http.StatusOK, invs)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	inv, err := s.repos.Invoices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.respondError(w, common.NewAppError("INVOICE_NOT_FOUND", "no such invoice", common.ErrNotFound))
			return
		}
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, inv)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p entity.CompanyProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, common.NewAppError("BAD_JSON", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		s.respondError(w, common.NewAppError("MISSING_NAME", "profile name is required", common.ErrInvalidInput))
		return
	}

	id, err := s.repos.Profiles.Create(r.Context(), &p)
	if err != nil {
		s.respondError(w, err)
		return
	}
	p.ID = id
	s.respondJSON(w, http.StatusCreated, &p)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	ps, err := s.repos.Profiles.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if ps == nil {
		ps = []*entity.CompanyProfile{}
	}
	s.respondJSON(w, http.StatusOK, ps)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	p, err := s.repos.Profiles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.respondError(w, common.NewAppError("PROFILE_NOT_FOUND", "no such profile", common.ErrNotFound))
			return
		}
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrDatabase):
		status = http.StatusInternalServerError
	}

	body := map[string]string{"error": "internal server error"}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		body = map[string]string{"error": appErr.Message, "code": appErr.Code}
	} else if status != http.StatusInternalServerError {
		body = map[string]string{"error": err.Error()}
	}

	s.logger.Error("http.request.failed", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
