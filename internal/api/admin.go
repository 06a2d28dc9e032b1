package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/metrics"
)

// AdminSaveResponse is the response for admin create/update
type AdminSaveResponse struct {
	Kind content.Kind `json:"kind"`
	ID   string       `json:"id"`
}

// actor identifies who made an admin edit, for the audit log. The API
// key is shared, so the caller names itself via header.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "api"
}

// handleAdminCreate handles POST /api/v1/admin/{kind}
func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	s.adminSave(w, r, "")
}

// handleAdminUpdate handles PUT /api/v1/admin/{kind}/{id}
func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.sendError(w, http.StatusBadRequest, "id is required")
		return
	}
	s.adminSave(w, r, id)
}

func (s *Server) adminSave(w http.ResponseWriter, r *http.Request, id string) {
	if s.store == nil {
		s.sendError(w, http.StatusServiceUnavailable, "Admin storage is not configured")
		return
	}

	kind := content.Kind(chi.URLParam(r, "kind"))
	if !content.ValidKind(kind) {
		s.sendError(w, http.StatusBadRequest, "Unknown entity kind")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	// On update the path id is authoritative over whatever the body says.
	if id != "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			s.sendError(w, http.StatusBadRequest, "Invalid entity body")
			return
		}
		idJSON, _ := json.Marshal(id)
		fields["id"] = idJSON
		if raw, err = json.Marshal(fields); err != nil {
			s.sendError(w, http.StatusInternalServerError, "Failed to encode entity")
			return
		}
	}

	savedID, err := s.store.Save(kind, raw, actor(r))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.source.Reload(); err != nil {
		s.logger.Error("failed to rebuild catalog after admin save", "kind", kind, "id", savedID, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Saved, but catalog rebuild failed")
		return
	}

	metrics.IncAdminSave(string(kind))
	s.logger.Info("admin save", "kind", kind, "id", savedID, "actor", actor(r))

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	s.sendJSON(w, status, AdminSaveResponse{Kind: kind, ID: savedID})
}

// handleAdminDelete handles DELETE /api/v1/admin/{kind}/{id}
func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.sendError(w, http.StatusServiceUnavailable, "Admin storage is not configured")
		return
	}

	kind := content.Kind(chi.URLParam(r, "kind"))
	if !content.ValidKind(kind) {
		s.sendError(w, http.StatusBadRequest, "Unknown entity kind")
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(kind, id); err != nil {
		s.logger.Error("failed to delete overlay entity", "kind", kind, "id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to delete entity")
		return
	}

	if err := s.source.Reload(); err != nil {
		s.logger.Error("failed to rebuild catalog after admin delete", "kind", kind, "id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Deleted, but catalog rebuild failed")
		return
	}

	s.logger.Info("admin delete", "kind", kind, "id", id, "actor", actor(r))
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminAudit handles GET /api/v1/admin/audit
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.sendError(w, http.StatusServiceUnavailable, "Admin storage is not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.sendError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.store.Audit(limit)
	if err != nil {
		s.logger.Error("failed to read audit log", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to read audit log")
		return
	}
	if entries == nil {
		entries = []content.AuditEntry{}
	}
	s.sendJSON(w, http.StatusOK, entries)
}
