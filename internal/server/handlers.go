package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/history"
	"github.com/hyperjump/vitrine/internal/models"
	"github.com/hyperjump/vitrine/internal/storage"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":       q,
		"suggestions": s.engine.Suggest(q),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items := s.catalog.Items()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := s.catalog.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := s.history.Recent(r.Context())
	if err != nil {
		s.respondStoreError(w, "recent searches", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"recent": recent})
}

func (s *Server) handleClearRecent(w http.ResponseWriter, r *http.Request) {
	if err := s.history.ClearRecent(r.Context()); err != nil {
		s.respondStoreError(w, "clear recent searches", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			s.respondError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = v
	}
	popular, err := s.history.Popular(r.Context(), n)
	if err != nil {
		s.respondStoreError(w, "popular searches", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"popular": popular})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.History(r.Context())
	if err != nil {
		s.respondStoreError(w, "search history", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := s.history.Saved(r.Context())
	if err != nil {
		s.respondStoreError(w, "saved searches", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"saved": saved})
}

type saveSearchRequest struct {
	Name    string        `json:"name"`
	Query   string        `json:"query"`
	Filters models.Facets `json:"filters"`
}

func (s *Server) handleSaveSearch(w http.ResponseWriter, r *http.Request) {
	var req saveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("save search request", zap.String("name", req.Name), zap.String("query", req.Query))
	saved, err := s.history.Save(r.Context(), req.Name, req.Query, req.Filters)
	if err != nil {
		s.respondStoreError(w, "save search", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := s.history.GetSaved(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, "get saved search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleRenameSaved(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := s.history.RenameSaved(r.Context(), chi.URLParam(r, "id"), body.Name)
	if err != nil {
		s.respondStoreError(w, "rename saved search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete saved search request", zap.String("id", id))
	if err := s.history.DeleteSaved(r.Context(), id); err != nil {
		s.respondStoreError(w, "delete saved search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleUseSaved marks a saved search as used and runs it.
func (s *Server) handleUseSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := s.history.UseSaved(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, "use saved search", err)
		return
	}
	query := &models.SearchQuery{Query: saved.Query, Filters: saved.Filters}
	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("saved search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"saved":    saved,
		"response": response,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"items":  s.catalog.Len(),
	}
	if s.config != nil {
		resp["storage_driver"] = s.config.Storage.Driver
		if diskBytes, err := storage.UsageBytes(s.config.Storage.Options()); err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// respondStoreError maps history errors to status codes.
func (s *Server) respondStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, history.ErrSavedSearchNotFound):
		s.respondError(w, http.StatusNotFound, "saved search not found")
	case errors.Is(err, history.ErrEmptyQuery):
		s.respondError(w, http.StatusBadRequest, "query is required")
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
