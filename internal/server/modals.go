package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/modal"
)

type openModalRequest struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Size             modal.Size `json:"size"`
	Closable         *bool      `json:"closable"`
	Backdrop         *bool      `json:"backdrop"`
	BackdropClosable *bool      `json:"backdrop_closable"`
	Keyboard         *bool      `json:"keyboard"`
	InitialFocus     string     `json:"initial_focus"`
}

func (s *Server) handleListModals(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"modals": s.modals.Records()}
	if active, ok := s.modals.Active(); ok {
		resp["active"] = active.ID
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenModal(w http.ResponseWriter, r *http.Request) {
	var req openModalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("open modal request", zap.String("id", req.ID))
	rec, err := s.modals.OpenModal(modal.Config{
		ID:               req.ID,
		Title:            req.Title,
		Size:             req.Size,
		Closable:         req.Closable,
		Backdrop:         req.Backdrop,
		BackdropClosable: req.BackdropClosable,
		Keyboard:         req.Keyboard,
		InitialFocus:     req.InitialFocus,
	})
	if errors.Is(err, modal.ErrMissingID) {
		s.respondError(w, http.StatusBadRequest, "modal id is required")
		return
	}
	if err != nil {
		s.logger.Error("open modal failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

// handleCloseModal closes one modal. An unknown id is a no-op.
func (s *Server) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	closed := s.modals.CloseModal(chi.URLParam(r, "id"))
	s.respondJSON(w, http.StatusOK, map[string]bool{"closed": closed})
}

func (s *Server) handleCloseAllModals(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]int{"closed": s.modals.CloseAll()})
}

// handleModalAction applies minimize, maximize, restore or front to one modal.
// An unknown id is a no-op reported as applied=false.
func (s *Server) handleModalAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var apply func(string) bool
	switch chi.URLParam(r, "action") {
	case modal.ActionMinimize:
		apply = s.modals.Minimize
	case modal.ActionMaximize:
		apply = s.modals.Maximize
	case modal.ActionRestore:
		apply = s.modals.Restore
	case modal.ActionFront:
		apply = s.modals.BringToFront
	default:
		s.respondError(w, http.StatusBadRequest, "unknown modal action")
		return
	}
	resp := map[string]interface{}{"applied": apply(id)}
	if rec, ok := s.modals.Get(id); ok {
		resp["modal"] = rec
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModalKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   modal.Key `json:"key"`
		Shift bool      `json:"shift"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"handled": s.modals.HandleKey(req.Key, req.Shift)})
}
