package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/samvad/internal/complaint"
)

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type assignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// complaintStore writes a 503 and returns nil when complaint storage is off.
func (s *Server) complaintStore(w http.ResponseWriter) complaint.Store {
	if s.complaints == nil {
		respondError(w, http.StatusServiceUnavailable, "complaints_disabled", "Complaint store is not configured.")
		return nil
	}
	return s.complaints
}

func (s *Server) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	store := s.complaintStore(w)
	if store == nil {
		return
	}
	q := r.URL.Query()
	f := complaint.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Zone:     strings.TrimSpace(q.Get("zone")),
		Limit:    100,
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st, err := complaint.ParseStatus(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		f.Status = st
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		if n > 500 {
			n = 500
		}
		f.Limit = n
	}

	records, err := store.List(r.Context(), f)
	if err != nil {
		s.metrics.StoreError("complaint", "list")
		respondError(w, http.StatusInternalServerError, "complaint_list_failed", err.Error())
		return
	}
	if records == nil {
		records = []complaint.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"complaints": records,
		"count":      len(records),
	})
}

func (s *Server) handleGetComplaint(w http.ResponseWriter, r *http.Request) {
	store := s.complaintStore(w)
	if store == nil {
		return
	}
	rec, err := store.Get(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		s.respondComplaintError(w, "get", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	store := s.complaintStore(w)
	if store == nil {
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	st, err := complaint.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	rec, err := store.UpdateStatus(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")), st, strings.TrimSpace(req.Notes))
	if err != nil {
		s.respondComplaintError(w, "update_status", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAssignComplaint(w http.ResponseWriter, r *http.Request) {
	store := s.complaintStore(w)
	if store == nil {
		return
	}
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	assignee := strings.TrimSpace(req.AssignedTo)
	if assignee == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "assigned_to is required")
		return
	}
	rec, err := store.Assign(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")), assignee)
	if err != nil {
		s.respondComplaintError(w, "assign", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleComplaintStats(w http.ResponseWriter, r *http.Request) {
	store := s.complaintStore(w)
	if store == nil {
		return
	}
	stats, err := store.Stats(r.Context())
	if err != nil {
		s.metrics.StoreError("complaint", "stats")
		respondError(w, http.StatusInternalServerError, "complaint_stats_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) respondComplaintError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, complaint.ErrNotFound):
		respondError(w, http.StatusNotFound, "complaint_not_found", err.Error())
	case errors.Is(err, complaint.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
	default:
		s.metrics.StoreError("complaint", op)
		respondError(w, http.StatusInternalServerError, "complaint_store_error", err.Error())
	}
}
