package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

type createSessionRequest struct {
	Language string `json:"language"`
}

type createSessionResponse struct {
	SessionID         string            `json:"session_id"`
	State             dialogue.State    `json:"state"`
	Language          taxonomy.Language `json:"language"`
	Message           string            `json:"message"`
	NextExpectedInput string            `json:"next_expected_input"`
	InactivityTTLMS   int64             `json:"inactivity_ttl_ms"`
}

type utteranceRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func parseLanguage(raw string) (taxonomy.Language, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return taxonomy.English, true
	}
	for _, l := range taxonomy.Languages {
		if string(l) == raw {
			return l, true
		}
	}
	return "", false
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	lang, ok := parseLanguage(req.Language)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_language", "language must be en or hi")
		return
	}

	sess, err := s.sessions.Start(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:         sess.ID,
		State:             sess.State,
		Language:          lang,
		Message:           dialogue.Welcome(lang),
		NextExpectedInput: sess.State.ExpectedInput(),
		InactivityTTLMS:   s.sessions.InactivityTimeout().Milliseconds(),
	})
}

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"messages": dialogue.Welcomes(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := s.sessions.End(r.Context(), id); err != nil {
		s.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"status":     "ended",
	})
}

// handleSubmit answers one utterance on an existing session.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	text, ok := s.decodeUtterance(w, r, nil)
	if !ok {
		return
	}
	resp, err := s.sessions.Submit(r.Context(), id, text)
	if err != nil {
		s.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleProcess answers one utterance, starting a session when session_id is
// missing or has expired.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	text, ok := s.decodeUtterance(w, r, &req)
	if !ok {
		return
	}
	resp, err := s.sessions.Process(r.Context(), strings.TrimSpace(req.SessionID), text)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "process_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeUtterance(w http.ResponseWriter, r *http.Request, req *utteranceRequest) (string, bool) {
	if req == nil {
		req = &utteranceRequest{}
	}
	if err := decodeJSON(r, req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return "", false
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return "", false
	}
	return text, true
}

func (s *Server) respondSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	if errors.Is(err, session.ErrExpired) {
		respondError(w, http.StatusGone, "session_expired", err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "session_store_error", err.Error())
}
