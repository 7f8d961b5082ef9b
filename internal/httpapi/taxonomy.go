package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/samvad/internal/extract"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

type subCategoryView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type detectRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type detectResponse struct {
	extract.Detection
	Language taxonomy.Language `json:"language"`
	Question string            `json:"question"`
	Priority taxonomy.Priority `json:"priority"`
}

type priorityRequest struct {
	Category    string `json:"complaint_type"`
	SubCategory string `json:"sub_category"`
}

type locationRequest struct {
	Area string `json:"area"`
	Text string `json:"text"`
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"categories": s.tax.Categories(),
	})
}

func (s *Server) handleSubCategories(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_category", err.Error())
		return
	}
	info, ok := s.findCategory(raw)
	if !ok {
		respondError(w, http.StatusNotFound, "category_not_found", "unknown category "+raw)
		return
	}
	lang, ok := parseLanguage(r.URL.Query().Get("language"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_language", "language must be en or hi")
		return
	}

	subs := make([]subCategoryView, 0, len(info.SubCategories))
	for _, sub := range info.SubCategories {
		text := sub.Names[lang]
		if text == "" {
			text = sub.Names[taxonomy.English]
		}
		if text == "" {
			text = sub.ID
		}
		subs = append(subs, subCategoryView{ID: sub.ID, Text: text})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"category":       info.Name,
		"language":       lang,
		"sub_categories": subs,
	})
}

// findCategory matches a category by display name or two-letter code.
func (s *Server) findCategory(raw string) (taxonomy.CategoryInfo, bool) {
	raw = strings.TrimSpace(raw)
	for _, info := range s.tax.Categories() {
		if strings.EqualFold(string(info.Name), raw) || strings.EqualFold(info.Code, raw) {
			return info, true
		}
	}
	return taxonomy.CategoryInfo{}, false
}

func (s *Server) handleWards(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"wards": s.tax.Wards()})
}

func (s *Server) handleZones(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"zones": s.tax.Zones()})
}

func (s *Server) handleAreas(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"areas": s.tax.Areas()})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	lang := extract.DetectLanguage(req.Text)
	if req.Language != "" {
		var ok bool
		if lang, ok = parseLanguage(req.Language); !ok {
			respondError(w, http.StatusBadRequest, "invalid_language", "language must be en or hi")
			return
		}
	}

	d := extract.Detect(s.tax, req.Text)
	s.metrics.Detection("category", string(d.Confidence))
	cat := d.Category
	if cat == "" {
		cat = taxonomy.Other
	}
	respondJSON(w, http.StatusOK, detectResponse{
		Detection: d,
		Language:  lang,
		Question:  s.tax.Question(cat, lang),
		Priority:  s.tax.Priority(d.Category, d.SubCategory),
	})
}

func (s *Server) handlePriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	info, ok := s.findCategory(req.Category)
	if !ok {
		respondError(w, http.StatusNotFound, "category_not_found", "unknown category "+req.Category)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"complaint_type": info.Name,
		"sub_category":   req.SubCategory,
		"priority":       s.tax.Priority(info.Name, strings.TrimSpace(req.SubCategory)),
	})
}

// handleResolveLocation resolves area first and falls back to text for
// explicit ward or zone mentions.
func (s *Server) handleResolveLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	area, text := strings.TrimSpace(req.Area), strings.TrimSpace(req.Text)
	if area == "" && text == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "area or text is required")
		return
	}

	d := s.resolver.Resolve(area)
	if !d.Resolved() && text != "" && text != area {
		if alt := s.resolver.Resolve(text); alt.Resolved() {
			if area != "" {
				alt.Area = area
			}
			d = alt
		}
	}
	outcome := "unresolved"
	if d.Resolved() {
		outcome = string(d.Method)
	}
	s.metrics.Detection("location", outcome)
	respondJSON(w, http.StatusOK, map[string]any{
		"location":      d,
		"resolved":      d.Resolved(),
		"auto_detected": d.AutoDetected,
	})
}
