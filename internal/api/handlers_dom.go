package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/navigator-ai/navcore/internal/compact"
	"github.com/navigator-ai/navcore/internal/dom"
)

type parseDOMRequest struct {
	HTML      string          `json:"html,omitempty"`
	Structure json.RawMessage `json:"structure,omitempty"`
}

// handleParseDOM compacts a page into a model-ready description without
// touching any task. Accepts either raw HTML or a pre-extracted node map.
func (s *Server) handleParseDOM(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req parseDOMRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/html") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.HTML = string(data)
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	graph, err := buildGraph(req.HTML, req.Structure)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := compact.New(s.compactConfig()).Compact(graph)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"structure":    graph,
		"summary":      result.Summary,
		"xpath_map":    result.XPathMap,
		"selector_map": result.SelectorMap,
	})
}

// buildGraph prefers a pre-extracted node map over raw HTML when both
// are present. A JSON null or empty object counts as absent so clients
// that always serialize the field still get their HTML parsed.
func buildGraph(rawHTML string, structure json.RawMessage) (*dom.Graph, error) {
	if structurePresent(structure) {
		var g dom.Graph
		if err := json.Unmarshal(structure, &g); err != nil {
			return nil, fmt.Errorf("invalid structure payload: %w", err)
		}
		return &g, nil
	}
	if rawHTML != "" {
		return dom.Parse(rawHTML), nil
	}
	return nil, fmt.Errorf("html or structure is required")
}

func structurePresent(structure json.RawMessage) bool {
	s := strings.TrimSpace(string(structure))
	return s != "" && s != "null" && s != "{}"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
