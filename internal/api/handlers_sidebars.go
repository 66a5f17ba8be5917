package api

import (
	"net/http"

	"github.com/dgallion1/docnav/internal/render"
	"github.com/go-chi/chi/v5"
)

// handleListSidebars lists tree names in declaration order.
func (s *Server) handleListSidebars(w http.ResponseWriter, r *http.Request) {
	b, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"build_id": b.ID,
		"sidebars": b.Registry.Names(),
	})
}

// handleGetSidebar returns one tree as JSON, or as an ASCII tree with
// ?format=text.
func (s *Server) handleGetSidebar(w http.ResponseWriter, r *http.Request) {
	b, ok := s.current(w)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	tree, found := b.Registry.Tree(name)
	if !found {
		jsonError(w, "unknown sidebar: "+name, http.StatusNotFound)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, tree)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := render.Tree(w, tree, b.Corpus); err != nil {
			s.log.Error("render sidebar", "sidebar", name, "error", err)
		}
	default:
		jsonError(w, "format must be json or text", http.StatusBadRequest)
	}
}
