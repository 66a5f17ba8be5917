package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists every document id in the published corpus.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	b, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": b.Corpus.IDs()})
}

// handleGetDocument returns one document. Ids contain slashes, so the id is
// the whole wildcard remainder.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	b, ok := s.current(w)
	if !ok {
		return
	}
	id := strings.Trim(chi.URLParam(r, "*"), "/")
	doc, found := b.Corpus.Get(id)
	if !found {
		jsonError(w, "unknown document: "+id, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
