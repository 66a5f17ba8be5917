package api

import "net/http"

// handleBuild reports the most recent build attempt and the build that is
// currently served, which differ after an invalid rebuild.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{}
	if b := s.holder.Latest(); b != nil {
		resp["latest"] = b.Snapshot()
	}
	if b := s.holder.Current(); b != nil {
		resp["published_build_id"] = b.ID
	}
	if len(resp) == 0 {
		jsonError(w, "no build has run", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
