package api

import (
	"net/http"

	"github.com/go-chi/render"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        s.orchestrator.JobCount(),
		"processing":  s.orchestrator.Stats(),
	})
}
