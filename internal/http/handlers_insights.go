package http

import (
	"log/slog"
	"net/http"

	"finsight/internal/core"
)

type insightListResponse struct {
	Insights []core.Insight `json:"insights"`
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	if cached, found := s.insightCache.Get(userID); found {
		slog.DebugContext(r.Context(), "Insight list cache hit", "user_id", userID)
		respondJSON(w, http.StatusOK, insightListResponse{Insights: cached})
		return
	}

	insights, err := s.insights.GetInsightsForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if insights == nil {
		insights = []core.Insight{}
	}

	s.insightCache.Set(userID, insights)
	respondJSON(w, http.StatusOK, insightListResponse{Insights: insights})
}

func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	id := r.PathValue("id")

	insight, err := s.insights.GetInsightByID(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, insight)
}

// handleGenerateInsights queues a regeneration when a publisher is wired,
// otherwise it generates inline and returns the fresh batch.
func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	if s.publisher != nil {
		if err := s.publisher.PublishInsightGenerate(r.Context(), userID); err != nil {
			slog.WarnContext(r.Context(), "Queueing insight generation failed, generating inline",
				"user_id", userID, "error", err)
		} else {
			s.insightCache.Delete(userID)
			respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
			return
		}
	}

	batch, err := s.insights.GenerateInsights(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.insightCache.Delete(userID)
	respondJSON(w, http.StatusCreated, insightListResponse{Insights: batch})
}
