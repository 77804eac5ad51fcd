package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

type CommunicationsHandler struct {
	store store.Store
}

func NewCommunicationsHandler(s store.Store) *CommunicationsHandler {
	return &CommunicationsHandler{store: s}
}

// List handles GET /api/v1/communications
func (h *CommunicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CommunicationFilter{
		TestID:       q.Get("test_id"),
		FailedOnly:   q.Get("failed_only") == "true",
		DetectedOnly: q.Get("detected_only") == "true",
	}
	if v := q.Get("scenario_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid scenario_id")
			return
		}
		filter.ScenarioID = &id
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comms, err := h.store.ListCommunications(r.Context(), filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	if comms == nil {
		comms = []*store.Communication{}
	}
	writeJSON(w, http.StatusOK, comms)
}

// Stats handles GET /api/v1/communications/test/{testID}/stats
func (h *CommunicationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetCommunicationStats(r.Context(), chi.URLParam(r, "testID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
