package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"curry-craft/stats-svc/internal/domain"
	"curry-craft/stats-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Stats  service.StatsServiceInterface
	Logger *zap.Logger
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/daily", h.Today).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/daily/{date}", h.Daily).Methods(http.MethodGet)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "stats-svc",
	})
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	h.daily(w, r, time.Now().UTC().Format(domain.DateLayout))
}

func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	h.daily(w, r, mux.Vars(r)["date"])
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request, date string) {
	stats, err := h.Stats.Daily(r.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.Logger.Error("failed to load daily stats", zap.String("date", date), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
