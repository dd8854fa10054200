package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"toeic_flashcards/internal/config"
	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/webutil"
)

// Pinger は疎通確認できる依存先 (*sql.DB など)
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{db: db, logger: logger}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("Health check failed", slog.Any("error", err))
		webutil.RespondWithJSON(w, http.StatusServiceUnavailable, model.APIErrorResponse{
			Error: model.ErrorDetail{Code: "SERVICE_UNAVAILABLE", Message: "データベースに接続できません。"},
		}, h.logger)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: config.AppVersion}, h.logger)
}
