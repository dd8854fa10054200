// internal/handlers/review_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/service"
	"toeic_flashcards/internal/webutil"
)

type ReviewHandler struct {
	service service.ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(s service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		service: s,
		logger:  logger,
	}
}

// SubmitReview は回答の質を受け取り、SM-2 でスケジュールを更新するハンドラ
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitReview"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	cardID, ok := flashcardIDFromURL(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID), slog.String("flashcard_id", cardID.String()))

	var req model.SubmitReviewRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	resp, err := h.service.SubmitReview(r.Context(), userID, cardID, *req.Quality)
	if err != nil {
		logger.Error("Error submitting review in service", slog.Any("error", err), slog.Int("quality", *req.Quality))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Review submitted successfully",
		slog.Int("quality", *req.Quality),
		slog.Int("interval", resp.SchedulingResult.Interval),
	)
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetDueFlashcards は期限到来カードを優先度順に返すハンドラ
func (h *ReviewHandler) GetDueFlashcards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDueFlashcards"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID))

	// 0 はサービス側で設定値に置き換える
	limit, err := webutil.QueryInt(r, "limit", 0)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if limit < 0 {
		appErr := model.NewAppError("INVALID_QUERY_PARAM", "limitは1以上で指定してください。", "limit", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	resp, err := h.service.GetDueFlashcards(r.Context(), userID, limit)
	if err != nil {
		logger.Error("Error getting due flashcards from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if resp.Flashcards == nil {
		resp.Flashcards = []*model.Flashcard{}
	}

	logger.Info("Due flashcards retrieved successfully",
		slog.Int("count", len(resp.Flashcards)),
		slog.Int("total_due", resp.Stats.TotalDue),
	)
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
