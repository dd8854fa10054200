// internal/handlers/flashcard_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"toeic_flashcards/internal/middleware"
	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/service"
	"toeic_flashcards/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type FlashcardHandler struct {
	service service.FlashcardService
	logger  *slog.Logger
}

func NewFlashcardHandler(s service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		service: s,
		logger:  logger,
	}
}

// userFromRequest はコンテキストから学習者IDを取り出します。失敗時はレスポンスを書き込み false を返します。
func userFromRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("User context missing", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return "", false
	}
	return userID, true
}

// flashcardIDFromURL は URL の flashcard_id を UUID として読み取ります
func flashcardIDFromURL(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "flashcard_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.Warn("Invalid flashcard ID format in URL", slog.String("flashcard_id_str", idStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "flashcard_idの形式が正しくありません。", "flashcard_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate はボディをデコードし、validate タグで検証します
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return false
	}
	if err := webutil.ValidateStruct(dst); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return false
	}
	return true
}

// PostFlashcard は新しいフラッシュカードを作成するためのハンドラ
func (h *FlashcardHandler) PostFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostFlashcard"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID))

	var req model.PostFlashcardRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	card, err := h.service.CreateFlashcard(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating flashcard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard created successfully", slog.String("flashcard_id", card.ID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, card, logger)
}

// GetFlashcards はフラッシュカード一覧を取得するためのハンドラ
func (h *FlashcardHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetFlashcards"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID))

	dueOnly, err := webutil.QueryBool(r, "due_only")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	limit, err := webutil.QueryInt(r, "limit", 0)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if limit < 0 {
		appErr := model.NewAppError("INVALID_QUERY_PARAM", "limitは0以上で指定してください。", "limit", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	cards, err := h.service.ListFlashcards(r.Context(), userID, model.ListFlashcardsOptions{DueOnly: dueOnly, Limit: limit})
	if err != nil {
		logger.Error("Error listing flashcards in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.Flashcard{}
	}
	logger.Info("Flashcards listed successfully", slog.Int("count", len(cards)))
	webutil.RespondWithJSON(w, http.StatusOK, cards, logger)
}

// GetFlashcard は特定のフラッシュカードを取得するためのハンドラ
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetFlashcard"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	cardID, ok := flashcardIDFromURL(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID), slog.String("flashcard_id", cardID.String()))

	card, err := h.service.GetFlashcard(r.Context(), userID, cardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Flashcard not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting flashcard from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// PutFlashcard はフラッシュカードの内容を置き換えるためのハンドラ
func (h *FlashcardHandler) PutFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutFlashcard"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	cardID, ok := flashcardIDFromURL(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID), slog.String("flashcard_id", cardID.String()))

	var req model.PutFlashcardRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	card, err := h.service.PutFlashcard(r.Context(), userID, cardID, &req)
	if err != nil {
		logger.Error("Error putting flashcard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard put successfully")
	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// DeleteFlashcard はフラッシュカードと復習履歴を削除するためのハンドラ
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteFlashcard"))

	userID, ok := userFromRequest(w, r, logger)
	if !ok {
		return
	}
	cardID, ok := flashcardIDFromURL(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID), slog.String("flashcard_id", cardID.String()))

	if err := h.service.DeleteFlashcard(r.Context(), userID, cardID); err != nil {
		logger.Error("Error deleting flashcard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
