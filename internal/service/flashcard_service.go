//go:generate mockery --name FlashcardService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"toeic_flashcards/internal/middleware"
	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/repository"
	"toeic_flashcards/internal/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlashcardService interface {
	CreateFlashcard(ctx context.Context, userID string, req *model.PostFlashcardRequest) (*model.Flashcard, error)
	GetFlashcard(ctx context.Context, userID string, flashcardID uuid.UUID) (*model.Flashcard, error)
	ListFlashcards(ctx context.Context, userID string, opts model.ListFlashcardsOptions) ([]*model.Flashcard, error)
	PutFlashcard(ctx context.Context, userID string, flashcardID uuid.UUID, req *model.PutFlashcardRequest) (*model.Flashcard, error)
	DeleteFlashcard(ctx context.Context, userID string, flashcardID uuid.UUID) error
}

type flashcardService struct {
	db          *gorm.DB
	cardRepo    repository.FlashcardRepository
	historyRepo repository.HistoryRepository
	now         func() time.Time
}

func NewFlashcardService(db *gorm.DB, cardRepo repository.FlashcardRepository, historyRepo repository.HistoryRepository) FlashcardService {
	return &flashcardService{
		db:          db,
		cardRepo:    cardRepo,
		historyRepo: historyRepo,
		now:         time.Now,
	}
}

func errFlashcardNotFound(err error) error {
	return model.NewAppError("NOT_FOUND", "フラッシュカードが見つかりません。", "", err)
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, userID string, req *model.PostFlashcardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	now := s.now()
	card := &model.Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		FrontContent: req.FrontContent,
		BackContent:  req.BackContent,
		ImageURL:     req.ImageURL,
		AudioURL:     req.AudioURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// 作成直後から復習対象
	card.ApplySchedulingState(srs.NewState(now))

	if err := s.cardRepo.Create(ctx, s.db, card); err != nil {
		logger.Error("Failed to create flashcard", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの作成に失敗しました。", "", model.ErrInternalServer)
	}

	logger.Info("Flashcard created", "flashcard_id", card.ID)
	return card, nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, userID string, flashcardID uuid.UUID) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx).With("flashcard_id", flashcardID)

	card, err := s.cardRepo.FindByID(ctx, s.db, userID, flashcardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errFlashcardNotFound(err)
		}
		logger.Error("Failed to get flashcard", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの取得に失敗しました。", "", model.ErrInternalServer)
	}

	history, err := s.historyRepo.FindByFlashcard(ctx, s.db, flashcardID, model.HistoryLimitDetail)
	if err != nil {
		logger.Error("Failed to get repetition history", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習履歴の取得に失敗しました。", "", model.ErrInternalServer)
	}
	card.RepetitionHistory = history
	return card, nil
}

func (s *flashcardService) ListFlashcards(ctx context.Context, userID string, opts model.ListFlashcardsOptions) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	findOpts := repository.FindOptions{
		Limit:        opts.Limit,
		HistoryLimit: model.HistoryLimitList,
	}
	if opts.DueOnly {
		now := s.now()
		findOpts.DueBefore = &now
	}

	cards, err := s.cardRepo.FindByUser(ctx, s.db, userID, findOpts)
	if err != nil {
		logger.Error("Failed to list flashcards", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカード一覧の取得に失敗しました。", "", model.ErrInternalServer)
	}
	if cards == nil {
		cards = []*model.Flashcard{}
	}

	logger.Debug("Flashcards listed", "count", len(cards), "due_only", opts.DueOnly)
	return cards, nil
}

// PutFlashcard は内容のみを置き換えます。SM-2 の状態は変更しません。
func (s *flashcardService) PutFlashcard(ctx context.Context, userID string, flashcardID uuid.UUID, req *model.PutFlashcardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx).With("flashcard_id", flashcardID)

	var updated *model.Flashcard
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"front_content": req.FrontContent,
			"back_content":  req.BackContent,
			"image_url":     req.ImageURL,
			"audio_url":     req.AudioURL,
			"updated_at":    s.now(),
		}
		if err := s.cardRepo.UpdateContent(ctx, tx, userID, flashcardID, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errFlashcardNotFound(err)
			}
			logger.Error("Failed to update flashcard", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの更新に失敗しました。", "", model.ErrInternalServer)
		}

		card, err := s.cardRepo.FindByID(ctx, tx, userID, flashcardID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errFlashcardNotFound(err)
			}
			logger.Error("Failed to reload updated flashcard", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "更新後のフラッシュカードの取得に失敗しました。", "", model.ErrInternalServer)
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Flashcard updated")
	return updated, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, userID string, flashcardID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("flashcard_id", flashcardID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cardRepo.Delete(ctx, tx, userID, flashcardID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errFlashcardNotFound(err)
			}
			logger.Error("Failed to delete flashcard", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの削除に失敗しました。", "", model.ErrInternalServer)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Flashcard deleted")
	return nil
}
