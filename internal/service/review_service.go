//go:generate mockery --name ReviewService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"toeic_flashcards/internal/config"
	"toeic_flashcards/internal/middleware"
	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/repository"
	"toeic_flashcards/internal/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, userID string, flashcardID uuid.UUID, quality int) (*model.SubmitReviewResponse, error)
	GetDueFlashcards(ctx context.Context, userID string, limit int) (*model.DueFlashcardsResponse, error)
}

type reviewService struct {
	db          *gorm.DB
	cardRepo    repository.FlashcardRepository
	historyRepo repository.HistoryRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewReviewService(db *gorm.DB, cardRepo repository.FlashcardRepository, historyRepo repository.HistoryRepository, cfg *config.Config) ReviewService {
	return &reviewService{
		db:          db,
		cardRepo:    cardRepo,
		historyRepo: historyRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SubmitReview は回答の質からSM-2の状態を更新し、履歴を1件追加します。
// カードの読み込みから履歴追加までを1トランザクションで行います。
func (s *reviewService) SubmitReview(ctx context.Context, userID string, flashcardID uuid.UUID, quality int) (*model.SubmitReviewResponse, error) {
	logger := middleware.GetLogger(ctx).With("flashcard_id", flashcardID, "quality", quality)

	q := srs.Quality(quality)
	if !q.IsValid() {
		return nil, model.NewAppError("VALIDATION_ERROR", "回答の質は0から5の整数で指定してください。", "quality", model.ErrInvalidInput)
	}

	var resp *model.SubmitReviewResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.FindByIDForUpdate(ctx, tx, userID, flashcardID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errFlashcardNotFound(err)
			}
			logger.Error("Error loading flashcard in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの取得に失敗しました。", "", model.ErrInternalServer)
		}

		now := s.now()
		next, err := srs.Update(q, card.SchedulingState(), now)
		if err != nil {
			if errors.Is(err, srs.ErrInvalidState) {
				logger.Error("Stored scheduling state is out of domain", "error", err, "state", card.SchedulingState())
				return model.NewAppError("INVALID_STATE", "カードの学習状態が不正です。", "", errors.Join(model.ErrInvalidInput, err))
			}
			return model.NewAppError("VALIDATION_ERROR", "回答の質は0から5の整数で指定してください。", "quality", errors.Join(model.ErrInvalidInput, err))
		}

		card.ApplySchedulingState(next)
		card.UpdatedAt = now
		if err := s.cardRepo.UpdateSchedule(ctx, tx, card); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errFlashcardNotFound(err)
			}
			logger.Error("Error saving flashcard schedule", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習状態の更新に失敗しました。", "", model.ErrInternalServer)
		}

		history := &model.RepetitionHistory{
			ID:          uuid.New(),
			FlashcardID: card.ID,
			Quality:     quality,
			ReviewDate:  now,
		}
		if err := s.historyRepo.Create(ctx, tx, history); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errFlashcardNotFound(err)
			}
			logger.Error("Error appending repetition history", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "復習履歴の保存に失敗しました。", "", model.ErrInternalServer)
		}

		resp = &model.SubmitReviewResponse{
			Flashcard:          card,
			RepetitionHistory:  history,
			SchedulingResult:   model.NewSchedulingResult(next),
			QualityDescription: q.Description(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review submitted",
		"repetitions", resp.SchedulingResult.Repetitions,
		"interval", resp.SchedulingResult.Interval,
		"easiness_factor", resp.SchedulingResult.EasinessFactor,
	)
	return resp, nil
}

// GetDueFlashcards は期限到来カードを優先度順に最大 limit 件返します。
// 統計は切り詰め前の全期限到来カードから計算します。
func (s *reviewService) GetDueFlashcards(ctx context.Context, userID string, limit int) (*model.DueFlashcardsResponse, error) {
	logger := middleware.GetLogger(ctx)

	limit = s.effectiveLimit(limit)
	now := s.now()

	cards, err := s.cardRepo.FindByUser(ctx, s.db, userID, repository.FindOptions{
		DueBefore:    &now,
		HistoryLimit: model.HistoryLimitDue,
	})
	if err != nil {
		logger.Error("Failed to find due flashcards from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象カードの取得に失敗しました。", "", model.ErrInternalServer)
	}

	due := srs.SelectDue(cards, now)
	ordered := srs.OrderByPriority(due, now)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	resp := &model.DueFlashcardsResponse{
		Flashcards: ordered,
		Stats:      srs.ComputeStats(due, now, s.cfg.Location()),
	}

	logger.Info("Successfully retrieved due flashcards",
		"count", len(ordered),
		"total_due", resp.Stats.TotalDue,
		"overdue", resp.Stats.Overdue,
	)
	return resp, nil
}

func (s *reviewService) effectiveLimit(limit int) int {
	def := s.cfg.App.ReviewLimit
	if def <= 0 {
		def = config.DefaultAppReviewLimit
	}
	maxLimit := s.cfg.App.MaxReviewLimit
	if maxLimit <= 0 {
		maxLimit = config.DefaultAppMaxReviewLimit
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
