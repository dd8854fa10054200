//go:generate mockery --name FlashcardRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toeic_flashcards/internal/middleware"
	"toeic_flashcards/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOptions はカード一覧取得の条件
type FindOptions struct {
	DueBefore    *time.Time // 指定時は next_review_date <= DueBefore のみ
	Limit        int        // 0 は無制限
	HistoryLimit int        // カードごとに含める履歴件数 (0 は履歴なし)
}

type FlashcardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	FindByID(ctx context.Context, db *gorm.DB, userID string, cardID uuid.UUID) (*model.Flashcard, error)
	// FindByIDForUpdate はトランザクション内で行ロックを取得して読み込みます
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, userID string, cardID uuid.UUID) (*model.Flashcard, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID string, opts FindOptions) ([]*model.Flashcard, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, userID string, cardID uuid.UUID, updates map[string]interface{}) error
	UpdateSchedule(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	Delete(ctx context.Context, tx *gorm.DB, userID string, cardID uuid.UUID) error
}

type gormFlashcardRepository struct{}

func NewGormFlashcardRepository() FlashcardRepository {
	return &gormFlashcardRepository{}
}

func (r *gormFlashcardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	logger := middleware.GetLogger(ctx)
	// 関連の履歴はここでは作成しない
	result := tx.WithContext(ctx).Omit(clause.Associations).Create(card)
	if result.Error != nil {
		logger.Error("Error creating flashcard in DB",
			"error", result.Error,
			"user_id", card.UserID,
		)
		return fmt.Errorf("gormFlashcardRepository.Create: %w", result.Error)
	}
	return nil
}

// FindByID は履歴を含まないカードを返します。他ユーザーのカードは ErrNotFound
func (r *gormFlashcardRepository) FindByID(ctx context.Context, db *gorm.DB, userID string, cardID uuid.UUID) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var card model.Flashcard
	result := db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, cardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding flashcard by ID in DB",
			"error", result.Error,
			"flashcard_id", cardID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByID: %w", result.Error)
	}
	return &card, nil
}

func (r *gormFlashcardRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, userID string, cardID uuid.UUID) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var card model.Flashcard
	query := tx.WithContext(ctx)
	// SQLite は行ロックをサポートしないため PostgreSQL の場合のみ FOR UPDATE を付ける
	if tx.Dialector != nil && tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	result := query.Where("user_id = ? AND id = ?", userID, cardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error locking flashcard in DB",
			"error", result.Error,
			"flashcard_id", cardID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByIDForUpdate: %w", result.Error)
	}
	return &card, nil
}

func (r *gormFlashcardRepository) FindByUser(ctx context.Context, db *gorm.DB, userID string, opts FindOptions) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var cards []*model.Flashcard

	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if opts.DueBefore != nil {
		query = query.Where("next_review_date <= ?", *opts.DueBefore)
	}
	if opts.HistoryLimit > 0 {
		// Preload の Limit は全カード合計に効くため、件数はカードごとに後で切り詰める
		query = query.Preload("RepetitionHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("review_date DESC")
		})
	}
	query = query.Order("next_review_date ASC").Order("created_at DESC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	if result := query.Find(&cards); result.Error != nil {
		logger.Error("Error finding flashcards by user in DB",
			"error", result.Error,
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByUser: %w", result.Error)
	}
	for _, c := range cards {
		c.TrimHistory(opts.HistoryLimit)
	}
	return cards, nil
}

func (r *gormFlashcardRepository) UpdateContent(ctx context.Context, tx *gorm.DB, userID string, cardID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Flashcard{}).Where("user_id = ? AND id = ?", userID, cardID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating flashcard content in DB",
			"error", result.Error,
			"flashcard_id", cardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.UpdateContent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateSchedule は SM-2 の状態列だけを更新します
func (r *gormFlashcardRepository) UpdateSchedule(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Flashcard{}).
		Where("user_id = ? AND id = ?", card.UserID, card.ID).
		Updates(map[string]interface{}{
			"easiness_factor":  card.EasinessFactor,
			"repetitions":      card.Repetitions,
			"interval":         card.Interval,
			"next_review_date": card.NextReviewDate,
			"updated_at":       card.UpdatedAt,
		})
	if result.Error != nil {
		logger.Error("Error updating flashcard schedule in DB",
			"error", result.Error,
			"flashcard_id", card.ID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.UpdateSchedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormFlashcardRepository) Delete(ctx context.Context, tx *gorm.DB, userID string, cardID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	// 外部キーのCASCADEに頼らず履歴を先に削除する (SQLiteは既定でFK無効)
	sub := tx.Model(&model.Flashcard{}).Select("id").Where("user_id = ? AND id = ?", userID, cardID)
	if err := tx.WithContext(ctx).Where("flashcard_id IN (?)", sub).Delete(&model.RepetitionHistory{}).Error; err != nil {
		logger.Error("Error deleting repetition history in DB",
			"error", err,
			"flashcard_id", cardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Delete: %w", err)
	}
	result := tx.WithContext(ctx).Where("user_id = ? AND id = ?", userID, cardID).Delete(&model.Flashcard{})
	if result.Error != nil {
		logger.Error("Error deleting flashcard in DB",
			"error", result.Error,
			"flashcard_id", cardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
