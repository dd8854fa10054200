//go:generate mockery --name HistoryRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"toeic_flashcards/internal/middleware"
	"toeic_flashcards/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL の外部キー制約違反
const pgForeignKeyViolation = "23503"

type HistoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, history *model.RepetitionHistory) error
	FindByFlashcard(ctx context.Context, db *gorm.DB, flashcardID uuid.UUID, limit int) ([]model.RepetitionHistory, error)
}

type gormHistoryRepository struct{}

func NewGormHistoryRepository() HistoryRepository {
	return &gormHistoryRepository{}
}

func (r *gormHistoryRepository) Create(ctx context.Context, tx *gorm.DB, history *model.RepetitionHistory) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(history)
	if result.Error != nil {
		// カードが同時に削除された場合
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			logger.Warn("Flashcard for repetition history does not exist",
				"flashcard_id", history.FlashcardID.String(),
			)
			return model.ErrNotFound
		}
		logger.Error("Error creating repetition history in DB",
			"error", result.Error,
			"flashcard_id", history.FlashcardID.String(),
		)
		return fmt.Errorf("gormHistoryRepository.Create: %w", result.Error)
	}
	return nil
}

// FindByFlashcard は新しい順に最大 limit 件の履歴を返します (0 は全件)
func (r *gormHistoryRepository) FindByFlashcard(ctx context.Context, db *gorm.DB, flashcardID uuid.UUID, limit int) ([]model.RepetitionHistory, error) {
	logger := middleware.GetLogger(ctx)
	histories := make([]model.RepetitionHistory, 0)
	query := db.WithContext(ctx).Where("flashcard_id = ?", flashcardID).Order("review_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&histories).Error; err != nil {
		logger.Error("Error finding repetition history in DB",
			"error", err,
			"flashcard_id", flashcardID.String(),
		)
		return nil, fmt.Errorf("gormHistoryRepository.FindByFlashcard: %w", err)
	}
	return histories, nil
}
