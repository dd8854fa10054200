// internal/model/review.go
package model

import (
	"time"

	"toeic_flashcards/internal/srs"

	"github.com/google/uuid"
)

// 履歴を何件まで含めるか (エンドポイントごと)
const (
	HistoryLimitDetail = 10
	HistoryLimitList   = 5
	HistoryLimitDue    = 3
)

// RepetitionHistory は1回の復習結果 (追記のみ、更新・削除しない)
type RepetitionHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FlashcardID uuid.UUID `gorm:"type:uuid;not null;index" json:"flashcard_id"`
	Quality     int       `gorm:"not null" json:"quality"`
	ReviewDate  time.Time `gorm:"not null;index" json:"review_date"`
}

func (RepetitionHistory) TableName() string {
	return "repetition_history"
}

// SubmitReviewRequest は復習結果送信リクエストのDTO
type SubmitReviewRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// SchedulingResult はSM-2の計算結果
type SchedulingResult struct {
	Interval       int       `json:"interval"`
	Repetitions    int       `json:"repetitions"`
	EasinessFactor float64   `json:"easiness_factor"`
	NextReviewDate time.Time `json:"next_review_date"`
}

func NewSchedulingResult(s srs.State) SchedulingResult {
	return SchedulingResult{
		Interval:       s.Interval,
		Repetitions:    s.Repetitions,
		EasinessFactor: s.EasinessFactor,
		NextReviewDate: s.NextReviewDate,
	}
}

// SubmitReviewResponse は復習結果送信のレスポンスDTO
type SubmitReviewResponse struct {
	Flashcard          *Flashcard         `json:"flashcard"`
	RepetitionHistory  *RepetitionHistory `json:"repetition_history"`
	SchedulingResult   SchedulingResult   `json:"sm2_result"`
	QualityDescription string             `json:"quality_description"`
}

// DueFlashcardsResponse は復習対象カード一覧のレスポンスDTO
type DueFlashcardsResponse struct {
	Flashcards []*Flashcard `json:"flashcards"`
	Stats      srs.Stats    `json:"stats"`
}
