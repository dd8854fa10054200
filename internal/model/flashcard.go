// internal/model/flashcard.go
package model

import (
	"time"

	"toeic_flashcards/internal/srs"

	"github.com/google/uuid"
)

// Flashcard は学習者ごとのフラッシュカードと、そのSM-2スケジューリング状態を表します
type Flashcard struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string    `gorm:"type:varchar(255);not null;index" json:"user_id"`
	FrontContent   string    `gorm:"type:text;not null" json:"front_content"`
	BackContent    string    `gorm:"type:text;not null" json:"back_content"`
	ImageURL       *string   `gorm:"type:text" json:"image_url,omitempty"`
	AudioURL       *string   `gorm:"type:text" json:"audio_url,omitempty"`
	EasinessFactor float64   `gorm:"not null;default:2.5" json:"easiness_factor"`
	Repetitions    int       `gorm:"not null;default:0" json:"repetitions"`
	Interval       int       `gorm:"not null;default:1" json:"interval"`
	NextReviewDate time.Time `gorm:"not null;index" json:"next_review_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// 関連 (Preload用)
	RepetitionHistory []RepetitionHistory `gorm:"foreignKey:FlashcardID;references:ID;constraint:OnDelete:CASCADE" json:"repetition_history,omitempty"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// DueAt と Key は srs.Card を満たすためのメソッド
func (f *Flashcard) DueAt() time.Time { return f.NextReviewDate }
func (f *Flashcard) Key() string      { return f.ID.String() }

// SchedulingState はカードの記憶状態を取り出します
func (f *Flashcard) SchedulingState() srs.State {
	return srs.State{
		EasinessFactor: f.EasinessFactor,
		Repetitions:    f.Repetitions,
		Interval:       f.Interval,
		NextReviewDate: f.NextReviewDate,
	}
}

// ApplySchedulingState は計算済みの記憶状態をカードに反映します
func (f *Flashcard) ApplySchedulingState(s srs.State) {
	f.EasinessFactor = s.EasinessFactor
	f.Repetitions = s.Repetitions
	f.Interval = s.Interval
	f.NextReviewDate = s.NextReviewDate
}

// TrimHistory は履歴を先頭から limit 件に切り詰めます (0以下なら何もしない)
func (f *Flashcard) TrimHistory(limit int) {
	if limit > 0 && len(f.RepetitionHistory) > limit {
		f.RepetitionHistory = f.RepetitionHistory[:limit]
	}
}

// フラッシュカード作成リクエストDTO
type PostFlashcardRequest struct {
	FrontContent string  `json:"front_content" validate:"required,max=2000"`
	BackContent  string  `json:"back_content" validate:"required,max=2000"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	AudioURL     *string `json:"audio_url,omitempty" validate:"omitempty,url"`
}

// フラッシュカード更新（全体）リクエストDTO
type PutFlashcardRequest struct {
	FrontContent string  `json:"front_content" validate:"required,max=2000"`
	BackContent  string  `json:"back_content" validate:"required,max=2000"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	AudioURL     *string `json:"audio_url,omitempty" validate:"omitempty,url"`
}

// ListFlashcardsOptions は一覧取得時の絞り込み条件
type ListFlashcardsOptions struct {
	DueOnly bool
	Limit   int // 0 は無制限
}
