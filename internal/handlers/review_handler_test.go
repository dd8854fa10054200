// internal/handlers/review_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"toeic_flashcards/internal/config"
	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/service/mocks"
	"toeic_flashcards/internal/srs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewHandler_SubmitReview(t *testing.T) {
	cardID := uuid.New()
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	next := srs.State{EasinessFactor: 2.6, Repetitions: 1, Interval: 1, NextReviewDate: now.AddDate(0, 0, 1)}
	okResp := &model.SubmitReviewResponse{
		Flashcard:          &model.Flashcard{ID: cardID, UserID: testUserID, EasinessFactor: 2.6, Repetitions: 1, Interval: 1, NextReviewDate: next.NextReviewDate},
		RepetitionHistory:  &model.RepetitionHistory{ID: uuid.New(), FlashcardID: cardID, Quality: 5, ReviewDate: now},
		SchedulingResult:   model.NewSchedulingResult(next),
		QualityDescription: srs.PerfectRecall.Description(),
	}

	tests := []struct {
		name          string
		body          interface{}
		setupMock     func(m *mocks.ReviewService)
		wantStatus    int
		wantErrorCode string
		wantField     string
	}{
		{
			name: "Success - Quality 5",
			body: map[string]interface{}{"quality": 5},
			setupMock: func(m *mocks.ReviewService) {
				m.On("SubmitReview", mock.Anything, testUserID, cardID, 5).Return(okResp, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Success - Quality 0 is accepted",
			body: map[string]interface{}{"quality": 0},
			setupMock: func(m *mocks.ReviewService) {
				m.On("SubmitReview", mock.Anything, testUserID, cardID, 0).Return(okResp, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:          "Failure - Quality above 5",
			body:          map[string]interface{}{"quality": 6},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
			wantField:     "quality",
		},
		{
			name:          "Failure - Negative quality",
			body:          map[string]interface{}{"quality": -1},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
			wantField:     "quality",
		},
		{
			name:          "Failure - Missing quality",
			body:          map[string]interface{}{},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
			wantField:     "quality",
		},
		{
			name:          "Failure - Non-integer quality",
			body:          `{"quality": 3.5}`,
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_REQUEST_BODY",
		},
		{
			name: "Failure - Card not found",
			body: map[string]interface{}{"quality": 3},
			setupMock: func(m *mocks.ReviewService) {
				m.On("SubmitReview", mock.Anything, testUserID, cardID, 3).Return(nil, notFoundErr()).Once()
			},
			wantStatus:    http.StatusNotFound,
			wantErrorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := mocks.NewReviewService(t)
			if tt.setupMock != nil {
				tt.setupMock(rs)
			}
			server := newTestServer(t, testConfig(), mocks.NewFlashcardService(t), rs)

			status, body := sendRequest(t, server, httpRequestDetails{
				Method: http.MethodPost,
				Path:   "/api/v1/flashcards/" + cardID.String() + "/review",
				Body:   tt.body,
			})

			assert.Equal(t, tt.wantStatus, status, "body: %s", string(body))
			if tt.wantErrorCode != "" {
				verifyErrorResponse(t, body, tt.wantErrorCode, tt.wantField)
				return
			}

			var got map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Contains(t, got, "flashcard")
			assert.Contains(t, got, "repetition_history")
			assert.Contains(t, got, "sm2_result")

			var result model.SchedulingResult
			require.NoError(t, json.Unmarshal(got["sm2_result"], &result))
			assert.Equal(t, 1, result.Interval)
			assert.InDelta(t, 2.6, result.EasinessFactor, 1e-9)
		})
	}
}

func TestReviewHandler_SubmitReview_RateLimited(t *testing.T) {
	cardID := uuid.New()
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}

	rs := mocks.NewReviewService(t)
	rs.On("SubmitReview", mock.Anything, testUserID, cardID, 4).
		Return(&model.SubmitReviewResponse{Flashcard: &model.Flashcard{ID: cardID}}, nil).Once()
	server := newTestServer(t, cfg, mocks.NewFlashcardService(t), rs)

	req := httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/api/v1/flashcards/" + cardID.String() + "/review",
		Body:   map[string]interface{}{"quality": 4},
	}
	status, _ := sendRequest(t, server, req)
	assert.Equal(t, http.StatusOK, status)

	status, body := sendRequest(t, server, req)
	assert.Equal(t, http.StatusTooManyRequests, status)
	verifyErrorResponse(t, body, "TOO_MANY_REQUESTS", "")

	// 別の学習者は制限されない (サービスは呼ばれないよう不正な値で止める)
	other := req
	other.Body = map[string]interface{}{"quality": 9}
	other.Headers = map[string]string{model.UserIDHeader: "someone-else"}
	status, _ = sendRequest(t, server, other)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReviewHandler_GetDueFlashcards(t *testing.T) {
	due := &model.DueFlashcardsResponse{
		Flashcards: []*model.Flashcard{{ID: uuid.New()}, {ID: uuid.New()}},
		Stats:      srs.Stats{TotalDue: 5, Overdue: 3, DueToday: 2},
	}

	tests := []struct {
		name          string
		query         string
		setupMock     func(m *mocks.ReviewService)
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:  "Success - Default limit",
			query: "",
			setupMock: func(m *mocks.ReviewService) {
				m.On("GetDueFlashcards", mock.Anything, testUserID, 0).Return(due, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "Success - Explicit limit",
			query: "?limit=2",
			setupMock: func(m *mocks.ReviewService) {
				m.On("GetDueFlashcards", mock.Anything, testUserID, 2).Return(due, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:          "Failure - Non-numeric limit",
			query:         "?limit=ten",
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_QUERY_PARAM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := mocks.NewReviewService(t)
			if tt.setupMock != nil {
				tt.setupMock(rs)
			}
			server := newTestServer(t, testConfig(), mocks.NewFlashcardService(t), rs)

			status, body := sendRequest(t, server, httpRequestDetails{
				Method: http.MethodGet,
				Path:   "/api/v1/flashcards/due" + tt.query,
			})

			assert.Equal(t, tt.wantStatus, status, "body: %s", string(body))
			if tt.wantErrorCode != "" {
				verifyErrorResponse(t, body, tt.wantErrorCode, "limit")
				return
			}

			var got struct {
				Flashcards []*model.Flashcard `json:"flashcards"`
				Stats      map[string]int     `json:"stats"`
			}
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Len(t, got.Flashcards, 2)
			assert.Equal(t, map[string]int{"total_due": 5, "overdue": 3, "due_today": 2}, got.Stats)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	server := newTestServer(t, testConfig(), mocks.NewFlashcardService(t), mocks.NewReviewService(t))

	status, body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/health"})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","version":"`+config.AppVersion+`"}`, string(body))
}
