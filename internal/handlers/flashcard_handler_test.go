// internal/handlers/flashcard_handler_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notFoundErr() error {
	return model.NewAppError("NOT_FOUND", "フラッシュカードが見つかりません。", "", model.ErrNotFound)
}

func TestFlashcardHandler_PostFlashcard(t *testing.T) {
	imageURL := "https://example.com/meeting.png"
	validReq := model.PostFlashcardRequest{
		FrontContent: "meeting minutes",
		BackContent:  "議事録",
		ImageURL:     &imageURL,
	}
	created := &model.Flashcard{
		ID:             uuid.New(),
		UserID:         testUserID,
		FrontContent:   validReq.FrontContent,
		BackContent:    validReq.BackContent,
		ImageURL:       &imageURL,
		EasinessFactor: 2.5,
		Interval:       1,
		NextReviewDate: time.Now().UTC(),
	}

	tests := []struct {
		name          string
		body          interface{}
		headers       map[string]string
		setupMock     func(m *mocks.FlashcardService)
		wantStatus    int
		wantErrorCode string
		wantField     string
	}{
		{
			name: "Success - Valid request",
			body: validReq,
			setupMock: func(m *mocks.FlashcardService) {
				m.On("CreateFlashcard", mock.Anything, testUserID, &validReq).Return(created, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:          "Failure - Missing front_content",
			body:          map[string]interface{}{"back_content": "議事録"},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
			wantField:     "front_content",
		},
		{
			name:          "Failure - Invalid image_url",
			body:          map[string]interface{}{"front_content": "a", "back_content": "b", "image_url": "not a url"},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
			wantField:     "image_url",
		},
		{
			name:          "Failure - Unknown field",
			body:          map[string]interface{}{"front_content": "a", "back_content": "b", "deck": "x"},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_REQUEST_BODY",
		},
		{
			name:          "Failure - Malformed JSON",
			body:          `{"front_content": "a",`,
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_REQUEST_BODY",
		},
		{
			name:          "Failure - Missing user header",
			body:          validReq,
			headers:       map[string]string{model.UserIDHeader: ""},
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "UNAUTHORIZED",
		},
		{
			name: "Failure - Service error",
			body: validReq,
			setupMock: func(m *mocks.FlashcardService) {
				m.On("CreateFlashcard", mock.Anything, testUserID, &validReq).
					Return(nil, model.NewAppError("INTERNAL_SERVER_ERROR", "作成に失敗しました。", "", model.ErrInternalServer)).Once()
			},
			wantStatus:    http.StatusInternalServerError,
			wantErrorCode: "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFlashcardService(t)
			rs := mocks.NewReviewService(t)
			if tt.setupMock != nil {
				tt.setupMock(fs)
			}
			server := newTestServer(t, testConfig(), fs, rs)

			status, body := sendRequest(t, server, httpRequestDetails{
				Method:  http.MethodPost,
				Path:    "/api/v1/flashcards",
				Body:    tt.body,
				Headers: tt.headers,
			})

			assert.Equal(t, tt.wantStatus, status, "body: %s", string(body))
			if tt.wantErrorCode != "" {
				verifyErrorResponse(t, body, tt.wantErrorCode, tt.wantField)
				return
			}
			var got model.Flashcard
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, "議事録", got.BackContent)
			assert.Equal(t, 2.5, got.EasinessFactor)
		})
	}
}

func TestFlashcardHandler_PostFlashcard_TranslatedMessage(t *testing.T) {
	fs := mocks.NewFlashcardService(t)
	server := newTestServer(t, testConfig(), fs, mocks.NewReviewService(t))

	status, body := sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/api/v1/flashcards",
		Body:   map[string]interface{}{"back_content": "b"},
	})

	require.Equal(t, http.StatusBadRequest, status)
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "表面は必須項目です。", errResp.Error.Message)
}

func TestFlashcardHandler_GetFlashcards(t *testing.T) {
	cards := []*model.Flashcard{
		{ID: uuid.New(), UserID: testUserID, FrontContent: "deadline"},
		{ID: uuid.New(), UserID: testUserID, FrontContent: "quarterly"},
	}

	tests := []struct {
		name          string
		query         string
		setupMock     func(m *mocks.FlashcardService)
		wantStatus    int
		wantCount     int
		wantErrorCode string
	}{
		{
			name:  "Success - No filter",
			query: "",
			setupMock: func(m *mocks.FlashcardService) {
				m.On("ListFlashcards", mock.Anything, testUserID, model.ListFlashcardsOptions{}).Return(cards, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:  "Success - due_only and limit",
			query: "?due_only=true&limit=5",
			setupMock: func(m *mocks.FlashcardService) {
				m.On("ListFlashcards", mock.Anything, testUserID, model.ListFlashcardsOptions{DueOnly: true, Limit: 5}).
					Return(cards[:1], nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:  "Success - Empty list is an array",
			query: "",
			setupMock: func(m *mocks.FlashcardService) {
				m.On("ListFlashcards", mock.Anything, testUserID, model.ListFlashcardsOptions{}).Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:          "Failure - Invalid due_only",
			query:         "?due_only=maybe",
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_QUERY_PARAM",
		},
		{
			name:          "Failure - Negative limit",
			query:         "?limit=-1",
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_QUERY_PARAM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFlashcardService(t)
			if tt.setupMock != nil {
				tt.setupMock(fs)
			}
			server := newTestServer(t, testConfig(), fs, mocks.NewReviewService(t))

			status, body := sendRequest(t, server, httpRequestDetails{
				Method: http.MethodGet,
				Path:   "/api/v1/flashcards" + tt.query,
			})

			assert.Equal(t, tt.wantStatus, status, "body: %s", string(body))
			if tt.wantErrorCode != "" {
				verifyErrorResponse(t, body, tt.wantErrorCode, "")
				return
			}
			var got []*model.Flashcard
			require.NoError(t, json.Unmarshal(body, &got))
			assert.NotNil(t, got)
			assert.Len(t, got, tt.wantCount)
		})
	}
}

func TestFlashcardHandler_GetFlashcard(t *testing.T) {
	cardID := uuid.New()
	card := &model.Flashcard{
		ID:     cardID,
		UserID: testUserID,
		RepetitionHistory: []model.RepetitionHistory{
			{ID: uuid.New(), FlashcardID: cardID, Quality: 5, ReviewDate: time.Now().UTC()},
		},
	}

	tests := []struct {
		name          string
		path          string
		setupMock     func(m *mocks.FlashcardService)
		wantStatus    int
		wantErrorCode string
	}{
		{
			name: "Success",
			path: "/api/v1/flashcards/" + cardID.String(),
			setupMock: func(m *mocks.FlashcardService) {
				m.On("GetFlashcard", mock.Anything, testUserID, cardID).Return(card, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Failure - Not found",
			path: "/api/v1/flashcards/" + cardID.String(),
			setupMock: func(m *mocks.FlashcardService) {
				m.On("GetFlashcard", mock.Anything, testUserID, cardID).Return(nil, notFoundErr()).Once()
			},
			wantStatus:    http.StatusNotFound,
			wantErrorCode: "NOT_FOUND",
		},
		{
			name:          "Failure - Invalid UUID",
			path:          "/api/v1/flashcards/not-a-uuid",
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_URL_PARAM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFlashcardService(t)
			if tt.setupMock != nil {
				tt.setupMock(fs)
			}
			server := newTestServer(t, testConfig(), fs, mocks.NewReviewService(t))

			status, body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: tt.path})

			assert.Equal(t, tt.wantStatus, status, "body: %s", string(body))
			if tt.wantErrorCode != "" {
				verifyErrorResponse(t, body, tt.wantErrorCode, "")
				return
			}
			var got model.Flashcard
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, cardID, got.ID)
			assert.Len(t, got.RepetitionHistory, 1)
		})
	}
}

func TestFlashcardHandler_PutFlashcard(t *testing.T) {
	cardID := uuid.New()
	validReq := model.PutFlashcardRequest{FrontContent: "invoice", BackContent: "請求書"}

	tests := []struct {
		name          string
		body          interface{}
		setupMock     func(m *mocks.FlashcardService)
		wantStatus    int
		wantErrorCode string
	}{
		{
			name: "Success",
			body: validReq,
			setupMock: func(m *mocks.FlashcardService) {
				m.On("PutFlashcard", mock.Anything, testUserID, cardID, &validReq).
					Return(&model.Flashcard{ID: cardID, FrontContent: "invoice", BackContent: "請求書"}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:          "Failure - Empty back_content",
			body:          map[string]interface{}{"front_content": "invoice", "back_content": ""},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
		},
		{
			name: "Failure - Not found",
			body: validReq,
			setupMock: func(m *mocks.FlashcardService) {
				m.On("PutFlashcard", mock.Anything, testUserID, cardID, &validReq).Return(nil, notFoundErr()).Once()
			},
			wantStatus:    http.StatusNotFound,
			wantErrorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFlashcardService(t)
			if tt.setupMock != nil {
				tt.setupMock(fs)
			}
			server := newTestServer(t, testConfig(), fs, mocks.NewReviewService(t))

			status, body := sendRequest(t, server, httpRequestDetails{
				Method: http.MethodPut,
				Path:   "/api/v1/flashcards/" + cardID.String(),
				Body:   tt.body,
			})

			assert.Equal(t, tt.wantStatus, status, "body: %s", string(body))
			if tt.wantErrorCode != "" {
				verifyErrorResponse(t, body, tt.wantErrorCode, "")
			}
		})
	}
}

func TestFlashcardHandler_DeleteFlashcard(t *testing.T) {
	cardID := uuid.New()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "Success", serviceErr: nil, wantStatus: http.StatusNoContent},
		{name: "Failure - Not found", serviceErr: notFoundErr(), wantStatus: http.StatusNotFound},
		{name: "Failure - Unexpected error", serviceErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFlashcardService(t)
			fs.On("DeleteFlashcard", mock.Anything, testUserID, cardID).Return(tt.serviceErr).Once()
			server := newTestServer(t, testConfig(), fs, mocks.NewReviewService(t))

			status, body := sendRequest(t, server, httpRequestDetails{
				Method: http.MethodDelete,
				Path:   "/api/v1/flashcards/" + cardID.String(),
			})

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus == http.StatusNoContent {
				assert.Empty(t, body)
			}
		})
	}
}
