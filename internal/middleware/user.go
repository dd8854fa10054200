// internal/middleware/user.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/webutil"
)

const maxUserIDLength = 255

// UserContextMiddleware は X-User-ID ヘッダーから学習者IDを取り出し、コンテキストに設定します。
// 学習者IDは不透明な文字列として扱い、存在チェックや認証は行いません。
func UserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userID := strings.TrimSpace(r.Header.Get(model.UserIDHeader))
		if userID == "" {
			logger.Warn("User context missing", "header", model.UserIDHeader)
			appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDヘッダーが必要です。", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}
		if len(userID) > maxUserIDLength {
			logger.Warn("User ID too long", "length", len(userID))
			appErr := model.NewAppError("INVALID_HEADER", "X-User-IDが長すぎます。", model.UserIDHeader, model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}

		ctx := WithUserID(r.Context(), userID)
		ctx = WithLogger(ctx, logger.With("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUserID は学習者IDを格納したコンテキストを返します。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, model.UserIDKey, userID)
}

func GetUserIDFromContext(ctx context.Context) (string, error) {
	value, ok := ctx.Value(model.UserIDKey).(string)
	if !ok || value == "" {
		// コンテキストに学習者IDが見つからない（ミドルウェアが適用されていない等）
		return "", model.NewAppError("UNAUTHORIZED", "コンテキストから学習者情報を取得できませんでした。", "", model.ErrUnauthorized)
	}
	return value, nil
}
