// helpers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toeic_flashcards/internal/config"
	"toeic_flashcards/internal/handlers"
	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "learner-42"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// okPinger は常に成功するヘルスチェック用の依存先
type okPinger struct{ err error }

func (p okPinger) PingContext(context.Context) error { return p.err }

// testConfig はレート制限なしの最小設定
func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{ReviewLimit: 20, MaxReviewLimit: 100},
	}
}

// newTestServer はサービスを差し替えたルーター全体を起動します
func newTestServer(t *testing.T, cfg *config.Config, fs service.FlashcardService, rs service.ReviewService) *httptest.Server {
	t.Helper()
	router := handlers.NewRouter(cfg, discardLogger,
		handlers.NewFlashcardHandler(fs, discardLogger),
		handlers.NewReviewHandler(rs, discardLogger),
		handlers.NewHealthHandler(okPinger{}, discardLogger),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// sendRequest はHTTPリクエストを送信し、ステータスコードとボディを返します。
// X-User-ID はヘッダー指定がなければ testUserID を付けます。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails) (int, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if _, ok := details.Headers[model.UserIDHeader]; !ok {
		req.Header.Set(model.UserIDHeader, testUserID)
	}
	for key, value := range details.Headers {
		if value == "" {
			req.Header.Del(key)
			continue
		}
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	return resp.StatusCode, respBodyBytes
}

// verifyErrorResponse はエラーレスポンスのコードとフィールドを検証します。
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedCode, expectedField string) {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "body: %s", string(bodyBytes))
	assert.Equal(t, expectedCode, errResp.Error.Code)
	if expectedField != "" {
		assert.Equal(t, expectedField, errResp.Error.Field)
	}
	assert.NotEmpty(t, errResp.Error.Message)
}
