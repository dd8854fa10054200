package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// ボディをログに載せる上限
const maxLogBodySizeBytes = 2048

// sensitiveHeaders はログ出力時に値をマスキングするヘッダー名のリストです (小文字で定義)。
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
	"x-csrf-token":  true,
}

// bodyRecorder は http.ResponseWriter をラップし、ステータスコードとレスポンスボディを記録します。
type bodyRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func newBodyRecorder(w http.ResponseWriter) *bodyRecorder {
	return &bodyRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           new(bytes.Buffer),
	}
}

func (br *bodyRecorder) WriteHeader(statusCode int) {
	br.statusCode = statusCode
	br.ResponseWriter.WriteHeader(statusCode)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	n, err := br.ResponseWriter.Write(b)
	if n > 0 {
		br.body.Write(b[:n])
	}
	return n, err
}

// DetailLoggingMiddleware はリクエスト/レスポンスのヘッダーとボディをログに出力します。
// 正常系は Debug、4xx は Warn、5xx は Error で出力します。
func DetailLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		var reqBody []byte
		if r.Body != nil {
			var err error
			reqBody, err = io.ReadAll(r.Body)
			if err != nil {
				logger.Error("Failed to read request body in middleware", slog.Any("error", err))
			}
			r.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		rec := newBodyRecorder(w)
		next.ServeHTTP(rec, r)

		logLevel := slog.LevelDebug
		if rec.statusCode >= 500 {
			logLevel = slog.LevelError
		} else if rec.statusCode >= 400 {
			logLevel = slog.LevelWarn
		}
		if !logger.Enabled(r.Context(), logLevel) {
			return
		}

		logger.LogAttrs(r.Context(), logLevel, "HTTP exchange detail",
			slog.String("method", r.Method),
			slog.String("uri", r.RequestURI),
			slog.Int("status_code", rec.statusCode),
			headerGroup("request_headers", r.Header),
			bodyAttr("request_body", r.Header.Get("Content-Type"), reqBody),
			headerGroup("response_headers", rec.Header()),
			bodyAttr("response_body", rec.Header().Get("Content-Type"), rec.body.Bytes()),
		)
	})
}

func headerGroup(name string, headers http.Header) slog.Attr {
	formatted := formatHeaders(headers)
	attrs := make([]any, 0, len(formatted))
	for k, v := range formatted {
		attrs = append(attrs, slog.String(k, v))
	}
	return slog.Group(name, attrs...)
}

func bodyAttr(name, contentType string, body []byte) slog.Attr {
	switch {
	case len(body) == 0:
		return slog.String(name, "(empty body)")
	case len(body) > maxLogBodySizeBytes:
		return slog.String(name, fmt.Sprintf("[body too large to log: %d bytes, limit: %d bytes]", len(body), maxLogBodySizeBytes))
	case strings.HasPrefix(contentType, "application/json"):
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return slog.String(name, fmt.Sprintf("[unparseable JSON body: %d bytes, error: %v]", len(body), err))
		}
		return slog.Any(name, data)
	case strings.HasPrefix(contentType, "text/"):
		return slog.String(name, string(body))
	default:
		return slog.String(name, fmt.Sprintf("[non-JSON body: %d bytes, Content-Type: %s]", len(body), contentType))
	}
}

// formatHeaders はヘッダー情報をログ出力用に整形・マスキングするヘルパー関数
func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		lowerKey := strings.ToLower(key)
		logKey := strings.ReplaceAll(lowerKey, "-", "_")
		if sensitiveHeaders[lowerKey] {
			result[logKey] = "[SENSITIVE]"
		} else {
			result[logKey] = strings.Join(values, ", ")
		}
	}
	return result
}
