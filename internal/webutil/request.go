package webutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"toeic_flashcards/internal/model"
)

// リクエストボディの最大サイズ
const maxBodyBytes = 1 << 20

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドは拒否します。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("empty request body: %w", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %v: %w", err, model.ErrInvalidInput)
	}
	return nil
}

// QueryInt はクエリパラメータを整数として読み取ります。未指定なら def を返します。
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewAppError("INVALID_QUERY_PARAM", key+"は整数で指定してください。", key, model.ErrInvalidInput)
	}
	return v, nil
}

// QueryBool はクエリパラメータを真偽値として読み取ります。未指定なら false を返します。
func QueryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.NewAppError("INVALID_QUERY_PARAM", key+"はtrueまたはfalseで指定してください。", key, model.ErrInvalidInput)
	}
	return v, nil
}
