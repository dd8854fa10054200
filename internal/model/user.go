package model

type ContextKey string

const (
	// UserIDKey はリクエストコンテキストに学習者IDを格納するキー。
	// 学習者IDは外部システムから渡される不透明な文字列として扱う。
	UserIDKey ContextKey = "userID"

	// UserIDHeader は学習者IDを受け取るリクエストヘッダー
	UserIDHeader = "X-User-ID"
)
