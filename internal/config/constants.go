// internal/config/constants.go
package config

import "strings"

// アプリケーション情報
const (
	AppName    = "toeic-flashcards"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultLogLevel          = "info"
	DefaultAppReviewLimit    = 20
	DefaultAppMaxReviewLimit = 100
	DefaultTimezone          = "UTC"
	DefaultRateLimitRPS      = 5.0
	DefaultRateLimitBurst    = 10
)

// "database.url" -> APP_DATABASE_URL
var envKeyReplacer = strings.NewReplacer(".", "_")
