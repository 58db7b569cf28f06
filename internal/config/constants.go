// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "course-hub"
	AppVersion = "0.4.0"
)

// デフォルト設定値
const (
	DefaultServerPort           = ":8080"
	DefaultLogLevel             = "info"
	DefaultAuthEnabled          = false
	DefaultRetryMaxRetries      = 3
	DefaultRetryInitialInterval = 2 * time.Second
	DefaultRetryMultiplier      = 2.0
)
