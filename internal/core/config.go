package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetCatalogPath() string
	GetHTTPAddr() string
	IsTelegramSelected() bool
	IsCLISelected() bool
	IsHTTPSelected() bool
}

type ChatConfig interface {
	GetScoreThreshold() float64
}

type SessionConfig interface {
	GetHistoryCap() int
	GetIdleTimeout() time.Duration
	GetSweepInterval() time.Duration
}

type NLUConfig interface {
	GetEngine() string
	GetRemoteURL() string
	GetLanguage() string
}

type TelegramConfig interface {
	GetTelegramToken() string
}
