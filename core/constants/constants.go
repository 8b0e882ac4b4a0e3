package constants

import "time"

const (
	DefaultTimeout        = 10 * time.Second
	DefaultRequestTimeout = 5 * time.Second

	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes

	ContextTokenData = "token_data"
	ScopeTokenAccess = "access"
)

// Redis keys
const (
	RedisKeyPendingEvents = "events:pending"
	RedisKeySweepLock     = "lock:expire_suspended"
	RedisKeyOAuthState    = "oauth:state:"

	PendingEventsTTL = 5 * time.Minute
	SweepLockTTL     = 5 * time.Minute
	OAuthStateTTL    = 10 * time.Minute
)
