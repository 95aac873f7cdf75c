package config

import "errors"

var (
	ErrBaseURLEmpty         = errors.New("NOTEHUB_BASE_URL cannot be empty")
	ErrPerPageRange         = errors.New("NOTES_PER_PAGE must be between 1 and 100")
	ErrDebounceRange        = errors.New("SEARCH_DEBOUNCE_MS must be greater than 0")
	ErrHTTPTimeoutRange     = errors.New("HTTP_TIMEOUT_SEC must be greater than 0")
	ErrCacheFreshRange      = errors.New("CACHE_FRESH_SEC must be greater than or equal to 0")
	ErrCacheMaxEntriesRange = errors.New("CACHE_MAX_ENTRIES must be greater than 0")
	ErrLogLevelEmpty        = errors.New("LOG_LEVEL cannot be empty")
	ErrLogFormatEmpty       = errors.New("LOG_FORMAT cannot be empty")
	ErrDevHubPortRange      = errors.New("DEVHUB_PORT must be between 1 and 65535")
	ErrDevHubSecretTooShort = errors.New("DEVHUB_JWT_SECRET must be at least 32 characters")
	ErrDevHubSeedRange      = errors.New("DEVHUB_SEED_NOTES must be greater than or equal to 0")
	ErrWSMaxSessionRange    = errors.New("WS_MAX_SESSION_SEC must be greater than 0")
	ErrWSOutboxBufferRange  = errors.New("WS_OUTBOX_BUFFER must be greater than 0")
)
