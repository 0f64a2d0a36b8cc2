package config

const (
	ADDR                  = "ADDR"
	METRICS_ADDR          = "METRICS_ADDR"
	PPROF_ADDR            = "PPROF_ADDR"
	IS_DEV                = "IS_DEV"
	LOG_LEVEL             = "LOG_LEVEL"
	LOG_FORMAT            = "LOG_FORMAT"
	LOG_FILE              = "LOG_FILE"
	FETCH_TIMEOUT         = "FETCH_TIMEOUT"
	USER_AGENT            = "USER_AGENT"
	MAX_BODY_BYTES        = "MAX_BODY_BYTES"
	RATE_LIMIT_RPS        = "RATE_LIMIT_RPS"
	RATE_LIMIT_BURST      = "RATE_LIMIT_BURST"
	FREE_AUDITS_PER_DAY   = "FREE_AUDITS_PER_DAY"
	ENTITLEMENT_TTL       = "ENTITLEMENT_TTL"
	STRIPE_SECRET_KEY     = "STRIPE_SECRET_KEY"
	STRIPE_WEBHOOK_SECRET = "STRIPE_WEBHOOK_SECRET"
	BASIC_AUTH_USER       = "BASIC_AUTH_USER"
	BASIC_AUTH_PASS       = "BASIC_AUTH_PASS"
	TRUSTED_PROXIES       = "TRUSTED_PROXIES"
	CORS_ALLOWED_ORIGIN   = "CORS_ALLOWED_ORIGIN"
)
