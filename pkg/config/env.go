package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout     = "REQUEST_TIMEOUT"
	EnvMaxUploadSize      = "MAX_UPLOAD_SIZE"
	EnvMultipartMemory    = "MULTIPART_MEMORY"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvTempDir            = "TEMP_DIR"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvNameColumnAliases  = "NAME_COLUMN_ALIASES"
	EnvPhoneColumnAliases = "PHONE_COLUMN_ALIASES"
	EnvDefaultAreaCode    = "DEFAULT_AREA_CODE"
	EnvDedupBlankPhones   = "DEDUP_BLANK_PHONES"
	EnvWarmUpTiers        = "WARMUP_TIERS"

	EnvKafkaEnabled = "KAFKA_ENABLED"
	EnvKafkaTopic   = "KAFKA_PROCESSED_TOPIC"
)
