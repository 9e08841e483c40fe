package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	kafka_config "tratador/pkg/kafka/config"
	"tratador/pkg/locale"
	"tratador/pkg/logger"
)

type Config struct {
	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout     time.Duration
	MaxUploadSize      int64
	MultipartMemory    int64
	CORSAllowedOrigins []string
	TempDir            string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	NameColumnAliases  []string
	PhoneColumnAliases []string
	CountryCode        string
	DefaultAreaCode    string
	DedupBlankPhones   bool
	WarmUpTiers        []int

	KafkaEnabled bool
	KafkaTopic   string

	Log   *logger.Logger
	Kafka *kafka_config.Config
}

func Load(serviceName string) *Config {
	region := locale.Countries[locale.DefaultRegion]

	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:     getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxUploadSize:      int64(getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize)),
		MultipartMemory:    int64(getEnvNum(EnvMultipartMemory, DefaultMultipartMemory)),
		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),
		TempDir:            getEnvStr(EnvTempDir, os.TempDir()),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		NameColumnAliases:  getEnvList(EnvNameColumnAliases, DefaultNameColumnAliases),
		PhoneColumnAliases: getEnvList(EnvPhoneColumnAliases, DefaultPhoneColumnAliases),
		CountryCode:        region.CallingCode,
		DefaultAreaCode:    getEnvStr(EnvDefaultAreaCode, region.DefaultAreaCode),
		DedupBlankPhones:   getEnvBool(EnvDedupBlankPhones, DefaultDedupBlankPhones),
		WarmUpTiers:        getEnvIntList(EnvWarmUpTiers, DefaultWarmUpTiers),

		KafkaEnabled: getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if cfg.KafkaEnabled {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal(err.Error())
		}
		cfg.Kafka = kafkaCfg
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxUploadSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxUploadSize must be positive, got: %d", cfg.MaxUploadSize))
	}
	if cfg.MultipartMemory <= 0 {
		errors = append(errors, fmt.Sprintf("MultipartMemory must be positive, got: %d", cfg.MultipartMemory))
	}
	if cfg.TempDir == "" {
		errors = append(errors, "TempDir cannot be empty")
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(cfg.NameColumnAliases) == 0 {
		errors = append(errors, "NameColumnAliases must list at least one column name")
	}
	if len(cfg.PhoneColumnAliases) == 0 {
		errors = append(errors, "PhoneColumnAliases must list at least one column name")
	}

	region := locale.Countries[locale.DefaultRegion]
	if !region.IsValidAreaCode(cfg.DefaultAreaCode) {
		errors = append(errors, fmt.Sprintf("DefaultAreaCode must be a valid %s area code, got: %s", region.Name, cfg.DefaultAreaCode))
	}

	if len(cfg.WarmUpTiers) == 0 {
		errors = append(errors, "WarmUpTiers must list at least one tier size")
	}
	for i, tier := range cfg.WarmUpTiers {
		if tier <= 0 {
			errors = append(errors, fmt.Sprintf("WarmUpTiers[%d] must be positive, got: %d", i, tier))
		}
	}

	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		errors = append(errors, "KafkaTopic cannot be empty when Kafka is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_upload_size", cfg.MaxUploadSize,
		"multipart_memory", cfg.MultipartMemory,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"temp_dir", cfg.TempDir,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"name_column_aliases", cfg.NameColumnAliases,
		"phone_column_aliases", cfg.PhoneColumnAliases,
		"country_code", cfg.CountryCode,
		"default_area_code", cfg.DefaultAreaCode,
		"dedup_blank_phones", cfg.DedupBlankPhones,
		"warmup_tiers", cfg.WarmUpTiers,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_topic", cfg.KafkaTopic,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blank entries. Order is kept.
func getEnvList(key, fallback string) []string {
	return splitList(getEnvStr(key, fallback))
}

// getEnvIntList parses a comma separated list of integers. An unparseable entry
// is kept as 0 so Validate reports it instead of silently dropping the tier.
func getEnvIntList(key, fallback string) []int {
	items := splitList(getEnvStr(key, fallback))
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
