package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout     = 60 * time.Second
	DefaultMaxUploadSize      = 20 * 1024 * 1024 // 20MB
	DefaultMultipartMemory    = 8 * 1024 * 1024  // 8MB
	DefaultCORSAllowedOrigins = "*"

	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultNameColumnAliases  = "NOME,Nome,Cliente,CLIENTE"
	DefaultPhoneColumnAliases = "TELEFONE,Telefone,Celular"
	DefaultDedupBlankPhones   = false
	DefaultWarmUpTiers        = "30,30,60,60,90,90,180"

	DefaultKafkaEnabled = false
	DefaultKafkaTopic   = "contacts.processed"
)
