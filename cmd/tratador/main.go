package main

import (
	"tratador/internal/contacts/handler"
	"tratador/internal/contacts/pipeline"
	"tratador/internal/contacts/service"
	"tratador/internal/contacts/validator"
	"tratador/pkg/app"
	"tratador/pkg/config"
	"tratador/pkg/kafka"
	kafkamiddleware "tratador/pkg/kafka/middleware"
	"tratador/pkg/locale"
	"tratador/pkg/metrics"
	"tratador/pkg/sanitizer"
)

const serviceName = "tratador"

func main() {
	cfg := config.Load(serviceName)
	cfg.Log.Info("Starting contact processing service")

	m := metrics.New()
	application := app.NewApplication(cfg, m)

	publisher := initPublisher(cfg, m, application)
	processingService := initServices(cfg, m, publisher)

	application.SetApp(
		handler.NewHealthHandler(cfg.TempDir, cfg.Log),
		handler.NewProcessHandler(processingService, cfg.MultipartMemory, cfg.Log),
	)
	application.Run()
}

// initPublisher returns nil when Kafka is disabled so the service skips events.
func initPublisher(cfg *config.Config, m *metrics.Metrics, application *app.Application) service.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, processed events will not be published")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.KafkaTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err, "topic", cfg.KafkaTopic)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware(m.EventsPublished, m.EventPublishDuration))
	application.OnShutdown(producer)

	cfg.Log.Info("Kafka producer initialized", "topic", producer.Topic())
	return producer
}

func initServices(cfg *config.Config, m *metrics.Metrics, publisher service.EventPublisher) service.ProcessingService {
	country, ok := locale.Lookup(locale.DefaultRegion)
	if !ok {
		cfg.Log.Fatal("Unknown default region", "region", locale.DefaultRegion)
	}

	pipe := pipeline.New(pipeline.Config{
		Aliases:          pipeline.NewColumnAliases(cfg.NameColumnAliases, cfg.PhoneColumnAliases),
		Phones:           sanitizer.NewPhoneFormatter(country, cfg.DefaultAreaCode),
		DedupBlankPhones: cfg.DedupBlankPhones,
	})
	requestValidator := validator.NewRequestValidator(cfg.Log)

	processingService := service.NewProcessingService(pipe, requestValidator, publisher, m, cfg)
	cfg.Log.Info("Processing service initialized")
	return processingService
}
