package service

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	contactserrors "tratador/internal/contacts/errors"
	"tratador/internal/contacts/pipeline"
	"tratador/internal/contacts/validator"
	"tratador/pkg/config"
	apperrors "tratador/pkg/errors"
	"tratador/pkg/kafka"
	"tratador/pkg/metrics"
	"tratador/pkg/spreadsheet"
)

// OutputPrefix is prepended to the uploaded filename for the download.
const OutputPrefix = "[TRATADO]"

const (
	EventTypeProcessed = "contacts.processed"
	EventSchemaVersion = "1"
	EventSource        = "tratador"
)

const (
	OutcomeSuccess       = "success"
	OutcomeMissingColumn = "missing_column"
	OutcomeInvalidParam  = "invalid_parameter"
	OutcomeReadError     = "read_error"
	OutcomeError         = "error"
)

type ProcessingService interface {
	Process(ctx context.Context, req *validator.ProcessRequest, file io.Reader) (*Output, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Output is a processed spreadsheet waiting on disk to be sent. The caller
// owns the file and must call Cleanup once the response is written.
type Output struct {
	Path        string
	Filename    string
	ContentType string
	Summary     pipeline.Summary
}

func (o *Output) Cleanup() error {
	if err := os.Remove(o.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type ProcessedEvent struct {
	RequestID   string           `json:"request_id,omitempty"`
	Filename    string           `json:"filename"`
	Label       string           `json:"etiqueta_nome"`
	GroupSize   int              `json:"num_grupos,omitempty"`
	Summary     pipeline.Summary `json:"summary"`
	ProcessedAt time.Time        `json:"processed_at"`
}

type processingService struct {
	pipeline  *pipeline.Pipeline
	validator *validator.RequestValidator
	publisher EventPublisher
	metrics   *metrics.Metrics
	cfg       *config.Config
}

// NewProcessingService wires the pipeline to its boundaries. publisher may be
// nil, in which case no events are emitted.
func NewProcessingService(
	pipe *pipeline.Pipeline,
	validator *validator.RequestValidator,
	publisher EventPublisher,
	m *metrics.Metrics,
	cfg *config.Config,
) ProcessingService {
	return &processingService{
		pipeline:  pipe,
		validator: validator,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

func (s *processingService) Process(ctx context.Context, req *validator.ProcessRequest, file io.Reader) (*Output, error) {
	log := s.cfg.Log.WithRequestID(req.RequestID)
	mode := modeOf(req)
	start := time.Now()

	output, err := s.process(ctx, req, file)
	if err != nil {
		appErr := toAppError(err)
		s.metrics.Uploads.WithLabelValues(mode, outcomeOf(err)).Inc()
		if appErr.StatusCode() >= 500 {
			log.Error("Failed to process upload",
				"filename", req.Filename,
				"mode", mode,
				"error", err,
			)
		} else {
			log.Warn("Upload rejected",
				"filename", req.Filename,
				"mode", mode,
				"error", err,
			)
		}
		return nil, appErr
	}

	sum := output.Summary
	s.metrics.Uploads.WithLabelValues(mode, OutcomeSuccess).Inc()
	s.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	s.metrics.GroupsAssigned.Observe(float64(sum.Groups))
	s.metrics.RowsTotal.WithLabelValues(metrics.StageRead).Add(float64(sum.RowsIn))
	s.metrics.RowsTotal.WithLabelValues(metrics.StageInvalidPhone).Add(float64(sum.InvalidPhones))
	s.metrics.RowsTotal.WithLabelValues(metrics.StageDuplicate).Add(float64(sum.Duplicates))
	s.metrics.RowsTotal.WithLabelValues(metrics.StageWritten).Add(float64(sum.RowsOut))

	log.Info("Upload processed successfully",
		"filename", req.Filename,
		"etiqueta", req.Label,
		"mode", sum.Mode,
		"name_column", sum.NameColumn,
		"phone_column", sum.PhoneColumn,
		"rows_in", sum.RowsIn,
		"rows_out", sum.RowsOut,
		"duplicates_removed", sum.Duplicates,
		"invalid_phones", sum.InvalidPhones,
		"groups", sum.Groups,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.publish(ctx, req, sum)
	return output, nil
}

func (s *processingService) process(ctx context.Context, req *validator.ProcessRequest, file io.Reader) (*Output, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	strategy, err := s.strategy(req)
	if err != nil {
		return nil, err
	}

	format := spreadsheet.DetectFormat(req.Filename)
	table, err := spreadsheet.Read(format, file)
	if err != nil {
		return nil, &contactserrors.ReadError{Filename: req.Filename, Err: err}
	}

	result, err := s.pipeline.Run(table, req.Label, strategy)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := spreadsheet.WriteTempFile(s.cfg.TempDir, format, result.Table())
	if err != nil {
		return nil, apperrors.Internal("Failed to write processed spreadsheet", err)
	}

	return &Output{
		Path:        path,
		Filename:    OutputPrefix + req.Filename,
		ContentType: format.ContentType(),
		Summary:     result.Summary,
	}, nil
}

func (s *processingService) strategy(req *validator.ProcessRequest) (pipeline.Strategy, error) {
	if req.WarmUp {
		return pipeline.NewWarmUpStrategy(s.cfg.WarmUpTiers)
	}
	return pipeline.NewChunkStrategy(req.GroupSize)
}

// publish emits the processed event. Delivery problems are logged and never
// fail an upload that was already written.
func (s *processingService) publish(ctx context.Context, req *validator.ProcessRequest, sum pipeline.Summary) {
	if s.publisher == nil {
		return
	}

	event := ProcessedEvent{
		RequestID:   req.RequestID,
		Filename:    req.Filename,
		Label:       req.Label,
		Summary:     sum,
		ProcessedAt: time.Now().UTC(),
	}
	if !req.WarmUp {
		event.GroupSize = req.GroupSize
	}

	msg, err := kafka.NewMessage().
		WithKey(req.Label).
		WithValue(event).
		WithEventType(EventTypeProcessed).
		WithCorrelationID(req.RequestID).
		WithSchemaVersion(EventSchemaVersion).
		WithSource(EventSource).
		Build()
	if err != nil {
		s.cfg.Log.Error("Failed to build processed event", "request_id", req.RequestID, "error", err)
		return
	}

	if err := s.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.cfg.Log.Warn("Failed to publish processed event",
			"request_id", req.RequestID,
			"etiqueta", req.Label,
			"error", err,
		)
	}
}

func modeOf(req *validator.ProcessRequest) string {
	if req.WarmUp {
		return pipeline.ModeWarmUp
	}
	return pipeline.ModeChunk
}

// toAppError maps domain failures onto the HTTP error taxonomy: column and
// parameter defects are client errors, everything else is a server error.
func toAppError(err error) *apperrors.AppError {
	var (
		missing    *contactserrors.MissingColumnError
		invalid    *contactserrors.InvalidParameterError
		readErr    *contactserrors.ReadError
		validation validator.ValidationErrors
	)

	switch {
	case errors.As(err, &missing):
		return apperrors.MissingColumn(missing.Error(), map[string]any{
			"column":   missing.Field,
			"accepted": missing.Aliases,
		})
	case errors.As(err, &validation):
		return apperrors.InvalidParameter("Request validation failed", map[string]any{
			"errors": validation,
		})
	case errors.As(err, &invalid):
		return apperrors.InvalidParameter(invalid.Error(), map[string]any{
			"parameter": invalid.Name,
		})
	case errors.As(err, &readErr):
		return apperrors.ReadFailure(readErr.Error(), readErr.Err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Timeout("Processing did not finish in time")
	default:
		return apperrors.AsAppError(err)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, contactserrors.ErrMissingColumn):
		return OutcomeMissingColumn
	case errors.Is(err, contactserrors.ErrInvalidParameter), errors.As(err, new(validator.ValidationErrors)):
		return OutcomeInvalidParam
	case errors.Is(err, contactserrors.ErrRead):
		return OutcomeReadError
	default:
		return OutcomeError
	}
}
