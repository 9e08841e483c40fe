package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tratador/internal/contacts/pipeline"
	"tratador/internal/contacts/validator"
	"tratador/pkg/config"
	apperrors "tratador/pkg/errors"
	"tratador/pkg/kafka"
	"tratador/pkg/locale"
	"tratador/pkg/logger"
	"tratador/pkg/metrics"
	"tratador/pkg/sanitizer"
	"tratador/pkg/spreadsheet"
)

type fakePublisher struct {
	messages []kafka.Message
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, msg kafka.Message) error {
	f.messages = append(f.messages, msg)
	return f.err
}

func newTestService(t *testing.T, publisher EventPublisher) (ProcessingService, *metrics.Metrics, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		TempDir:     t.TempDir(),
		WarmUpTiers: []int{2, 3},
		Log:         logger.Discard(),
	}
	pipe := pipeline.New(pipeline.Config{
		Aliases: pipeline.NewColumnAliases(
			[]string{"NOME", "Nome", "Cliente", "CLIENTE"},
			[]string{"TELEFONE", "Telefone", "Celular"},
		),
		Phones: sanitizer.NewPhoneFormatter(locale.Countries["BR"], ""),
	})
	m := metrics.New()

	svc := NewProcessingService(pipe, validator.NewRequestValidator(cfg.Log), publisher, m, cfg)
	return svc, m, cfg
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

const sampleCSV = "Cliente,Celular\nJoão!,85999998888\nJoão!,85999998888\nMaria,9999-7777\nPedro,123\n"

func TestProcess_Success(t *testing.T) {
	pub := &fakePublisher{}
	svc, m, cfg := newTestService(t, pub)

	req := &validator.ProcessRequest{Filename: "lista.csv", Label: "X", GroupSize: 2, RequestID: "req-1"}
	out, err := svc.Process(context.Background(), req, strings.NewReader(sampleCSV))
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Cleanup() })

	assert.Equal(t, "[TRATADO]lista.csv", out.Filename)
	assert.Equal(t, spreadsheet.ContentTypeCSV, out.ContentType)
	assert.Equal(t, pipeline.Summary{
		RowsIn:        4,
		RowsOut:       3,
		Duplicates:    1,
		InvalidPhones: 1,
		Groups:        2,
		Mode:          pipeline.ModeChunk,
		NameColumn:    "Cliente",
		PhoneColumn:   "Celular",
	}, out.Summary)

	file, err := os.Open(out.Path)
	require.NoError(t, err)
	defer file.Close()

	table, err := spreadsheet.ReadCSV(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"NOME", "TELEFONE", "ETIQUETA"}, table.Headers)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, []any{"João", int64(5585999998888), "X_G1"}, table.Rows[0])
	assert.Equal(t, []any{"Maria", int64(5585999997777), "X_G1"}, table.Rows[1])
	assert.Equal(t, []any{"Pedro", nil, "X_G2"}, table.Rows[2])

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Uploads.WithLabelValues(pipeline.ModeChunk, OutcomeSuccess)))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.RowsTotal.WithLabelValues(metrics.StageRead)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RowsTotal.WithLabelValues(metrics.StageDuplicate)))

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, "X", msg.Key)
	assert.Equal(t, EventTypeProcessed, msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())

	var event ProcessedEvent
	require.NoError(t, msg.DecodeValue(&event))
	assert.Equal(t, "lista.csv", event.Filename)
	assert.Equal(t, 2, event.GroupSize)
	assert.Equal(t, 3, event.Summary.RowsOut)

	require.NoError(t, out.Cleanup())
	assert.Empty(t, tempFiles(t, cfg.TempDir))
	assert.NoError(t, out.Cleanup(), "second cleanup is a no-op")
}

func TestProcess_WarmUpIgnoresGroupSize(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	csv := "NOME,TELEFONE\nA,85911111111\nB,85922222222\nC,85933333333\nD,85944444444\nE,85955555555\nF,85966666666\n"
	req := &validator.ProcessRequest{Filename: "l.csv", Label: "W", GroupSize: 0, WarmUp: true}

	out, err := svc.Process(context.Background(), req, strings.NewReader(csv))
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Cleanup() })

	assert.Equal(t, pipeline.ModeWarmUp, out.Summary.Mode)
	assert.Equal(t, 2, out.Summary.Groups)
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        *validator.ProcessRequest
		body       string
		wantCode   string
		wantStatus int
		outcome    string
	}{
		{
			name:       "missing phone column",
			req:        &validator.ProcessRequest{Filename: "l.csv", Label: "X", GroupSize: 1},
			body:       "Nome,Email\nAna,a@x\n",
			wantCode:   apperrors.CodeMissingColumn,
			wantStatus: 400,
			outcome:    OutcomeMissingColumn,
		},
		{
			name:       "zero group size",
			req:        &validator.ProcessRequest{Filename: "l.csv", Label: "X", GroupSize: 0},
			body:       "NOME,TELEFONE\n",
			wantCode:   apperrors.CodeInvalidParameter,
			wantStatus: 400,
			outcome:    OutcomeInvalidParam,
		},
		{
			name:       "not a workbook",
			req:        &validator.ProcessRequest{Filename: "l.xlsx", Label: "X", GroupSize: 1},
			body:       "garbage",
			wantCode:   apperrors.CodeReadError,
			wantStatus: 500,
			outcome:    OutcomeReadError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			svc, m, cfg := newTestService(t, pub)

			out, err := svc.Process(context.Background(), tt.req, strings.NewReader(tt.body))
			assert.Nil(t, out)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode())

			assert.Equal(t, float64(1), testutil.ToFloat64(m.Uploads.WithLabelValues(pipeline.ModeChunk, tt.outcome)))
			assert.Empty(t, pub.messages)
			assert.Empty(t, tempFiles(t, cfg.TempDir), "no partial output on failure")
		})
	}
}

func TestProcess_MissingColumnNamesAliases(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Process(context.Background(),
		&validator.ProcessRequest{Filename: "l.csv", Label: "X", GroupSize: 1},
		strings.NewReader("Email,TELEFONE\n"))

	appErr := apperrors.AsAppError(err)
	assert.Contains(t, appErr.Message, "NOME, Nome, Cliente, CLIENTE")
	assert.Equal(t, []string{"NOME", "Nome", "Cliente", "CLIENTE"}, appErr.Details["accepted"])
}

func TestProcess_PublishFailureDoesNotFailUpload(t *testing.T) {
	pub := &fakePublisher{err: kafka.ErrProducerClosed}
	svc, _, _ := newTestService(t, pub)

	out, err := svc.Process(context.Background(),
		&validator.ProcessRequest{Filename: "l.csv", Label: "X", GroupSize: 1},
		strings.NewReader(sampleCSV))

	require.NoError(t, err)
	require.NoError(t, out.Cleanup())
	assert.Len(t, pub.messages, 1)
}

func TestProcess_CanceledContext(t *testing.T) {
	svc, _, cfg := newTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Process(ctx,
		&validator.ProcessRequest{Filename: "l.csv", Label: "X", GroupSize: 1},
		strings.NewReader(sampleCSV))

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeTimeout, appErr.Code)
	assert.Empty(t, tempFiles(t, cfg.TempDir))
}
