package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"tratador/internal/contacts/service"
	"tratador/internal/contacts/validator"
	apperrors "tratador/pkg/errors"
	httputil "tratador/pkg/http"
	"tratador/pkg/logger"
	"tratador/pkg/middleware"
	"tratador/pkg/sanitizer"
)

// Multipart form fields accepted by POST /process.
const (
	FieldFile      = "file"
	FieldLabel     = "etiqueta_nome"
	FieldGroupSize = "num_grupos"
	FieldWarmUp    = "aquecimento"
)

// DefaultMemLimit is how much of a multipart upload is kept in memory
// before parts spill to disk.
const DefaultMemLimit = 8 << 20

// Response headers describing what the pipeline did.
const (
	HeaderRowsIn        = "X-Rows-In"
	HeaderRowsOut       = "X-Rows-Out"
	HeaderDuplicates    = "X-Duplicates-Removed"
	HeaderInvalidPhones = "X-Invalid-Phones"
	HeaderGroups        = "X-Groups"
)

type ProcessHandler struct {
	service   service.ProcessingService
	log       *logger.Logger
	maxMemory int64
}

func NewProcessHandler(service service.ProcessingService, maxMemory int64, log *logger.Logger) *ProcessHandler {
	if maxMemory <= 0 {
		maxMemory = DefaultMemLimit
	}
	return &ProcessHandler{
		service:   service,
		log:       log,
		maxMemory: maxMemory,
	}
}

func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		h.writeError(w, "ParseMultipartForm", formError(err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(FieldFile)
	if err != nil {
		h.writeError(w, "FormFile", apperrors.BadRequest("the file field is required"))
		return
	}
	defer file.Close()

	req, err := parseRequest(r, header.Filename)
	if err != nil {
		h.writeError(w, "parseRequest", err)
		return
	}

	out, err := h.service.Process(r.Context(), req, file)
	if err != nil {
		h.writeError(w, "Process", err)
		return
	}
	defer func() {
		if err := out.Cleanup(); err != nil {
			h.log.Error("failed to remove output file", "request_id", req.RequestID, "path", out.Path, "error", err)
		}
	}()

	sum := out.Summary
	w.Header().Set(HeaderRowsIn, strconv.Itoa(sum.RowsIn))
	w.Header().Set(HeaderRowsOut, strconv.Itoa(sum.RowsOut))
	w.Header().Set(HeaderDuplicates, strconv.Itoa(sum.Duplicates))
	w.Header().Set(HeaderInvalidPhones, strconv.Itoa(sum.InvalidPhones))
	w.Header().Set(HeaderGroups, strconv.Itoa(sum.Groups))

	if err := httputil.WriteAttachment(w, out.Path, out.Filename, out.ContentType); err != nil {
		h.log.Error("failed to write attachment", "handler", "Process", "operation", "WriteAttachment", "request_id", req.RequestID, "error", err)
		if apperrors.IsAppError(err) {
			h.writeError(w, "WriteAttachment", err)
		}
	}
}

func (h *ProcessHandler) writeError(w http.ResponseWriter, operation string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Process", "operation", operation, "error", writeErr)
	}
}

func parseRequest(r *http.Request, filename string) (*validator.ProcessRequest, error) {
	groupSize, err := parseGroupSize(r.FormValue(FieldGroupSize))
	if err != nil {
		return nil, err
	}
	warmUp, err := parseWarmUp(r.FormValue(FieldWarmUp))
	if err != nil {
		return nil, err
	}

	return &validator.ProcessRequest{
		Filename:  filename,
		Label:     sanitizer.TrimAndNormalize(r.FormValue(FieldLabel)),
		GroupSize: groupSize,
		WarmUp:    warmUp,
		RequestID: middleware.GetRequestID(r.Context()),
	}, nil
}

// parseGroupSize leaves an absent value as 0 so the validator can decide
// whether it is required for the chosen mode.
func parseGroupSize(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidParameter("num_grupos must be an integer", map[string]any{
			"parameter": FieldGroupSize,
			"value":     raw,
		})
	}
	return n, nil
}

func parseWarmUp(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return false, nil
	case "on", "yes", "sim":
		return true, nil
	case "off", "no", "nao", "não":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, apperrors.InvalidParameter("aquecimento must be a boolean", map[string]any{
			"parameter": FieldWarmUp,
			"value":     raw,
		})
	}
	return b, nil
}

func formError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return apperrors.TooLarge(maxBytes.Limit)
	}
	return apperrors.BadRequest("request must be a valid multipart form")
}

func (h *ProcessHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/process", h.Process)
}
