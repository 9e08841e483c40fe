package handler

import (
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"

	httputil "tratador/pkg/http"
	"tratador/pkg/logger"
)

type HealthResponse struct {
	Status  string `json:"status"`
	TempDir string `json:"temp_dir,omitempty"`
}

type HealthHandler struct {
	tempDir string
	log     *logger.Logger
}

func NewHealthHandler(tempDir string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		tempDir: tempDir,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

// Ready reports whether output files can be created in the temp directory.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.probeTempDir(); err != nil {
		h.log.Error("Temp directory health check failed",
			"error", err,
			"temp_dir", h.tempDir,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unavailable",
			TempDir: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		TempDir: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) probeTempDir() error {
	f, err := os.CreateTemp(h.tempDir, ".ready-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Remove(name)
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
