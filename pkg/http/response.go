package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	apperrors "tratador/pkg/errors"
)

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	return apperrors.WriteError(w, err)
}

// WriteAttachment streams the file at path as a download named filename.
// Headers already set on w (e.g. processing counters) are kept.
func WriteAttachment(w http.ResponseWriter, path, filename, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		return apperrors.Internal("output file unavailable", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return apperrors.Internal("output file unavailable", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", ContentDisposition(filename))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("stream attachment: %w", err)
	}
	return nil
}
