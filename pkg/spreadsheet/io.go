package spreadsheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

func Read(format Format, r io.Reader) (*Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	default:
		return ReadXLSX(r)
	}
}

func Write(w io.Writer, format Format, t *Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	default:
		return WriteXLSX(w, t)
	}
}

// WriteTempFile writes the table to a new uniquely named file in dir and
// returns its path. Nothing is left behind when writing fails.
func WriteTempFile(dir string, format Format, t *Table) (path string, err error) {
	path = filepath.Join(dir, uuid.NewString()+format.Extension())

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
		if err != nil {
			os.Remove(path)
			path = ""
		}
	}()

	if err = Write(file, format, t); err != nil {
		return path, err
	}
	return path, nil
}
