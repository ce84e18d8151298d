package filevalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ledongthuc/pdf"
)

// Config holds the upload restrictions from the environment.
type Config struct {
	AllowedTypes []string
	MaxSize      int64
}

// CheckError is a rejection with a user-facing Spanish message.
type CheckError struct {
	Message string
}

func (e *CheckError) Error() string {
	return e.Message
}

// CheckFile validates one uploaded file against the MIME allow-list and the
// size cap. PDFs additionally go through an integrity parse so corrupt files
// are rejected even when their declared type is allowed.
func CheckFile(fh *multipart.FileHeader, cfg Config) error {
	if cfg.MaxSize > 0 && fh.Size > cfg.MaxSize {
		return &CheckError{Message: fmt.Sprintf(
			"El archivo %s supera el tamaño máximo permitido (%d bytes)", fh.Filename, cfg.MaxSize)}
	}

	mimeType := fh.Header.Get("Content-Type")
	if !allowed(mimeType, cfg.AllowedTypes) {
		return &CheckError{Message: fmt.Sprintf("Tipo de archivo no permitido: %s", mimeType)}
	}

	if mimeType == "application/pdf" {
		if err := checkPDF(fh); err != nil {
			return &CheckError{Message: fmt.Sprintf("El archivo %s no es un PDF válido", fh.Filename)}
		}
	}

	return nil
}

func allowed(mimeType string, allowedTypes []string) bool {
	for _, t := range allowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// checkPDF parses the PDF structure without extracting content.
func checkPDF(fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}
