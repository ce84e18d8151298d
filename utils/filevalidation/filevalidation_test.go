package filevalidation

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
)

func header(filename, mimeType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mimeType)
	return &multipart.FileHeader{
		Filename: filename,
		Header:   h,
		Size:     size,
	}
}

func TestCheckFileSizeLimit(t *testing.T) {
	cfg := Config{AllowedTypes: []string{"image/png"}, MaxSize: 1024}

	err := CheckFile(header("foto.png", "image/png", 2048), cfg)
	var checkErr *CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("expected CheckError for oversized file, got %v", err)
	}
}

func TestCheckFileMimeAllowList(t *testing.T) {
	cfg := Config{
		AllowedTypes: []string{"image/jpeg", "image/png", "application/pdf"},
		MaxSize:      5 * 1024 * 1024,
	}

	if err := CheckFile(header("plano.exe", "application/x-msdownload", 100), cfg); err == nil {
		t.Error("expected rejection for disallowed MIME type")
	}

	if err := CheckFile(header("foto.jpg", "image/jpeg", 100), cfg); err != nil {
		t.Errorf("expected jpeg to pass, got %v", err)
	}
}

func TestAllowed(t *testing.T) {
	types := []string{"image/png", "text/plain"}

	if !allowed("text/plain", types) {
		t.Error("text/plain should be allowed")
	}
	if allowed("image/gif", types) {
		t.Error("image/gif should not be allowed")
	}
	if allowed("", nil) {
		t.Error("empty list allows nothing")
	}
}
