package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestStorageServiceSaveReadDelete(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	upload, err := storage.SaveFile(fileHeader(t, "resume.pdf", "application/pdf", []byte("%PDF-1.4 body")))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if upload.OriginalName != "resume.pdf" || upload.Size != int64(len("%PDF-1.4 body")) {
		t.Fatalf("unexpected upload: %+v", upload)
	}

	data, err := storage.ReadFile(upload)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("data = %q", data)
	}

	if err := storage.DeleteFile(upload); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := os.Stat(upload.Path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
	if err := storage.DeleteFile(upload); err != nil {
		t.Fatalf("second DeleteFile should be a no-op: %v", err)
	}
}

func TestStorageServiceRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	docx := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	for _, ct := range []string{docx, "application/octet-stream", "text/plain"} {
		_, err := storage.SaveFile(fileHeader(t, "resume.docx", ct, []byte("x")))
		if !errors.Is(err, ErrInvalidFileType) {
			t.Fatalf("content type %q: expected ErrInvalidFileType, got %v", ct, err)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not be written, found %d files", len(entries))
	}
}

func TestStorageServiceSweepOlderThan(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	stale, err := storage.SaveFile(fileHeader(t, "old.pdf", "application/pdf", []byte("%PDF old")))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	fresh, err := storage.SaveFile(fileHeader(t, "new.pdf", "application/pdf", []byte("%PDF new")))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("keep"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	for _, path := range []string{stale.Path, other} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	removed, err := storage.SweepOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("SweepOlderThan: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale.Path); !os.IsNotExist(err) {
		t.Fatalf("stale upload should be gone, stat err = %v", err)
	}
	for _, path := range []string{fresh.Path, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should be kept: %v", path, err)
		}
	}
}
