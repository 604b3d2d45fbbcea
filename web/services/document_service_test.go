package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/AnubhawM/roi-calculator/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestDocumentService(t *testing.T) *DocumentService {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewDocumentService(t.TempDir(), logger)
}

func TestPrepareUploadAcceptsSupportedFiles(t *testing.T) {
	ds := newTestDocumentService(t)
	sid := uuid.New().String()

	dir, storedName, err := ds.PrepareUpload(sid, "cost breakdown.xlsx")
	if err != nil {
		t.Fatalf("PrepareUpload() error = %v", err)
	}
	if filepath.Base(dir) != sid {
		t.Errorf("dir = %q, want per-session directory", dir)
	}
	if !strings.HasSuffix(storedName, ".xlsx") {
		t.Errorf("storedName = %q, want .xlsx suffix", storedName)
	}
	if storedName == "cost breakdown.xlsx" {
		t.Error("storedName should not reuse the original filename")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("session directory not created: %v", err)
	}
}

func TestPrepareUploadRejectsNonUUIDSessionID(t *testing.T) {
	ds := newTestDocumentService(t)

	for _, sid := range []string{"", "abc", "..", "../escaped", "a/b"} {
		_, _, err := ds.PrepareUpload(sid, "report.pdf")
		if !apperrors.IsInvalidInput(err) {
			t.Errorf("PrepareUpload(%q) error = %v, want invalid input", sid, err)
		}
	}

	// A traversal attempt must not create anything outside the upload root.
	escaped := filepath.Join(filepath.Dir(ds.uploadDir), "escaped")
	if _, err := os.Stat(escaped); !os.IsNotExist(err) {
		t.Errorf("directory escaped the upload root: %s", escaped)
	}
}

func TestPrepareUploadRejectsUnsupportedExtension(t *testing.T) {
	ds := newTestDocumentService(t)

	_, _, err := ds.PrepareUpload(uuid.New().String(), "malware.exe")
	if !apperrors.IsFileTypeNotAllowed(err) {
		t.Errorf("PrepareUpload() error = %v, want file type not allowed", err)
	}
}

func TestPrepareUploadRejectsUnsafeFilename(t *testing.T) {
	ds := newTestDocumentService(t)

	_, _, err := ds.PrepareUpload(uuid.New().String(), "...")
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("PrepareUpload() error = %v, want invalid input", err)
	}
}

func TestProcessNonPDFStoredWithoutText(t *testing.T) {
	ds := newTestDocumentService(t)

	dir, storedName, err := ds.PrepareUpload(uuid.New().String(), "data.csv")
	if err != nil {
		t.Fatalf("PrepareUpload() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storedName), []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	result := ds.Process("data.csv", dir, storedName)
	if result.Error != "" {
		t.Errorf("Process() error = %q, want none", result.Error)
	}
	if result.Text != "" {
		t.Errorf("Process() extracted text from CSV: %q", result.Text)
	}
	if result.ContentType != "text/csv" {
		t.Errorf("Process() ContentType = %q, want text/csv", result.ContentType)
	}
	if result.FileName != "data.csv" || result.StoredName != storedName {
		t.Errorf("Process() = %+v", result)
	}
}

func TestProcessReportsUnreadablePDF(t *testing.T) {
	ds := newTestDocumentService(t)

	dir, storedName, err := ds.PrepareUpload(uuid.New().String(), "broken.pdf")
	if err != nil {
		t.Fatalf("PrepareUpload() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storedName), []byte("not a pdf"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	result := ds.Process("broken.pdf", dir, storedName)
	if result.Error == "" {
		t.Error("Process() accepted an unreadable PDF")
	}
	if result.ContentType != "application/pdf" {
		t.Errorf("Process() ContentType = %q, want application/pdf", result.ContentType)
	}
}
