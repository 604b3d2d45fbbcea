package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/AnubhawM/roi-calculator/errors"
	"github.com/AnubhawM/roi-calculator/utils"
	"github.com/AnubhawM/roi-calculator/web/types"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DocumentService stores uploaded supporting documents under a per-session
// directory and extracts what text it can for later ROI prompts.
type DocumentService struct {
	uploadDir string
	logger    *zap.Logger
}

func NewDocumentService(uploadDir string, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// PrepareUpload validates the session id and filename and returns the
// session directory and the unique stored name the handler should save the
// file under. Session ids are always server-minted UUIDs; anything else is
// rejected before it reaches a path join.
func (ds *DocumentService) PrepareUpload(sessionID, filename string) (dir, storedName string, err error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrInvalidInput, "invalid session id")
	}

	sanitized := utils.SanitizeFilename(filename)
	if sanitized == "" {
		return "", "", apperrors.WrapError(apperrors.ErrInvalidInput, "invalid or unsafe filename")
	}
	if !utils.AllowedFile(sanitized) {
		return "", "", apperrors.WrapErrorf(apperrors.ErrFileTypeNotAllowed, "%s", filepath.Ext(sanitized))
	}

	dir = filepath.Join(ds.uploadDir, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", apperrors.WrapError(err, "could not create upload directory")
	}
	return dir, utils.UniqueFilename(sanitized), nil
}

// Process extracts text from a stored document. PDFs are read page by page;
// other accepted formats are stored but not parsed here.
func (ds *DocumentService) Process(originalName, dir, storedName string) types.DocumentResult {
	result := types.DocumentResult{
		FileName:    originalName,
		StoredName:  storedName,
		ContentType: utils.MIMEType(storedName),
	}

	path := filepath.Join(dir, storedName)
	switch strings.ToLower(filepath.Ext(storedName)) {
	case ".pdf":
		text, err := ds.extractPDFText(path)
		if err != nil {
			ds.logger.Warn("PDF text extraction failed",
				zap.String("file", originalName),
				zap.Error(err))
			result.Error = "text extraction failed"
			return result
		}
		result.Text = text
	default:
		// Spreadsheets and Word documents are referenced by name in the
		// analysis prompt rather than parsed locally.
	}
	return result
}

// extractPDFText extracts all text content from a PDF file with page
// markers for context.
func (ds *DocumentService) extractPDFText(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var fullText strings.Builder
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			ds.logger.Warn("Skipping null page", zap.Int("page", pageNum))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			ds.logger.Warn("Failed to extract text from page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		fullText.WriteString(fmt.Sprintf("--- Page %d ---\n", pageNum))
		fullText.WriteString(text)
		fullText.WriteString("\n\n")
	}

	extracted := fullText.String()
	ds.logger.Info("PDF text extraction completed",
		zap.String("path", pdfPath),
		zap.Int("pages", totalPages),
		zap.Int("characters", len(extracted)))

	return extracted, nil
}
