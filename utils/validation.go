package utils

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Extensions accepted for supporting documents, with their MIME types.
var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
}

var unsafeCharRe = regexp.MustCompile(`[^a-zA-Z0-9._\s-]`)

// SanitizeFilename cleans a filename for safe storage by removing dangerous
// characters and limiting length. It trims spaces and dots, removes parent
// directory references, and filters out non-alphanumeric characters except
// for safe punctuation.
func SanitizeFilename(filename string) string {
	sanitized := strings.Trim(filename, " .")
	sanitized = strings.ReplaceAll(sanitized, "..", "")
	sanitized = unsafeCharRe.ReplaceAllString(sanitized, "")
	if len(sanitized) > 255 {
		sanitized = sanitized[:255]
	}
	return sanitized
}

// AllowedFile reports whether the filename carries an accepted extension.
func AllowedFile(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MIMEType returns the MIME type registered for the file's extension.
func MIMEType(filename string) string {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// UniqueFilename generates a collision-free stored name while preserving
// the original extension.
func UniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}

// GenerateMessageID creates a unique message identifier using UUID v4.
func GenerateMessageID() string {
	return uuid.New().String()
}
