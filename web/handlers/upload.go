package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	apperrors "github.com/AnubhawM/roi-calculator/errors"
	"github.com/AnubhawM/roi-calculator/web/services"
	"github.com/AnubhawM/roi-calculator/web/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UploadHandler struct {
	docs         *services.DocumentService
	maxFileBytes int64
	logger       *zap.Logger
}

func NewUploadHandler(docs *services.DocumentService, maxFileMB int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		docs:         docs,
		maxFileBytes: maxFileMB * 1024 * 1024,
		logger:       logger,
	}
}

// UploadDocuments stores supporting documents for a calculation. Each file
// is reported individually so one rejected upload does not fail the batch.
func (h *UploadHandler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		// Single-file clients post under "file"
		files = form.File["file"]
	}
	if len(files) == 0 {
		respondWithClientError(c, http.StatusBadRequest, "No files provided")
		return
	}

	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid session id")
		return
	}

	results := make([]types.DocumentResult, 0, len(files))
	for _, fh := range files {
		results = append(results, h.storeOne(c, sessionID, fh))
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"files":      results,
	})
}

func (h *UploadHandler) storeOne(c *gin.Context, sessionID string, fh *multipart.FileHeader) types.DocumentResult {
	if fh.Size > h.maxFileBytes {
		return types.DocumentResult{
			FileName: fh.Filename,
			Error:    fmt.Sprintf("file exceeds the %d MB limit", h.maxFileBytes/(1024*1024)),
		}
	}

	dir, storedName, err := h.docs.PrepareUpload(sessionID, fh.Filename)
	if err != nil {
		h.logger.Warn("Rejected upload",
			zap.String("filename", fh.Filename),
			zap.Error(err))
		msg := "invalid or unsafe filename"
		if apperrors.IsFileTypeNotAllowed(err) {
			msg = "file type not allowed"
		}
		return types.DocumentResult{FileName: fh.Filename, Error: msg}
	}

	if err := c.SaveUploadedFile(fh, filepath.Join(dir, storedName)); err != nil {
		h.logger.Error("Failed to save uploaded file",
			zap.String("filename", fh.Filename),
			zap.Error(err))
		return types.DocumentResult{FileName: fh.Filename, Error: "could not save file"}
	}

	h.logger.Info("File uploaded",
		zap.String("filename", fh.Filename),
		zap.String("session_id", sessionID))

	return h.docs.Process(fh.Filename, dir, storedName)
}
