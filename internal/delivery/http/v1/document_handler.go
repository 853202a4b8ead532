package v1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/docparse"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/security/antivirus"
	"go-ats-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// multipart framing on top of the 5 MiB file
	uploadBodyOverhead = 1 << 20
	previewMaxRunes    = 20000
	fileTooLargeMsg    = "File too large. Maximum size is 5MB"
)

type DocumentHandler struct {
	documentUC domain.DocumentUsecase
	blobs      storage.BlobStore
	scanner    antivirus.Scanner
	logger     *zap.Logger
	audit      *security.SecurityLogger
}

type DocumentHandlerDeps struct {
	DocumentUC domain.DocumentUsecase
	Blobs      storage.BlobStore
	Scanner    antivirus.Scanner
	Limiter    *security.UploadLimiter
	Logger     *zap.Logger
	Audit      *security.SecurityLogger
}

func NewDocumentHandler(r *gin.RouterGroup, deps DocumentHandlerDeps) {
	scanner := deps.Scanner
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := &DocumentHandler{
		documentUC: deps.DocumentUC,
		blobs:      deps.Blobs,
		scanner:    scanner,
		logger:     logger,
		audit:      deps.Audit,
	}

	documents := r.Group("/candidates/:id/documents")
	{
		documents.POST("", middleware.UploadRateLimit(deps.Limiter, logger, deps.Audit), handler.Upload)
		documents.GET("", handler.List)
		documents.DELETE("/:documentId", handler.Delete)
		documents.GET("/:documentId/download", handler.Download)
		documents.GET("/:documentId/text", handler.Text)
	}
}

// Upload godoc
// @Summary      Upload document
// @Description  Uploads a PDF or DOCX (max 5MB) for the candidate
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      int     true   "Candidate ID"
// @Param        file          formData  file    true   "PDF or DOCX"
// @Param        documentType  formData  string  false  "Document type (default cv)"
// @Success      201           {object}  response.Response{data=domain.Document}
// @Failure      400           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Failure      429           {object}  response.Response
// @Router       /api/candidates/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	candidateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxUploadSize+uploadBodyOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.FileUpload(fileTooLargeMsg))
			return
		}
		c.Error(apperror.FileUpload("No file provided"))
		return
	}
	if fileHeader.Size > domain.MaxUploadSize {
		c.Error(apperror.FileUpload(fileTooLargeMsg))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.FileUpload("Failed to read uploaded file"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, domain.MaxUploadSize+1))
	if err != nil {
		c.Error(apperror.FileUpload("Failed to read uploaded file"))
		return
	}
	if int64(len(data)) > domain.MaxUploadSize {
		c.Error(apperror.FileUpload(fileTooLargeMsg))
		return
	}
	if len(data) == 0 {
		c.Error(apperror.FileUpload("File is empty"))
		return
	}

	declared := fileHeader.Header.Get("Content-Type")
	check := security.ValidateDocument(fileHeader.Filename, declared, data)
	if !check.Valid {
		h.audit.LogUploadRejected(ctx, middleware.AuditInfo(c), candidateID, fileHeader.Filename, check.Error)
		c.Error(apperror.FileUpload(check.Error))
		return
	}
	mimeType, _, _ := mime.ParseMediaType(declared)

	scan := h.scanner.Scan(ctx, fileHeader.Filename, bytes.NewReader(data))
	if scan.Rejected() {
		if scan.Infected {
			h.audit.LogMalwareDetected(ctx, middleware.AuditInfo(c), candidateID, scan.ScannerName, scan.ThreatName)
		} else {
			h.audit.LogScannerUnavailable(ctx, middleware.AuditInfo(c), scan.ScannerName, scan.Error)
		}
		c.Error(apperror.FileUpload("File rejected by malware scan"))
		return
	}

	originalName := filepath.Base(filepath.ToSlash(fileHeader.Filename))
	storedName := storage.StoredFileName(candidateID, originalName, time.Now())
	path, err := h.blobs.Save(ctx, storedName, bytes.NewReader(data))
	if err != nil {
		c.Error(apperror.Internal(fmt.Errorf("save blob: %w", err)))
		return
	}

	doc, err := h.documentUC.Upload(ctx, candidateID, domain.FileMeta{
		FileName:     storedName,
		OriginalName: originalName,
		FilePath:     path,
		FileType:     storage.FileType(originalName),
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
	}, c.PostForm("documentType"))
	if err != nil {
		h.removeBlob(c, path)
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Document uploaded successfully", doc)
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=[]domain.Document}
// @Failure      404  {object}  response.Response
// @Router       /api/candidates/{id}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	candidateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	docs, err := h.documentUC.List(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "", docs)
}

// Delete godoc
// @Summary      Delete document
// @Description  Deletes the document record and its stored file
// @Tags         documents
// @Produce      json
// @Param        id          path      int  true  "Candidate ID"
// @Param        documentId  path      int  true  "Document ID"
// @Success      200         {object}  response.Response{data=domain.DocumentDeletion}
// @Failure      404         {object}  response.Response
// @Router       /api/candidates/{id}/documents/{documentId} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	candidateID, documentID, ok := documentPath(c)
	if !ok {
		return
	}

	res, err := h.documentUC.Delete(c.Request.Context(), candidateID, documentID)
	if err != nil {
		c.Error(err)
		return
	}

	h.removeBlob(c, res.FilePath)
	h.audit.LogDocumentDeleted(c.Request.Context(), middleware.AuditInfo(c), candidateID, documentID)
	response.Success(c, http.StatusOK, res.Message, res)
}

// Download godoc
// @Summary      Download document
// @Tags         documents
// @Produce      application/octet-stream
// @Param        id          path  int  true  "Candidate ID"
// @Param        documentId  path  int  true  "Document ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /api/candidates/{id}/documents/{documentId}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, body, ok := h.openDocument(c)
	if !ok {
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, doc.FileSize, doc.MimeType, body, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName}),
	})
}

// Text godoc
// @Summary      Document text preview
// @Description  Extracts plain text from a stored PDF or DOCX
// @Tags         documents
// @Produce      json
// @Param        id          path      int  true  "Candidate ID"
// @Param        documentId  path      int  true  "Document ID"
// @Success      200         {object}  response.Response{data=docparse.Text}
// @Failure      404         {object}  response.Response
// @Failure      500         {object}  response.Response
// @Router       /api/candidates/{id}/documents/{documentId}/text [get]
func (h *DocumentHandler) Text(c *gin.Context) {
	doc, body, ok := h.openDocument(c)
	if !ok {
		return
	}
	defer body.Close()

	text, err := docparse.Extract(body, doc.MimeType, previewMaxRunes)
	if err != nil {
		c.Error(apperror.Internal(fmt.Errorf("document %d: %w", doc.ID, err)))
		return
	}

	response.Success(c, http.StatusOK, "", text)
}

func (h *DocumentHandler) openDocument(c *gin.Context) (*domain.Document, io.ReadCloser, bool) {
	candidateID, documentID, ok := documentPath(c)
	if !ok {
		return nil, nil, false
	}

	doc, err := h.documentUC.Get(c.Request.Context(), candidateID, documentID)
	if err != nil {
		c.Error(err)
		return nil, nil, false
	}

	body, err := h.blobs.Open(c.Request.Context(), doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.Error(apperror.NotFound("File"))
		} else {
			c.Error(apperror.Internal(fmt.Errorf("open blob: %w", err)))
		}
		return nil, nil, false
	}
	return doc, body, true
}

// removeBlob is best effort; a leftover blob is logged and otherwise ignored.
func (h *DocumentHandler) removeBlob(c *gin.Context, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := h.blobs.Delete(c.Request.Context(), path); err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.logger.Warn("failed to delete stored file",
			zap.String("request_id", c.GetString(response.RequestIDKey)),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func documentPath(c *gin.Context) (int64, int64, bool) {
	candidateID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	documentID, ok := pathID(c, "documentId")
	if !ok {
		return 0, 0, false
	}
	return candidateID, documentID, true
}
