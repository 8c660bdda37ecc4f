// Package handlers implements the control-plane HTTP endpoints.
package handlers

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // upload audit fingerprint, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mapscraper/internal/events"
	"github.com/jonesrussell/mapscraper/internal/importer"
	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
	"github.com/jonesrussell/mapscraper/internal/repository"
)

const (
	defaultPage         = 1
	defaultHistoryLimit = 10
	maxUploadBytes      = 32 << 20 // 32 MiB
)

// KeywordHandler serves the keyword listing, ingestion, and reset
// endpoints.
type KeywordHandler struct {
	keywords  *repository.KeywordRepository
	uploads   *repository.UploadHistoryRepository
	publisher *events.Publisher
	logger    logger.Logger
}

// NewKeywordHandler creates a keyword handler.
func NewKeywordHandler(
	keywords *repository.KeywordRepository,
	uploads *repository.UploadHistoryRepository,
	publisher *events.Publisher,
	log logger.Logger,
) *KeywordHandler {
	return &KeywordHandler{
		keywords:  keywords,
		uploads:   uploads,
		publisher: publisher,
		logger:    log,
	}
}

// List handles GET /keywords?page=&limit=&status=
func (h *KeywordHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultPageLimit)))
	if err != nil || limit <= 0 {
		limit = repository.DefaultPageLimit
	}
	status := models.KeywordStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status %q", status)})
		return
	}

	result, err := h.keywords.ListPage(c.Request.Context(), page, limit, status)
	if err != nil {
		h.logger.Error("Failed to list keywords", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list keywords"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Upload handles POST /keywords/upload (multipart: file, mode, confirm).
func (h *KeywordHandler) Upload(c *gin.Context) {
	mode, err := models.ParseIngestMode(c.DefaultPostForm("mode", string(models.ModeAdd)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Replace deletes everything; the request itself must carry the
	// confirmation token, so a stray mode value can never wipe the set.
	if mode.Destructive() && c.PostForm("confirm") != models.ReplaceConfirmToken {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "replace mode requires confirm=" + models.ReplaceConfirmToken,
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	hash := md5.Sum(content) //nolint:gosec
	fileHash := hex.EncodeToString(hash[:])

	parsed, err := importer.ParseFile(fileHeader.Filename, bytes.NewReader(content))
	if err != nil {
		if errors.Is(err, importer.ErrNoKeywordColumn) || errors.Is(err, importer.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to parse upload",
			logger.String("filename", fileHeader.Filename),
			logger.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse file: " + err.Error()})
		return
	}

	stats, err := h.keywords.Ingest(c.Request.Context(), parsed.Rows, mode)
	if err != nil {
		h.logger.Error("Ingest failed",
			logger.String("mode", string(mode)),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest keywords"})
		return
	}

	record := &models.UploadRecord{
		Filename:      fileHeader.Filename,
		FileHash:      fileHash,
		FileSizeBytes: fileHeader.Size,
		KeywordsCount: len(parsed.Rows),
		NewKeywords:   stats.Inserted,
		Mode:          mode,
	}
	if recErr := h.uploads.Record(c.Request.Context(), record); recErr != nil {
		// History is an audit convenience; the ingest itself succeeded.
		h.logger.Warn("Failed to record upload history", logger.Error(recErr))
	}

	h.publisher.PublishAsync(events.Event{
		EventType: events.EventUpload,
		Mode:      mode,
		FileHash:  fileHash,
		Inserted:  stats.Inserted,
	})

	c.JSON(http.StatusOK, models.OperationResult{
		Success:       true,
		Message:       uploadMessage(mode, stats, parsed),
		AffectedCount: stats.Inserted,
	})
}

func uploadMessage(mode models.IngestMode, stats *repository.IngestStats, parsed *importer.Result) string {
	switch mode {
	case models.ModeReplace:
		return fmt.Sprintf("Replaced all keywords. Inserted %d keywords from file.", stats.Inserted)
	case models.ModeSync:
		return fmt.Sprintf("Synced keywords. Added %d new, left %d existing unchanged.",
			stats.Inserted, stats.Skipped)
	default:
		skipped := stats.Skipped + parsed.Duplicates
		return fmt.Sprintf("Added %d new keywords (skipped %d duplicates, rejected %d rows).",
			stats.Inserted, skipped, len(parsed.Rejected))
	}
}

// ResetFailed handles POST /keywords/reset-failed.
func (h *KeywordHandler) ResetFailed(c *gin.Context) {
	h.handleReset(c, "failed", h.keywords.ResetFailed)
}

// ResetSkipped handles POST /keywords/reset-skipped.
func (h *KeywordHandler) ResetSkipped(c *gin.Context) {
	h.handleReset(c, "skipped", h.keywords.ResetSkipped)
}

// ResetAll handles POST /keywords/reset-all.
func (h *KeywordHandler) ResetAll(c *gin.Context) {
	h.handleReset(c, "all", h.keywords.ResetAll)
}

func (h *KeywordHandler) handleReset(c *gin.Context, kind string, reset func(ctx context.Context) (int, error)) {
	affected, err := reset(c.Request.Context())
	if err != nil {
		h.logger.Error("Reset failed",
			logger.String("kind", kind),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset keywords"})
		return
	}

	h.publisher.PublishAsync(events.Event{
		EventType: events.EventReset,
		ResetKind: kind,
		Affected:  affected,
	})

	c.JSON(http.StatusOK, models.OperationResult{
		Success:       true,
		Message:       fmt.Sprintf("Reset %d keywords to pending.", affected),
		AffectedCount: affected,
	})
}

// UploadHistory handles GET /keywords/upload-history?limit=
func (h *KeywordHandler) UploadHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := h.uploads.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load upload history", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load upload history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": records})
}
