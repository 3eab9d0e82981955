package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Ra7ch/LeetSol/backend/config"
	"github.com/Ra7ch/LeetSol/backend/model"
	"github.com/Ra7ch/LeetSol/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// UploadField is the multipart field name the frontend submits contracts under
const UploadField = "contractFile"

// Stager owns the staged copy of an upload for the duration of a request
type Stager interface {
	Stage(ctx context.Context, originalName string, r io.Reader) (*model.SubmittedFile, error)
	Remove(ctx context.Context, staged *model.SubmittedFile) error
}

// Auditor dispatches a staged contract to the audit engine
type Auditor interface {
	Audit(ctx context.Context, contractPath string) ([]model.Finding, error)
}

// ReportSaver persists one audit report per submission
type ReportSaver interface {
	SaveReport(ctx context.Context, report *model.AuditReport) error
}

// Archiver keeps a durable copy of the contract before staging is wiped
type Archiver interface {
	Archive(ctx context.Context, staged *model.SubmittedFile) (string, error)
}

type AuditHandler struct {
	staging Stager
	engine  Auditor
	store   ReportSaver
	archive Archiver // nil when archiving is disabled
	allowed map[string]bool
	maxSize int64
}

func NewAuditHandler(staging Stager, engine Auditor, store ReportSaver, archive Archiver, cfg *config.StagingConfig) *AuditHandler {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}

	return &AuditHandler{
		staging: staging,
		engine:  engine,
		store:   store,
		archive: archive,
		allowed: allowed,
		maxSize: cfg.MaxUploadBytes,
	}
}

// Upload runs one audit submission end to end: validate the upload, stage
// it, dispatch it to the engine, and answer with the rendered report.
// Persistence and staging cleanup are deferred so they run on every exit
// path once a staged file exists.
func (h *AuditHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile(UploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a contract file."})
		return
	}
	defer file.Close()

	logger.Debug(c.Request.Context(), "upload received",
		"stage", model.StatusReceived,
		"filename", header.Filename,
	)

	if h.maxSize > 0 && header.Size > h.maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.allowed[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	ctx := c.Request.Context()

	staged, err := h.staging.Stage(ctx, header.Filename, file)
	if err != nil {
		logger.Error(ctx, "failed to stage contract", "error", err, "filename", header.Filename)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	ctx = context.WithValue(ctx, logger.ContractKey, staged.Name)
	logger.Info(ctx, "contract accepted",
		"stage", model.StatusValidated,
		"filename", header.Filename,
		"size", staged.Size,
	)

	// The dispatch result is threaded into persistence through these
	// variables; the deferred block sees whatever dispatch actually
	// produced, nothing is captured early.
	var findings []model.Finding
	var auditErr error
	defer func() {
		h.settle(ctx, staged, findings, auditErr)
	}()

	logger.Debug(ctx, "dispatching to audit engine", "stage", model.StatusDispatched)

	findings, auditErr = h.engine.Audit(ctx, staged.Path)
	if auditErr != nil {
		logger.Error(ctx, "audit dispatch failed",
			"stage", model.StatusFailed,
			"error", auditErr,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	logger.Info(ctx, "audit completed",
		"stage", model.StatusSucceeded,
		"findings", len(findings),
	)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(RenderReport(findings)))
}

// settle persists the report and releases the staged file. It runs exactly
// once per staged submission, on success and failure alike; nothing here
// can change the HTTP outcome already decided by dispatch.
func (h *AuditHandler) settle(ctx context.Context, staged *model.SubmittedFile, findings []model.Finding, auditErr error) {
	// Keep running even if the client went away mid-dispatch
	ctx = context.WithoutCancel(ctx)

	report := &model.AuditReport{
		ContractName: staged.Name,
		FilePath:     staged.Path,
		Report:       findings, // nil = dispatch never produced a result
	}
	if auditErr != nil {
		report.ErrorMsg = auditErr.Error()
	}

	if h.archive != nil {
		url, err := h.archive.Archive(ctx, staged)
		if err != nil {
			logger.Warn(ctx, "failed to archive contract", "error", err)
		} else {
			report.ArchiveURL = url
		}
	}

	if err := h.store.SaveReport(ctx, report); err != nil {
		logger.Error(ctx, "failed to save audit report", "error", err)
	}

	if err := h.staging.Remove(ctx, staged); err != nil {
		logger.Error(ctx, "failed to delete staged file", "error", err)
	}
}
