package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/engine"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the persistence surface handlers read from. *db.Store satisfies it.
type Store interface {
	GetAssessment(ctx context.Context, id string) (domain.Assessment, error)
	ListAssessments(ctx context.Context, environmentID string) ([]domain.Assessment, error)
	ListFindings(ctx context.Context, assessmentID string) ([]domain.Finding, error)
	GetNamingScheme(ctx context.Context, clientID string) (domain.NamingScheme, error)
	UpsertNamingScheme(ctx context.Context, clientID string, scheme domain.NamingScheme) error
	GetTagPolicy(ctx context.Context, clientID string) (domain.TagPolicy, error)
	UpsertTagPolicy(ctx context.Context, clientID string, policy domain.TagPolicy) error
}

// AssessmentHandler handles assessment lifecycle endpoints
type AssessmentHandler struct {
	runner *engine.Runner
	store  Store
	logger *zap.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler
func NewAssessmentHandler(runner *engine.Runner, store Store, logger *zap.Logger) *AssessmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentHandler{runner: runner, store: store, logger: logger}
}

// CreateAssessment accepts an assessment request and dispatches it in the
// background. The response carries the ID to poll or stream.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var req domain.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.ClientID == "" {
		req.ClientID = c.GetHeader("X-Client-ID")
	}

	id, err := h.runner.StartAssessment(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAssessmentType) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		h.logger.Error("failed to start assessment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"assessment_id": id,
		"status":        domain.StatusPending,
	})
}

// ListAssessments returns all assessments for an environment
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	environmentID := c.Query("environment_id")
	if environmentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "environment_id query parameter is required"})
		return
	}

	assessments, err := h.store.ListAssessments(c.Request.Context(), environmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if assessments == nil {
		assessments = []domain.Assessment{}
	}
	c.JSON(http.StatusOK, assessments)
}

// GetAssessment returns one assessment with its findings
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	result, err := h.runner.GetAssessmentResult(c.Request.Context(), c.Param("assessment_id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAssessmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Assessment not found"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFindings returns the findings of one assessment, severity-ordered
func (h *AssessmentHandler) GetFindings(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	assessmentID := c.Param("assessment_id")

	if _, err := h.store.GetAssessment(c.Request.Context(), assessmentID); err != nil {
		if errors.Is(err, domain.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	findings, err := h.store.ListFindings(c.Request.Context(), assessmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if findings == nil {
		findings = []domain.Finding{}
	}
	c.JSON(http.StatusOK, findings)
}

// sendSSE writes a single SSE event to the response writer
func sendSSE(c *gin.Context, event string, data any) {
	j, err := json.Marshal(data)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, j)
	if f, ok := c.Writer.(http.Flusher); ok {
		f.Flush()
	}
}

// StreamAssessment streams assessment status updates via Server-Sent Events
// until the assessment reaches a terminal status.
func (h *AssessmentHandler) StreamAssessment(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	assessmentID := c.Param("assessment_id")

	// Fetch initial state (also verifies the assessment exists)
	assessment, err := h.store.GetAssessment(c.Request.Context(), assessmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Assessment not found"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	lastStatus := assessment.Status
	sendSSE(c, "assessment", assessment)

	if domain.TerminalStatuses[assessment.Status] {
		sendSSE(c, "done", gin.H{"status": assessment.Status})
		return
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	maxTimeout := time.After(10 * time.Minute)

	for {
		select {
		case <-maxTimeout:
			sendSSE(c, "timeout", gin.H{"message": "stream max timeout reached"})
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			assessment, err := h.store.GetAssessment(c.Request.Context(), assessmentID)
			if err != nil {
				continue
			}
			if assessment.Status == lastStatus {
				continue
			}
			lastStatus = assessment.Status
			sendSSE(c, "assessment", assessment)

			if domain.TerminalStatuses[assessment.Status] {
				sendSSE(c, "done", gin.H{"status": assessment.Status})
				return
			}
		}
	}
}
