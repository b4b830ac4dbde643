package handler

import (
	"net/http"

	"github.com/azurelens/backend-go/internal/analyzer/bcdr"
	"github.com/azurelens/backend-go/internal/analyzer/naming"
	"github.com/azurelens/backend-go/internal/analyzer/tagging"
	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/engine"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalysisHandler runs ad-hoc synchronous analyses over a resource
// snapshot supplied in the request body, or collected live for the bcdr
// endpoint when subscription IDs are given instead. No assessment record
// is created.
type AnalysisHandler struct {
	runner  *engine.Runner
	naming  *naming.Analyzer
	tagging *tagging.Analyzer
	bcdr    *bcdr.Analyzer
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(runner *engine.Runner, namingCfg naming.Config, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		runner:  runner,
		naming:  naming.NewAnalyzer(namingCfg, logger),
		tagging: tagging.NewAnalyzer(logger),
		bcdr:    bcdr.NewAnalyzer(logger),
	}
}

type namingAnalysisRequest struct {
	Resources []domain.Resource    `json:"resources" binding:"required"`
	Scheme    *domain.NamingScheme `json:"scheme"`
}

// AnalyzeNaming classifies and validates the supplied resource names
func (h *AnalysisHandler) AnalyzeNaming(c *gin.Context) {
	var req namingAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	results := h.naming.AnalyzeNamingConventions(c.Request.Context(), req.Resources, req.Scheme)
	c.JSON(http.StatusOK, results)
}

type taggingAnalysisRequest struct {
	Resources []domain.Resource `json:"resources" binding:"required"`
	Policy    *domain.TagPolicy `json:"policy"`
}

// AnalyzeTagging checks the supplied resources against a tag policy. When
// no policy is supplied the default policy applies.
func (h *AnalysisHandler) AnalyzeTagging(c *gin.Context) {
	var req taggingAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	policy := domain.DefaultTagPolicy()
	if req.Policy != nil {
		policy = *req.Policy
	}
	results := h.tagging.AnalyzeTagging(c.Request.Context(), req.Resources, policy)
	c.JSON(http.StatusOK, results)
}

type bcdrAnalysisRequest struct {
	Resources       []domain.Resource `json:"resources"`
	SubscriptionIDs []string          `json:"subscription_ids"`
	HasDRPlan       bool              `json:"has_disaster_recovery_plan"`
}

// AnalyzeBCDR runs the combined backup and recovery analysis. Resources
// may be supplied inline; otherwise the named subscriptions are collected
// live.
func (h *AnalysisHandler) AnalyzeBCDR(c *gin.Context) {
	var req bcdrAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if len(req.Resources) > 0 {
		c.JSON(http.StatusOK, h.bcdr.Analyze(c.Request.Context(), req.Resources, req.HasDRPlan))
		return
	}
	if len(req.SubscriptionIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "resources or subscription_ids must be provided"})
		return
	}

	results := h.runner.AnalyzeBusinessContinuity(c.Request.Context(), req.SubscriptionIDs, req.HasDRPlan)
	c.JSON(http.StatusOK, results)
}
