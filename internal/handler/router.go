package handler

import (
	"net/http"

	"github.com/azurelens/backend-go/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all API routes
func SetupRouter(
	assessment *AssessmentHandler,
	analysis *AnalysisHandler,
	preferences *PreferencesHandler,
	metrics *observability.Metrics,
	corsOrigin string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(corsOrigin))
	r.Use(PrometheusMiddleware(metrics))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Assessment lifecycle
	assessGroup := r.Group("/api/assessments")
	{
		assessGroup.POST("", assessment.CreateAssessment)
		assessGroup.GET("", assessment.ListAssessments)
		assessGroup.GET("/:assessment_id", assessment.GetAssessment)
		assessGroup.GET("/:assessment_id/findings", assessment.GetFindings)
		assessGroup.GET("/:assessment_id/stream", assessment.StreamAssessment)
	}

	// Ad-hoc synchronous analysis
	analyzeGroup := r.Group("/api/analyze")
	{
		analyzeGroup.POST("/naming", analysis.AnalyzeNaming)
		analyzeGroup.POST("/tagging", analysis.AnalyzeTagging)
		analyzeGroup.POST("/bcdr", analysis.AnalyzeBCDR)
	}

	// Per-client preferences
	prefGroup := r.Group("/api/preferences")
	{
		prefGroup.GET("/:client_id/scheme", preferences.GetScheme)
		prefGroup.PUT("/:client_id/scheme", preferences.PutScheme)
		prefGroup.GET("/:client_id/tags", preferences.GetTagPolicy)
		prefGroup.PUT("/:client_id/tags", preferences.PutTagPolicy)
	}

	return r
}
