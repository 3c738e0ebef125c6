package app

import (
	"career_insight_engine/docs"
	"career_insight_engine/internal/config"
	"career_insight_engine/internal/middleware"
	"career_insight_engine/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerSessionRoutes(authGroup, c)
		a.registerExperimentRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/domains", c.assessment.ListDomains)
	}

	// advisor-facing routes, authenticated by response token only
	feedback := router.Group("/api/feedback")
	{
		feedback.GET("/:token", c.advisor.ViewFeedbackForm)
		feedback.POST("/:token/responses", c.advisor.SubmitFeedback)
		feedback.POST("/:token/decline", c.advisor.DeclineFeedback)
	}
}

func (a *App) registerSessionRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.POST("/sessions", c.assessment.CreateSession)
	rg.GET("/sessions", c.assessment.ListSessions)
	rg.GET("/sessions/:id", c.assessment.GetSession)
	rg.PUT("/sessions/:id/scores", c.assessment.RecordScore)
	rg.POST("/sessions/:id/complete", c.assessment.CompleteSession)

	rg.POST("/sessions/:id/advisors", c.advisor.CreateInvitation)
	rg.GET("/sessions/:id/advisors", c.advisor.ListInvitations)
	rg.GET("/sessions/:id/advisors/analytics", c.advisor.GetAnalytics)
	rg.GET("/sessions/:id/advisors/summary", c.advisor.GetSummary)
	rg.GET("/advisors/:id", c.advisor.GetInvitation)
	rg.POST("/advisors/:id/send", c.advisor.SendInvitation)
	rg.POST("/advisors/:id/remind", c.advisor.RemindInvitation)
	rg.GET("/advisors/:id/responses", c.advisor.GetResponses)

	rg.POST("/sessions/:id/insights/generate", c.insight.GenerateInsights)
	rg.GET("/sessions/:id/insights", c.insight.ListInsights)

	rg.POST("/sessions/:id/reports", c.report.GenerateReport)
	rg.GET("/sessions/:id/reports", c.report.ListReports)
	rg.GET("/reports/:id", c.report.GetReport)
}

func (a *App) registerExperimentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/experiments", c.experiment.CreateExperiment)
	rg.GET("/experiments", c.experiment.ListExperiments)
	rg.GET("/experiments/:id", c.experiment.GetExperiment)
	rg.PATCH("/experiments/:id/status", c.experiment.TransitionExperiment)
	rg.PATCH("/milestones/:milestoneId", c.experiment.SetMilestoneDone)
	rg.GET("/sessions/:id/experiments", c.experiment.ListSessionExperiments)
}
