package controller

import (
	"career_insight_engine/internal/service"
	"career_insight_engine/internal/util"

	"github.com/gin-gonic/gin"
)

type InsightController struct {
	Service     *service.InsightService
	Assessments *service.AssessmentService
}

func NewInsightController(svc *service.InsightService, assessments *service.AssessmentService) *InsightController {
	return &InsightController{Service: svc, Assessments: assessments}
}

// @Summary Regenerate insights for a session
// @Tags insights
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/insights/generate [post]
func (c *InsightController) GenerateInsights(ctx *gin.Context) {
	sessionID, ok := c.ownedSession(ctx)
	if !ok {
		return
	}

	insights, err := c.Service.GenerateInsights(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, insights)
}

// @Summary List a session's insights
// @Tags insights
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/insights [get]
func (c *InsightController) ListInsights(ctx *gin.Context) {
	sessionID, ok := c.ownedSession(ctx)
	if !ok {
		return
	}

	insights, err := c.Service.GetInsights(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, insights)
}

func (c *InsightController) ownedSession(ctx *gin.Context) (string, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return "", false
	}

	sessionID := ctx.Param("id")
	if _, err := c.Assessments.GetSession(user.UserID, sessionID); err != nil {
		handleServiceError(ctx, err)
		return "", false
	}
	return sessionID, true
}
