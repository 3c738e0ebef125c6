package controller

import (
	"career_insight_engine/internal/service"
	"career_insight_engine/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Service     *service.ReportService
	Assessments *service.AssessmentService
}

func NewReportController(svc *service.ReportService, assessments *service.AssessmentService) *ReportController {
	return &ReportController{Service: svc, Assessments: assessments}
}

// @Summary Generate a session report artifact
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 201 {object} util.Response
// @Router /api/sessions/{id}/reports [post]
func (c *ReportController) GenerateReport(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.Service.GenerateReport(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, report)
}

// @Summary List a session's reports
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/reports [get]
func (c *ReportController) ListReports(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID := ctx.Param("id")
	if _, err := c.Assessments.GetSession(user.UserID, sessionID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	reports, err := c.Service.ListReports(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, reports)
}

// @Summary Get one report
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "report id"
// @Success 200 {object} util.Response
// @Router /api/reports/{id} [get]
func (c *ReportController) GetReport(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.Service.GetReport(user.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
