package controller

import (
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/service"
	"career_insight_engine/internal/util"

	"github.com/gin-gonic/gin"
)

type ExperimentController struct {
	Service     *service.ExperimentService
	Assessments *service.AssessmentService
}

func NewExperimentController(svc *service.ExperimentService, assessments *service.AssessmentService) *ExperimentController {
	return &ExperimentController{Service: svc, Assessments: assessments}
}

type createExperimentRequest struct {
	SessionID  string   `json:"sessionId"`
	Title      string   `json:"title" binding:"required"`
	Hypothesis string   `json:"hypothesis"`
	Milestones []string `json:"milestones"`
}

// @Summary Plan a career experiment
// @Tags experiments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body createExperimentRequest true "experiment details"
// @Success 201 {object} util.Response
// @Router /api/experiments [post]
func (c *ExperimentController) CreateExperiment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req createExperimentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exp, err := c.Service.CreateExperiment(service.CreateExperimentInput{
		UserID:     user.UserID,
		SessionID:  req.SessionID,
		Title:      req.Title,
		Hypothesis: req.Hypothesis,
		Milestones: req.Milestones,
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, exp)
}

// @Summary List the current user's experiments
// @Tags experiments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/experiments [get]
func (c *ExperimentController) ListExperiments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exps, err := c.Service.ListExperiments(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exps)
}

// @Summary Get one experiment with its milestones
// @Tags experiments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "experiment id"
// @Success 200 {object} util.Response
// @Router /api/experiments/{id} [get]
func (c *ExperimentController) GetExperiment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exp, err := c.Service.GetExperiment(user.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exp)
}

// @Summary List the experiments attached to a session
// @Tags experiments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/experiments [get]
func (c *ExperimentController) ListSessionExperiments(ctx *gin.Context) {
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

	exps, err := c.Service.ListSessionExperiments(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exps)
}

type transitionRequest struct {
	Status model.ExperimentStatus `json:"status" binding:"required"`
}

// @Summary Transition an experiment's status
// @Tags experiments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "experiment id"
// @Param body body transitionRequest true "target status"
// @Success 200 {object} util.Response
// @Router /api/experiments/{id}/status [patch]
func (c *ExperimentController) TransitionExperiment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req transitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exp, err := c.Service.TransitionExperiment(user.UserID, ctx.Param("id"), req.Status)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exp)
}

type milestoneRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// @Summary Check or uncheck a milestone
// @Tags experiments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param milestoneId path string true "milestone id"
// @Param body body milestoneRequest true "done flag"
// @Success 200 {object} util.Response
// @Router /api/milestones/{milestoneId} [patch]
func (c *ExperimentController) SetMilestoneDone(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req milestoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exp, err := c.Service.SetMilestoneDone(user.UserID, ctx.Param("milestoneId"), *req.Done)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, exp)
}
