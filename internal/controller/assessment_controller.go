package controller

import (
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/service"
	"career_insight_engine/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

type createSessionRequest struct {
	Title     string `json:"title" binding:"required"`
	FocusArea string `json:"focusArea"`
}

// @Summary Start a new assessment session
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body createSessionRequest true "session details"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *AssessmentController) CreateSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req createSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.CreateSession(user.UserID, req.Title, req.FocusArea)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary List the current user's sessions
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/sessions [get]
func (c *AssessmentController) ListSessions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.Service.ListSessions(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// @Summary Get one session with its scores
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *AssessmentController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Service.GetSession(user.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

type recordScoreRequest struct {
	Domain    model.CareerDomain `json:"domain" binding:"required"`
	SelfScore int                `json:"selfScore" binding:"required"`
	Notes     string             `json:"notes"`
}

// @Summary Record a self score for a career domain
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Param body body recordScoreRequest true "score"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/scores [put]
func (c *AssessmentController) RecordScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req recordScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	score, err := c.Service.RecordDomainScore(user.UserID, ctx.Param("id"), req.Domain, req.SelfScore, req.Notes)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, score)
}

// @Summary Complete a session
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/complete [post]
func (c *AssessmentController) CompleteSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Service.CompleteSession(user.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

// @Summary List the assessable career domains
// @Tags sessions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/domains [get]
func (c *AssessmentController) ListDomains(ctx *gin.Context) {
	type domainInfo struct {
		ID    model.CareerDomain `json:"id"`
		Label string             `json:"label"`
	}
	var out []domainInfo
	for _, d := range model.CareerDomains() {
		out = append(out, domainInfo{ID: d, Label: d.Label()})
	}
	util.Success(ctx, out)
}
