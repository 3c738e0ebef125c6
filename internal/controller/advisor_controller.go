package controller

import (
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/service"
	"career_insight_engine/internal/util"
	"sort"

	"github.com/gin-gonic/gin"
)

type AdvisorController struct {
	Service     *service.AdvisorService
	Assessments *service.AssessmentService
	Auth        *service.AuthService
}

func NewAdvisorController(svc *service.AdvisorService, assessments *service.AssessmentService, auth *service.AuthService) *AdvisorController {
	return &AdvisorController{Service: svc, Assessments: assessments, Auth: auth}
}

type createInvitationRequest struct {
	AdvisorName            string                 `json:"advisorName" binding:"required"`
	AdvisorEmail           string                 `json:"advisorEmail" binding:"required"`
	AdvisorPhone           string                 `json:"advisorPhone"`
	Relationship           model.RelationshipType `json:"relationship" binding:"required"`
	PersonalMessage        string                 `json:"personalMessage"`
	IncludePersonalMessage bool                   `json:"includePersonalMessage"`
}

// @Summary Invite an advisor to give feedback on a session
// @Tags advisors
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Param body body createInvitationRequest true "advisor details"
// @Success 201 {object} util.Response
// @Router /api/sessions/{id}/advisors [post]
func (c *AdvisorController) CreateInvitation(ctx *gin.Context) {
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

	var req createInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	inv, err := c.Service.CreateInvitation(service.CreateInvitationInput{
		SessionID:              sessionID,
		AdvisorName:            req.AdvisorName,
		AdvisorEmail:           req.AdvisorEmail,
		AdvisorPhone:           req.AdvisorPhone,
		Relationship:           req.Relationship,
		PersonalMessage:        req.PersonalMessage,
		IncludePersonalMessage: req.IncludePersonalMessage,
		ClientIP:               ctx.ClientIP(),
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, inv)
}

// @Summary List a session's advisor invitations
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/advisors [get]
func (c *AdvisorController) ListInvitations(ctx *gin.Context) {
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

	invs, err := c.Service.GetInvitationsForSession(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, invs)
}

// @Summary Get one advisor invitation
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "invitation id"
// @Success 200 {object} util.Response
// @Router /api/advisors/{id} [get]
func (c *AdvisorController) GetInvitation(ctx *gin.Context) {
	inv := c.ownedInvitation(ctx)
	if inv == nil {
		return
	}
	util.Success(ctx, inv)
}

// @Summary Send the invitation email
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "invitation id"
// @Success 200 {object} util.Response
// @Router /api/advisors/{id}/send [post]
func (c *AdvisorController) SendInvitation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	inv := c.ownedInvitation(ctx)
	if inv == nil {
		return
	}

	profile, err := c.Auth.GetUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	sent, err := c.Service.SendInvitationEmail(ctx.Request.Context(), inv.ID, profile.Name, profile.Title, profile.Company)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, sent)
}

// @Summary Send a reminder to an advisor
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "invitation id"
// @Success 200 {object} util.Response
// @Router /api/advisors/{id}/remind [post]
func (c *AdvisorController) RemindInvitation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	inv := c.ownedInvitation(ctx)
	if inv == nil {
		return
	}

	profile, err := c.Auth.GetUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	reminded, err := c.Service.RecordReminder(ctx.Request.Context(), inv.ID, profile.Name)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, reminded)
}

// @Summary Get the responses an advisor submitted
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "invitation id"
// @Success 200 {object} util.Response
// @Router /api/advisors/{id}/responses [get]
func (c *AdvisorController) GetResponses(ctx *gin.Context) {
	inv := c.ownedInvitation(ctx)
	if inv == nil {
		return
	}

	responses, err := c.Service.GetResponsesForInvitation(inv.ID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, responses)
}

// @Summary Advisor funnel analytics for a session
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/advisors/analytics [get]
func (c *AdvisorController) GetAnalytics(ctx *gin.Context) {
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

	util.Success(ctx, c.Service.GetAdvisorAnalytics(sessionID))
}

// @Summary Feedback summary for a session
// @Tags advisors
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/advisors/summary [get]
func (c *AdvisorController) GetSummary(ctx *gin.Context) {
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

	util.Success(ctx, c.Service.GenerateFeedbackSummary(sessionID))
}

// feedbackQuestion is what the advisor-facing form renders.
type feedbackQuestion struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

func feedbackQuestions() []feedbackQuestion {
	return []feedbackQuestion{
		{ID: util.QuestionStrengths, Prompt: "What are this person's greatest professional strengths?"},
		{ID: util.QuestionGrowthAreas, Prompt: "Where do they have the most room to grow?"},
		{ID: util.QuestionBlindSpots, Prompt: "What might they not see about themselves?"},
		{ID: util.QuestionBestContext, Prompt: "In what context have you seen them at their best?"},
		{ID: util.QuestionOneChange, Prompt: "If they changed one thing, what would have the most impact?"},
	}
}

// @Summary Open a feedback form via the emailed token
// @Tags feedback
// @Produce json
// @Param token path string true "response token"
// @Success 200 {object} util.Response
// @Router /api/feedback/{token} [get]
func (c *AdvisorController) ViewFeedbackForm(ctx *gin.Context) {
	inv, err := c.Service.ViewInvitationByToken(ctx.Param("token"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"invitation": inv,
		"questions":  feedbackQuestions(),
	})
}

type questionAnswer struct {
	Text             string   `json:"text"`
	ConfidenceLevel  int      `json:"confidenceLevel"`
	SpecificExamples []string `json:"specificExamples"`
}

type submitFeedbackRequest struct {
	Responses         map[string]questionAnswer `json:"responses" binding:"required"`
	ObservationPeriod model.ObservationPeriod   `json:"observationPeriod" binding:"required"`
	ConfidenceContext model.ConfidenceContext   `json:"confidenceContext" binding:"required"`
	AdditionalContext string                    `json:"additionalContext"`
	IsAnonymous       bool                      `json:"isAnonymous"`
}

// @Summary Submit advisor feedback via the emailed token
// @Tags feedback
// @Accept json
// @Produce json
// @Param token path string true "response token"
// @Param body body submitFeedbackRequest true "feedback"
// @Success 201 {object} util.Response
// @Router /api/feedback/{token}/responses [post]
func (c *AdvisorController) SubmitFeedback(ctx *gin.Context) {
	var req submitFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// deterministic answer order regardless of JSON map iteration
	questionIDs := make([]string, 0, len(req.Responses))
	for id := range req.Responses {
		questionIDs = append(questionIDs, id)
	}
	sort.Strings(questionIDs)

	answers := make([]service.QuestionResponse, 0, len(questionIDs))
	for _, id := range questionIDs {
		ans := req.Responses[id]
		answers = append(answers, service.QuestionResponse{
			QuestionID:       id,
			Text:             ans.Text,
			ConfidenceLevel:  ans.ConfidenceLevel,
			SpecificExamples: ans.SpecificExamples,
		})
	}

	records, err := c.Service.SubmitResponsesByToken(ctx.Param("token"), service.SubmitResponsesInput{
		Answers:           answers,
		ObservationPeriod: req.ObservationPeriod,
		ConfidenceContext: req.ConfidenceContext,
		AdditionalContext: req.AdditionalContext,
		IsAnonymous:       req.IsAnonymous,
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, records)
}

// @Summary Decline to give feedback via the emailed token
// @Tags feedback
// @Produce json
// @Param token path string true "response token"
// @Success 200 {object} util.Response
// @Router /api/feedback/{token}/decline [post]
func (c *AdvisorController) DeclineFeedback(ctx *gin.Context) {
	inv, err := c.Service.DeclineInvitation(ctx.Param("token"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, inv)
}

// ownedInvitation loads the invitation from the path and verifies the caller
// owns its session. It writes the error response itself and returns nil when
// the caller should stop.
func (c *AdvisorController) ownedInvitation(ctx *gin.Context) *model.AdvisorInvitation {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil
	}

	inv, err := c.Service.GetInvitationByID(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return nil
	}
	if inv == nil {
		util.NotFound(ctx)
		return nil
	}

	if _, err := c.Assessments.GetSession(user.UserID, inv.SessionID); err != nil {
		handleServiceError(ctx, err)
		return nil
	}
	return inv
}
