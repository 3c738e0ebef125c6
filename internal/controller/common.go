package controller

import (
	"career_insight_engine/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleServiceError translates service sentinel errors into HTTP responses.
// Anything unrecognized is logged and reported as a 500.
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrValidationFailed):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrRateLimited):
		util.TooManyRequests(ctx, err.Error())
	case errors.Is(err, util.ErrAdvisorLimitExceeded),
		errors.Is(err, util.ErrDuplicateAdvisor),
		errors.Is(err, util.ErrInvalidStatusTransition),
		errors.Is(err, util.ErrReminderLimitReached),
		errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvitationNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrExperimentNotFound),
		errors.Is(err, util.ErrReportNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrEmailNotConfigured):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
