package util

import "errors"

var (
	ErrAdvisorLimitExceeded    = errors.New("advisor limit reached for this session")
	ErrDuplicateAdvisor        = errors.New("advisor already invited for this session")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrSessionNotFound         = errors.New("session not found")
	ErrExperimentNotFound      = errors.New("experiment not found")
	ErrReportNotFound          = errors.New("report not found")
	ErrEmailRegistered         = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrEmailNotConfigured      = errors.New("email dispatch not configured")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrReminderLimitReached    = errors.New("reminder limit reached")
	ErrRateLimited             = errors.New("too many invitation attempts")
)
