package service

import (
	"career_insight_engine/internal/config"
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
	"career_insight_engine/internal/validation"
	"career_insight_engine/pkg/logger"
	"career_insight_engine/pkg/monitoring"
	"career_insight_engine/pkg/security"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvitationStore is the persistence seam for invitations; the gorm
// repository satisfies it in production.
type InvitationStore interface {
	Create(inv *model.AdvisorInvitation) error
	FindByID(id string) (*model.AdvisorInvitation, error)
	FindByToken(token string) (*model.AdvisorInvitation, error)
	FindBySession(sessionID string) ([]model.AdvisorInvitation, error)
	CountBySession(sessionID string) (int64, error)
	ExistsForEmail(sessionID, email string) (bool, error)
	Update(inv *model.AdvisorInvitation) error
	ListExpirable(cutoff time.Time) ([]model.AdvisorInvitation, error)
}

// ResponseStore is the persistence seam for advisor responses.
type ResponseStore interface {
	CreateAll(responses []*model.AdvisorResponse) error
	FindByInvitation(invitationID string) ([]model.AdvisorResponse, error)
	FindBySession(sessionID string) ([]model.AdvisorResponse, error)
}

// InvitationMailer is the email dispatch collaborator.
type InvitationMailer interface {
	SendInvitation(ctx context.Context, inv *model.AdvisorInvitation, params InvitationTemplateParams) error
	SendReminder(ctx context.Context, inv *model.AdvisorInvitation, params InvitationTemplateParams) error
}

// AdvisorService is the single authority for the advisor invitation
// lifecycle, response submission and derived analytics.
type AdvisorService struct {
	invitations InvitationStore
	responses   ResponseStore
	mailer      InvitationMailer
	limiter     *security.InvitationLimiter
	rdb         *redis.Client
	cfg         *config.Config

	// sessionLocks serializes the duplicate/limit check and insert per
	// session so two concurrent creates cannot both pass.
	lockMu       sync.Mutex
	sessionLocks map[string]*sync.Mutex

	now func() time.Time
}

func NewAdvisorService(invitations InvitationStore, responses ResponseStore, mailer InvitationMailer, limiter *security.InvitationLimiter, rdb *redis.Client, cfg *config.Config) *AdvisorService {
	return &AdvisorService{
		invitations:  invitations,
		responses:    responses,
		mailer:       mailer,
		limiter:      limiter,
		rdb:          rdb,
		cfg:          cfg,
		sessionLocks: make(map[string]*sync.Mutex),
		now:          time.Now,
	}
}

func (s *AdvisorService) sessionLock(sessionID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	mu, ok := s.sessionLocks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		s.sessionLocks[sessionID] = mu
	}
	return mu
}

// CreateInvitationInput carries everything needed to draft an invitation.
type CreateInvitationInput struct {
	SessionID              string
	AdvisorName            string
	AdvisorEmail           string
	AdvisorPhone           string
	Relationship           model.RelationshipType
	PersonalMessage        string
	IncludePersonalMessage bool
	ClientIP               string
}

// CreateInvitation drafts an invitation after validating the input, the
// per-client rate limit, the per-session advisor cap and the duplicate-email
// rule (case-insensitive). The created record is returned in draft status.
func (s *AdvisorService) CreateInvitation(in CreateInvitationInput) (*model.AdvisorInvitation, error) {
	check := security.ValidateInvitationCreation(in.SessionID, in.AdvisorEmail, in.ClientIP, nil)
	if !check.IsValid {
		return nil, fmt.Errorf("%w: %s", util.ErrValidationFailed, strings.Join(check.Errors, "; "))
	}
	if s.limiter != nil {
		if res := s.limiter.Check(in.ClientIP); !res.Allowed {
			return nil, fmt.Errorf("%w: retry in %s", util.ErrRateLimited, res.RetryAfter.Round(time.Second))
		}
	}
	if strings.TrimSpace(in.AdvisorName) == "" {
		return nil, fmt.Errorf("%w: advisor name is required", util.ErrValidationFailed)
	}
	if !in.Relationship.Valid() {
		return nil, fmt.Errorf("%w: unknown relationship type %q", util.ErrValidationFailed, in.Relationship)
	}

	mu := s.sessionLock(in.SessionID)
	mu.Lock()
	defer mu.Unlock()

	count, err := s.invitations.CountBySession(in.SessionID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.cfg.Advisor.MaxAdvisorsPerSession) {
		return nil, util.ErrAdvisorLimitExceeded
	}

	exists, err := s.invitations.ExistsForEmail(in.SessionID, in.AdvisorEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateAdvisor
	}

	message := ""
	if in.IncludePersonalMessage {
		message = in.PersonalMessage
	}

	inv := &model.AdvisorInvitation{
		SessionID:       in.SessionID,
		AdvisorName:     strings.TrimSpace(in.AdvisorName),
		AdvisorEmail:    strings.TrimSpace(in.AdvisorEmail),
		AdvisorPhone:    strings.TrimSpace(in.AdvisorPhone),
		Relationship:    in.Relationship,
		PersonalMessage: message,
		Status:          model.InvitationDraft,
		ResponseToken:   security.GenerateSecureToken(""),
	}

	if err := s.invitations.Create(inv); err != nil {
		return nil, err
	}

	monitoring.InvitationsCreated.Inc()
	s.invalidateSessionCache(in.SessionID)
	return inv, nil
}

// SendInvitationEmail dispatches the invitation mail and, only on success,
// moves the invitation from draft to sent. A failed or timed-out dispatch
// leaves the record in draft.
func (s *AdvisorService) SendInvitationEmail(ctx context.Context, invitationID, userName, userTitle, companyName string) (*model.AdvisorInvitation, error) {
	inv, err := s.findInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	if !inv.Status.CanTransitionTo(model.InvitationSent) {
		return nil, fmt.Errorf("%w: cannot send invitation in status %s", util.ErrInvalidStatusTransition, inv.Status)
	}

	params := InvitationTemplateParams{
		UserName:    userName,
		UserTitle:   userTitle,
		CompanyName: companyName,
		AdvisorName: inv.AdvisorName,
		Message:     inv.PersonalMessage,
		ResponseURL: s.responseURL(inv.ResponseToken),
	}
	if err := s.mailer.SendInvitation(ctx, inv, params); err != nil {
		return nil, err
	}

	now := s.now()
	inv.Status = model.InvitationSent
	inv.SentAt = &now
	if err := s.invitations.Update(inv); err != nil {
		return nil, err
	}

	monitoring.InvitationTransitions.WithLabelValues(string(model.InvitationSent)).Inc()
	s.invalidateSessionCache(inv.SessionID)
	return inv, nil
}

// MarkInvitationViewed transitions sent to viewed and stamps viewedAt on the
// first call only. Any other state is left untouched.
func (s *AdvisorService) MarkInvitationViewed(invitationID string) (*model.AdvisorInvitation, error) {
	inv, err := s.findInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	return s.markViewed(inv)
}

// ViewInvitationByToken resolves the advisor's response token and records
// the view. This is the unauthenticated entry point behind the emailed link.
func (s *AdvisorService) ViewInvitationByToken(token string) (*model.AdvisorInvitation, error) {
	inv, err := s.findInvitationByToken(token)
	if err != nil {
		return nil, err
	}
	return s.markViewed(inv)
}

func (s *AdvisorService) markViewed(inv *model.AdvisorInvitation) (*model.AdvisorInvitation, error) {
	if inv.Status != model.InvitationSent {
		return inv, nil
	}

	now := s.now()
	inv.Status = model.InvitationViewed
	inv.ViewedAt = &now
	if err := s.invitations.Update(inv); err != nil {
		return nil, err
	}

	monitoring.InvitationTransitions.WithLabelValues(string(model.InvitationViewed)).Inc()
	s.invalidateSessionCache(inv.SessionID)
	return inv, nil
}

// QuestionResponse is one answered question within a submission. Order in
// the slice is the order responses are created and returned in.
type QuestionResponse struct {
	QuestionID       string
	Text             string
	ConfidenceLevel  int
	SpecificExamples []string
}

// SubmitResponsesInput is the advisor's full submission.
type SubmitResponsesInput struct {
	Answers           []QuestionResponse
	ObservationPeriod model.ObservationPeriod
	ConfidenceContext model.ConfidenceContext
	AdditionalContext string
	IsAnonymous       bool
}

// SubmitAdvisorResponses validates and persists all responses in one
// transaction and completes the invitation. Nothing is written when any
// answer fails validation.
func (s *AdvisorService) SubmitAdvisorResponses(invitationID string, in SubmitResponsesInput) ([]*model.AdvisorResponse, error) {
	inv, err := s.findInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	if !inv.Status.CanTransitionTo(model.InvitationCompleted) {
		return nil, fmt.Errorf("%w: cannot complete invitation in status %s", util.ErrInvalidStatusTransition, inv.Status)
	}

	if len(in.Answers) == 0 {
		return nil, fmt.Errorf("%w: no responses submitted", util.ErrValidationFailed)
	}
	if !in.ObservationPeriod.Valid() {
		return nil, fmt.Errorf("%w: unknown observation period %q", util.ErrValidationFailed, in.ObservationPeriod)
	}
	if !in.ConfidenceContext.Valid() {
		return nil, fmt.Errorf("%w: unknown confidence context %q", util.ErrValidationFailed, in.ConfidenceContext)
	}

	records := make([]*model.AdvisorResponse, 0, len(in.Answers))
	for _, ans := range in.Answers {
		if check := validation.ValidateResponseText(ans.Text); !check.IsValid {
			return nil, fmt.Errorf("%w: question %s: %s", util.ErrValidationFailed, ans.QuestionID, strings.Join(check.Errors, "; "))
		}
		if ans.ConfidenceLevel < 1 || ans.ConfidenceLevel > 5 {
			return nil, fmt.Errorf("%w: question %s: confidence level must be 1-5", util.ErrValidationFailed, ans.QuestionID)
		}

		var examples json.RawMessage
		if len(ans.SpecificExamples) > 0 {
			examples, _ = json.Marshal(ans.SpecificExamples)
		}

		records = append(records, &model.AdvisorResponse{
			InvitationID:      inv.ID,
			QuestionID:        ans.QuestionID,
			Response:          ans.Text,
			ConfidenceLevel:   ans.ConfidenceLevel,
			QualityScore:      validation.CalculateResponseQuality(ans.Text),
			SpecificExamples:  examples,
			ObservationPeriod: in.ObservationPeriod,
			ConfidenceContext: in.ConfidenceContext,
			AdditionalContext: in.AdditionalContext,
			IsAnonymous:       in.IsAnonymous,
		})
	}

	if err := s.responses.CreateAll(records); err != nil {
		return nil, err
	}

	now := s.now()
	inv.Status = model.InvitationCompleted
	inv.CompletedAt = &now
	if err := s.invitations.Update(inv); err != nil {
		return nil, err
	}

	monitoring.ResponsesSubmitted.Add(float64(len(records)))
	monitoring.InvitationTransitions.WithLabelValues(string(model.InvitationCompleted)).Inc()
	s.invalidateSessionCache(inv.SessionID)
	return records, nil
}

// SubmitResponsesByToken is the unauthenticated submission path.
func (s *AdvisorService) SubmitResponsesByToken(token string, in SubmitResponsesInput) ([]*model.AdvisorResponse, error) {
	inv, err := s.findInvitationByToken(token)
	if err != nil {
		return nil, err
	}
	return s.SubmitAdvisorResponses(inv.ID, in)
}

// DeclineInvitation records a terminal decline. Declining an already
// declined invitation is a no-op.
func (s *AdvisorService) DeclineInvitation(token string) (*model.AdvisorInvitation, error) {
	inv, err := s.findInvitationByToken(token)
	if err != nil {
		return nil, err
	}

	if inv.Status == model.InvitationDeclined {
		return inv, nil
	}
	if !inv.Status.CanTransitionTo(model.InvitationDeclined) {
		return nil, fmt.Errorf("%w: cannot decline invitation in status %s", util.ErrInvalidStatusTransition, inv.Status)
	}

	inv.Status = model.InvitationDeclined
	if err := s.invitations.Update(inv); err != nil {
		return nil, err
	}

	monitoring.InvitationTransitions.WithLabelValues(string(model.InvitationDeclined)).Inc()
	s.invalidateSessionCache(inv.SessionID)
	return inv, nil
}

// RecordReminder sends a reminder email and bumps the reminder count.
// Reminders are only valid while the invitation is sent or viewed, and are
// capped by configuration.
func (s *AdvisorService) RecordReminder(ctx context.Context, invitationID, userName string) (*model.AdvisorInvitation, error) {
	inv, err := s.findInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	if !inv.Status.AcceptsReminders() {
		return nil, fmt.Errorf("%w: cannot remind invitation in status %s", util.ErrInvalidStatusTransition, inv.Status)
	}
	if inv.ReminderCount >= s.cfg.Advisor.MaxReminders {
		return nil, util.ErrReminderLimitReached
	}

	params := InvitationTemplateParams{
		UserName:    userName,
		AdvisorName: inv.AdvisorName,
		ResponseURL: s.responseURL(inv.ResponseToken),
	}
	if err := s.mailer.SendReminder(ctx, inv, params); err != nil {
		return nil, err
	}

	inv.ReminderCount++
	if err := s.invitations.Update(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvitationByID returns nil for a missing id instead of an error, so UI
// polling does not have to treat absence as a failure.
func (s *AdvisorService) GetInvitationByID(id string) (*model.AdvisorInvitation, error) {
	inv, err := s.invitations.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

// GetInvitationsForSession lists a session's invitations, most recently
// created first.
func (s *AdvisorService) GetInvitationsForSession(sessionID string) ([]model.AdvisorInvitation, error) {
	return s.invitations.FindBySession(sessionID)
}

// GetAdvisorAnalytics aggregates the advisor funnel for a session. It never
// fails: storage problems are logged and degrade to zeroed analytics.
func (s *AdvisorService) GetAdvisorAnalytics(sessionID string) *model.AdvisorAnalytics {
	if cached, ok := s.cacheGet(analyticsCacheKey(sessionID)); ok {
		var out model.AdvisorAnalytics
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out
		}
	}

	analytics := &model.AdvisorAnalytics{
		SessionID:      sessionID,
		ByRelationship: make(map[model.RelationshipType]int),
		ResponseTimes:  make(map[model.ResponseTimeBucket]int),
	}

	invs, err := s.invitations.FindBySession(sessionID)
	if err != nil {
		s.logDegraded("load invitations for analytics", sessionID, err)
		return analytics
	}

	analytics.TotalInvitations = len(invs)
	for _, inv := range invs {
		analytics.ByRelationship[inv.Relationship]++

		switch inv.Status {
		case model.InvitationCompleted:
			analytics.CompletedInvitations++
			if inv.SentAt != nil && inv.CompletedAt != nil {
				analytics.ResponseTimes[responseTimeBucket(inv.CompletedAt.Sub(*inv.SentAt))]++
			}
		case model.InvitationDeclined:
			analytics.DeclinedInvitations++
		case model.InvitationExpired:
			analytics.ExpiredInvitations++
		default:
			analytics.PendingInvitations++
		}
	}

	if analytics.TotalInvitations > 0 {
		total := float64(analytics.TotalInvitations)
		analytics.CompletionRate = float64(analytics.CompletedInvitations) / total
		analytics.DeclineRate = float64(analytics.DeclinedInvitations) / total
	}

	responses, err := s.responses.FindBySession(sessionID)
	if err != nil {
		s.logDegraded("load responses for analytics", sessionID, err)
	} else if len(responses) > 0 {
		var qualitySum, confidenceSum float64
		for _, r := range responses {
			qualitySum += r.QualityScore
			confidenceSum += float64(r.ConfidenceLevel)
		}
		analytics.AverageQuality = qualitySum / float64(len(responses))
		analytics.AverageAdvisorRating = confidenceSum / float64(len(responses))
	}

	s.cacheSet(analyticsCacheKey(sessionID), analytics)
	return analytics
}

// GenerateFeedbackSummary condenses response quality and credibility for a
// session. Always succeeds, degrading to an empty summary.
func (s *AdvisorService) GenerateFeedbackSummary(sessionID string) *model.FeedbackSummary {
	if cached, ok := s.cacheGet(summaryCacheKey(sessionID)); ok {
		var out model.FeedbackSummary
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out
		}
	}

	summary := &model.FeedbackSummary{SessionID: sessionID}

	responses, err := s.responses.FindBySession(sessionID)
	if err != nil {
		s.logDegraded("load responses for summary", sessionID, err)
		return summary
	}
	if len(responses) == 0 {
		return summary
	}

	relationshipByInvitation := make(map[string]model.RelationshipType)
	if invs, err := s.invitations.FindBySession(sessionID); err == nil {
		for _, inv := range invs {
			relationshipByInvitation[inv.ID] = inv.Relationship
		}
	} else {
		s.logDegraded("load invitations for summary", sessionID, err)
	}

	advisors := make(map[string]bool)
	var qualitySum, confidenceSum, credibilitySum float64
	for _, r := range responses {
		advisors[r.InvitationID] = true
		qualitySum += r.QualityScore
		confidenceSum += float64(r.ConfidenceLevel)

		relWeight := 0.5
		if rel, ok := relationshipByInvitation[r.InvitationID]; ok {
			relWeight = rel.CredibilityWeight()
		}
		credibilitySum += (r.ObservationPeriod.Weight() + r.ConfidenceContext.Weight() + relWeight) / 3
	}

	n := float64(len(responses))
	summary.HasResponses = true
	summary.TotalResponses = len(responses)
	summary.AdvisorsResponded = len(advisors)
	summary.AverageQuality = qualitySum / n
	summary.AverageConfidence = confidenceSum / n
	summary.CredibilityScore = credibilitySum / n

	s.cacheSet(summaryCacheKey(sessionID), summary)
	return summary
}

// GetResponsesForInvitation returns the persisted responses of one advisor.
func (s *AdvisorService) GetResponsesForInvitation(invitationID string) ([]model.AdvisorResponse, error) {
	if _, err := s.findInvitation(invitationID); err != nil {
		return nil, err
	}
	return s.responses.FindByInvitation(invitationID)
}

// ExpireStaleInvitations moves sent/viewed invitations past the configured
// TTL to expired. Returns how many were expired.
func (s *AdvisorService) ExpireStaleInvitations() (int, error) {
	cutoff := s.now().Add(-s.cfg.Advisor.InvitationTTL)
	stale, err := s.invitations.ListExpirable(cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		inv := &stale[i]
		if !inv.Status.CanTransitionTo(model.InvitationExpired) {
			continue
		}
		inv.Status = model.InvitationExpired
		if err := s.invitations.Update(inv); err != nil {
			return expired, err
		}
		monitoring.InvitationTransitions.WithLabelValues(string(model.InvitationExpired)).Inc()
		s.invalidateSessionCache(inv.SessionID)
		expired++
	}
	return expired, nil
}

func (s *AdvisorService) findInvitation(id string) (*model.AdvisorInvitation, error) {
	inv, err := s.invitations.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *AdvisorService) findInvitationByToken(token string) (*model.AdvisorInvitation, error) {
	inv, err := s.invitations.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *AdvisorService) responseURL(token string) string {
	base := strings.TrimRight(s.cfg.Server.PublicURL, "/")
	return base + "/advisor/respond/" + token
}

func responseTimeBucket(d time.Duration) model.ResponseTimeBucket {
	switch {
	case d < 24*time.Hour:
		return model.BucketUnderOneDay
	case d < 3*24*time.Hour:
		return model.BucketOneToThreeDay
	case d < 7*24*time.Hour:
		return model.BucketThreeToSeven
	default:
		return model.BucketOverSevenDays
	}
}

const sessionCacheTTL = 5 * time.Minute

func analyticsCacheKey(sessionID string) string {
	return "advisor:analytics:" + sessionID
}

func summaryCacheKey(sessionID string) string {
	return "advisor:summary:" + sessionID
}

func (s *AdvisorService) cacheGet(key string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	val, err := s.rdb.Get(context.Background(), key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *AdvisorService) cacheSet(key string, v interface{}) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.rdb.Set(context.Background(), key, payload, sessionCacheTTL)
}

func (s *AdvisorService) invalidateSessionCache(sessionID string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(context.Background(), analyticsCacheKey(sessionID), summaryCacheKey(sessionID))
}

func (s *AdvisorService) logDegraded(op, sessionID string, err error) {
	if logger.Log != nil {
		logger.Log.Warn("advisor analytics degraded",
			zap.String("op", op),
			zap.String("sessionId", sessionID),
			zap.Error(err))
	}
}
