package service

import (
	"career_insight_engine/internal/config"
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
	"career_insight_engine/pkg/logger"
	"career_insight_engine/pkg/security"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// ---- fakes ----

type fakeInvitationStore struct {
	mu        sync.Mutex
	items     map[string]*model.AdvisorInvitation
	order     []string
	createErr error
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{items: make(map[string]*model.AdvisorInvitation)}
}

func (f *fakeInvitationStore) Create(inv *model.AdvisorInvitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	cp := *inv
	f.items[inv.ID] = &cp
	f.order = append(f.order, inv.ID)
	return nil
}

func (f *fakeInvitationStore) FindByID(id string) (*model.AdvisorInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationStore) FindByToken(token string) (*model.AdvisorInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.items {
		if inv.ResponseToken == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvitationStore) FindBySession(sessionID string) ([]model.AdvisorInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AdvisorInvitation
	for i := len(f.order) - 1; i >= 0; i-- {
		inv := f.items[f.order[i]]
		if inv.SessionID == sessionID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) CountBySession(sessionID string) (int64, error) {
	invs, _ := f.FindBySession(sessionID)
	return int64(len(invs)), nil
}

func (f *fakeInvitationStore) ExistsForEmail(sessionID, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.items {
		if inv.SessionID == sessionID && strings.EqualFold(inv.AdvisorEmail, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationStore) Update(inv *model.AdvisorInvitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *inv
	f.items[inv.ID] = &cp
	return nil
}

func (f *fakeInvitationStore) ListExpirable(cutoff time.Time) ([]model.AdvisorInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AdvisorInvitation
	for _, id := range f.order {
		inv := f.items[id]
		if (inv.Status == model.InvitationSent || inv.Status == model.InvitationViewed) &&
			inv.SentAt != nil && inv.SentAt.Before(cutoff) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

type fakeResponseStore struct {
	mu            sync.Mutex
	records       []model.AdvisorResponse
	createErr     error
	lookupSession func(invitationID string) string
}

func newFakeResponseStore(invStore *fakeInvitationStore) *fakeResponseStore {
	return &fakeResponseStore{
		lookupSession: func(invitationID string) string {
			if inv, err := invStore.FindByID(invitationID); err == nil {
				return inv.SessionID
			}
			return ""
		},
	}
}

func (f *fakeResponseStore) CreateAll(responses []*model.AdvisorResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range responses {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		f.records = append(f.records, *r)
	}
	return nil
}

func (f *fakeResponseStore) FindByInvitation(invitationID string) ([]model.AdvisorResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AdvisorResponse
	for _, r := range f.records {
		if r.InvitationID == invitationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseStore) FindBySession(sessionID string) ([]model.AdvisorResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AdvisorResponse
	for _, r := range f.records {
		if f.lookupSession != nil && f.lookupSession(r.InvitationID) == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeMailer struct {
	invitations int
	reminders   int
	err         error
}

func (f *fakeMailer) SendInvitation(ctx context.Context, inv *model.AdvisorInvitation, params InvitationTemplateParams) error {
	if f.err != nil {
		return f.err
	}
	f.invitations++
	return nil
}

func (f *fakeMailer) SendReminder(ctx context.Context, inv *model.AdvisorInvitation, params InvitationTemplateParams) error {
	if f.err != nil {
		return f.err
	}
	f.reminders++
	return nil
}

// ---- helpers ----

const validAnswer = "They consistently broke large migrations into safe incremental steps. " +
	"For example, during the billing rewrite they shipped 12 reversible stages with zero downtime."

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{PublicURL: "https://app.example.com"},
		Advisor: config.AdvisorConfig{
			MaxAdvisorsPerSession: 4,
			InviteRateLimit:       100,
			InviteRateWindow:      time.Hour,
			InvitationTTL:         14 * 24 * time.Hour,
			MaxReminders:          3,
		},
	}
}

func newTestService() (*AdvisorService, *fakeInvitationStore, *fakeResponseStore, *fakeMailer) {
	invStore := newFakeInvitationStore()
	respStore := newFakeResponseStore(invStore)
	mailer := &fakeMailer{}
	limiter := security.NewInvitationLimiter(100, time.Hour)
	svc := NewAdvisorService(invStore, respStore, mailer, limiter, nil, testConfig())
	return svc, invStore, respStore, mailer
}

func createInput(sessionID, email string) CreateInvitationInput {
	return CreateInvitationInput{
		SessionID:    sessionID,
		AdvisorName:  "Dana Reyes",
		AdvisorEmail: email,
		Relationship: model.RelationshipColleague,
		ClientIP:     "10.0.0.1",
	}
}

func validSubmission() SubmitResponsesInput {
	return SubmitResponsesInput{
		Answers: []QuestionResponse{
			{QuestionID: util.QuestionStrengths, Text: validAnswer, ConfidenceLevel: 4},
			{QuestionID: util.QuestionGrowthAreas, Text: validAnswer, ConfidenceLevel: 3},
		},
		ObservationPeriod: model.ObservedOverTwoYears,
		ConfidenceContext: model.ContextWorkedDaily,
	}
}

// ---- tests ----

func TestCreateInvitationDraftsWithToken(t *testing.T) {
	svc, _, _, _ := newTestService()

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)

	assert.Equal(t, model.InvitationDraft, inv.Status)
	assert.NotEmpty(t, inv.ID)
	assert.Contains(t, inv.ResponseToken, security.DefaultTokenPrefix)
	assert.Nil(t, inv.SentAt)
	assert.Zero(t, inv.ReminderCount)
}

func TestCreateInvitationEnforcesAdvisorCap(t *testing.T) {
	svc, _, _, _ := newTestService()

	for i := 0; i < 4; i++ {
		email := fmt.Sprintf("advisor%d@example.com", i)
		_, err := svc.CreateInvitation(createInput("session-1", email))
		require.NoError(t, err)
	}

	_, err := svc.CreateInvitation(createInput("session-1", "fifth@example.com"))
	assert.ErrorIs(t, err, util.ErrAdvisorLimitExceeded)

	// the cap is per session, not global
	_, err = svc.CreateInvitation(createInput("session-2", "advisor0@example.com"))
	assert.NoError(t, err)
}

func TestCreateInvitationRateLimited(t *testing.T) {
	invStore := newFakeInvitationStore()
	respStore := newFakeResponseStore(invStore)
	limiter := security.NewInvitationLimiter(2, time.Hour)
	svc := NewAdvisorService(invStore, respStore, &fakeMailer{}, limiter, nil, testConfig())

	_, err := svc.CreateInvitation(createInput("session-1", "a@example.com"))
	require.NoError(t, err)
	_, err = svc.CreateInvitation(createInput("session-1", "b@example.com"))
	require.NoError(t, err)

	_, err = svc.CreateInvitation(createInput("session-1", "c@example.com"))
	assert.ErrorIs(t, err, util.ErrRateLimited)

	// other clients are unaffected
	in := createInput("session-1", "c@example.com")
	in.ClientIP = "10.0.0.2"
	_, err = svc.CreateInvitation(in)
	assert.NoError(t, err)
}

func TestCreateInvitationRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)

	_, err = svc.CreateInvitation(createInput("session-1", "DANA@Example.COM"))
	assert.ErrorIs(t, err, util.ErrDuplicateAdvisor)
}

func TestCreateInvitationValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []struct {
		name  string
		input CreateInvitationInput
	}{
		{"bad email", createInput("session-1", "not-an-email")},
		{"missing session", createInput("", "dana@example.com")},
		{"blank name", func() CreateInvitationInput {
			in := createInput("session-1", "dana@example.com")
			in.AdvisorName = "   "
			return in
		}()},
		{"unknown relationship", func() CreateInvitationInput {
			in := createInput("session-1", "dana@example.com")
			in.Relationship = model.RelationshipType("acquaintance")
			return in
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateInvitation(tc.input)
			assert.ErrorIs(t, err, util.ErrValidationFailed)
		})
	}
}

func TestCreateInvitationPersonalMessageFlag(t *testing.T) {
	svc, _, _, _ := newTestService()

	in := createInput("session-1", "a@example.com")
	in.PersonalMessage = "Would love your honest take."
	in.IncludePersonalMessage = false
	inv, err := svc.CreateInvitation(in)
	require.NoError(t, err)
	assert.Empty(t, inv.PersonalMessage)

	in = createInput("session-1", "b@example.com")
	in.PersonalMessage = "Would love your honest take."
	in.IncludePersonalMessage = true
	inv, err = svc.CreateInvitation(in)
	require.NoError(t, err)
	assert.Equal(t, "Would love your honest take.", inv.PersonalMessage)
}

func TestSendInvitationEmailTransitionsToSent(t *testing.T) {
	svc, store, _, mailer := newTestService()
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)

	sent, err := svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "Staff Engineer", "Acme")
	require.NoError(t, err)

	assert.Equal(t, model.InvitationSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.True(t, sent.SentAt.Equal(fixed))
	assert.Equal(t, 1, mailer.invitations)

	persisted, err := store.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationSent, persisted.Status)

	// resending an already-sent invitation is a transition error
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	assert.ErrorIs(t, err, util.ErrInvalidStatusTransition)
}

func TestSendInvitationEmailFailureLeavesDraft(t *testing.T) {
	svc, store, _, mailer := newTestService()
	mailer.err = errors.New("smtp unreachable")

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)

	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.Error(t, err)

	persisted, err := store.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationDraft, persisted.Status)
	assert.Nil(t, persisted.SentAt)
}

func TestMarkInvitationViewedIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService()
	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	viewed, err := svc.MarkInvitationViewed(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationViewed, viewed.Status)
	require.NotNil(t, viewed.ViewedAt)
	assert.True(t, viewed.ViewedAt.Equal(first))

	svc.now = func() time.Time { return first.Add(2 * time.Hour) }
	again, err := svc.MarkInvitationViewed(inv.ID)
	require.NoError(t, err)
	assert.True(t, again.ViewedAt.Equal(first), "second view must not move the timestamp")
}

func TestSubmitAdvisorResponsesFullLifecycle(t *testing.T) {
	svc, store, responses, _ := newTestService()

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	// advisor opens the emailed link
	opened, err := svc.ViewInvitationByToken(inv.ResponseToken)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationViewed, opened.Status)

	records, err := svc.SubmitResponsesByToken(inv.ResponseToken, validSubmission())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, util.QuestionStrengths, records[0].QuestionID)
	assert.Equal(t, util.QuestionGrowthAreas, records[1].QuestionID)
	for _, r := range records {
		assert.Greater(t, r.QualityScore, 0.0)
		assert.LessOrEqual(t, r.QualityScore, 1.0)
	}

	persisted, err := store.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationCompleted, persisted.Status)
	assert.NotNil(t, persisted.CompletedAt)

	stored, err := responses.FindByInvitation(inv.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// a completed invitation cannot be submitted again
	_, err = svc.SubmitResponsesByToken(inv.ResponseToken, validSubmission())
	assert.ErrorIs(t, err, util.ErrInvalidStatusTransition)
}

func TestSubmitAdvisorResponsesValidationIsAtomic(t *testing.T) {
	svc, _, responses, _ := newTestService()

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	in := validSubmission()
	in.Answers[1].Text = "too short"
	_, err = svc.SubmitAdvisorResponses(inv.ID, in)
	assert.ErrorIs(t, err, util.ErrValidationFailed)

	stored, err := responses.FindByInvitation(inv.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "no responses may be written when any answer fails validation")

	in = validSubmission()
	in.Answers[0].ConfidenceLevel = 6
	_, err = svc.SubmitAdvisorResponses(inv.ID, in)
	assert.ErrorIs(t, err, util.ErrValidationFailed)

	in = validSubmission()
	in.ObservationPeriod = model.ObservationPeriod("forever")
	_, err = svc.SubmitAdvisorResponses(inv.ID, in)
	assert.ErrorIs(t, err, util.ErrValidationFailed)
}

func TestSubmitAdvisorResponsesUnknownInvitation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.SubmitAdvisorResponses("missing-id", validSubmission())
	assert.ErrorIs(t, err, util.ErrInvitationNotFound)

	_, err = svc.SubmitResponsesByToken("invitation_deadbeef", validSubmission())
	assert.ErrorIs(t, err, util.ErrInvitationNotFound)
}

func TestDeclineInvitation(t *testing.T) {
	svc, _, _, _ := newTestService()

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	declined, err := svc.DeclineInvitation(inv.ResponseToken)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationDeclined, declined.Status)

	// declining again is a no-op
	again, err := svc.DeclineInvitation(inv.ResponseToken)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationDeclined, again.Status)

	// a declined invitation is terminal
	_, err = svc.SubmitResponsesByToken(inv.ResponseToken, validSubmission())
	assert.ErrorIs(t, err, util.ErrInvalidStatusTransition)
}

func TestRecordReminderLimits(t *testing.T) {
	svc, _, _, mailer := newTestService()

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)

	// drafts cannot be reminded
	_, err = svc.RecordReminder(context.Background(), inv.ID, "Jordan Lee")
	assert.ErrorIs(t, err, util.ErrInvalidStatusTransition)

	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		reminded, err := svc.RecordReminder(context.Background(), inv.ID, "Jordan Lee")
		require.NoError(t, err)
		assert.Equal(t, i, reminded.ReminderCount)
	}
	assert.Equal(t, 3, mailer.reminders)

	_, err = svc.RecordReminder(context.Background(), inv.ID, "Jordan Lee")
	assert.ErrorIs(t, err, util.ErrReminderLimitReached)
}

func TestRecordReminderMailFailureKeepsCount(t *testing.T) {
	svc, store, _, mailer := newTestService()

	inv, err := svc.CreateInvitation(createInput("session-1", "dana@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	mailer.err = errors.New("smtp unreachable")
	_, err = svc.RecordReminder(context.Background(), inv.ID, "Jordan Lee")
	require.Error(t, err)

	persisted, err := store.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Zero(t, persisted.ReminderCount)
}

func TestGetInvitationByIDMissingReturnsNil(t *testing.T) {
	svc, _, _, _ := newTestService()

	inv, err := svc.GetInvitationByID("does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, inv)
}

func TestGetAdvisorAnalyticsEmptySession(t *testing.T) {
	svc, _, _, _ := newTestService()

	analytics := svc.GetAdvisorAnalytics("empty-session")
	require.NotNil(t, analytics)
	assert.Equal(t, "empty-session", analytics.SessionID)
	assert.Zero(t, analytics.TotalInvitations)
	assert.Zero(t, analytics.CompletionRate)
	assert.NotNil(t, analytics.ByRelationship)
	assert.NotNil(t, analytics.ResponseTimes)
}

func TestGetAdvisorAnalyticsFunnel(t *testing.T) {
	svc, _, _, _ := newTestService()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// completed within a day
	svc.now = func() time.Time { return base }
	first, err := svc.CreateInvitation(createInput("session-1", "a@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), first.ID, "Jordan Lee", "", "")
	require.NoError(t, err)
	svc.now = func() time.Time { return base.Add(6 * time.Hour) }
	_, err = svc.SubmitAdvisorResponses(first.ID, validSubmission())
	require.NoError(t, err)

	// completed after five days
	svc.now = func() time.Time { return base }
	second := createInput("session-1", "b@example.com")
	second.Relationship = model.RelationshipManager
	secondInv, err := svc.CreateInvitation(second)
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), secondInv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)
	svc.now = func() time.Time { return base.Add(5 * 24 * time.Hour) }
	_, err = svc.SubmitAdvisorResponses(secondInv.ID, validSubmission())
	require.NoError(t, err)

	// declined
	svc.now = func() time.Time { return base }
	thirdInv, err := svc.CreateInvitation(createInput("session-1", "c@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), thirdInv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)
	_, err = svc.DeclineInvitation(thirdInv.ResponseToken)
	require.NoError(t, err)

	// still pending (draft)
	_, err = svc.CreateInvitation(createInput("session-1", "d@example.com"))
	require.NoError(t, err)

	analytics := svc.GetAdvisorAnalytics("session-1")
	require.NotNil(t, analytics)

	assert.Equal(t, 4, analytics.TotalInvitations)
	assert.Equal(t, 2, analytics.CompletedInvitations)
	assert.Equal(t, 1, analytics.DeclinedInvitations)
	assert.Equal(t, 1, analytics.PendingInvitations)
	assert.InDelta(t, 0.5, analytics.CompletionRate, 1e-9)
	assert.InDelta(t, 0.25, analytics.DeclineRate, 1e-9)

	assert.Equal(t, 3, analytics.ByRelationship[model.RelationshipColleague])
	assert.Equal(t, 1, analytics.ByRelationship[model.RelationshipManager])

	assert.Equal(t, 1, analytics.ResponseTimes[model.BucketUnderOneDay])
	assert.Equal(t, 1, analytics.ResponseTimes[model.BucketThreeToSeven])

	assert.Greater(t, analytics.AverageQuality, 0.0)
	assert.InDelta(t, 3.5, analytics.AverageAdvisorRating, 1e-9)
}

func TestGenerateFeedbackSummary(t *testing.T) {
	svc, _, _, _ := newTestService()

	empty := svc.GenerateFeedbackSummary("empty-session")
	require.NotNil(t, empty)
	assert.False(t, empty.HasResponses)
	assert.Zero(t, empty.TotalResponses)

	in := createInput("session-1", "dana@example.com")
	in.Relationship = model.RelationshipManager
	inv, err := svc.CreateInvitation(in)
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), inv.ID, "Jordan Lee", "", "")
	require.NoError(t, err)
	_, err = svc.SubmitAdvisorResponses(inv.ID, validSubmission())
	require.NoError(t, err)

	summary := svc.GenerateFeedbackSummary("session-1")
	require.NotNil(t, summary)
	assert.True(t, summary.HasResponses)
	assert.Equal(t, 2, summary.TotalResponses)
	assert.Equal(t, 1, summary.AdvisorsResponded)
	assert.InDelta(t, 3.5, summary.AverageConfidence, 1e-9)
	// manager (1.0) + over two years (1.0) + worked daily (1.0)
	assert.InDelta(t, 1.0, summary.CredibilityScore, 1e-9)
}

func TestExpireStaleInvitations(t *testing.T) {
	svc, store, _, _ := newTestService()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return base }
	stale, err := svc.CreateInvitation(createInput("session-1", "old@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), stale.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(13 * 24 * time.Hour) }
	fresh, err := svc.CreateInvitation(createInput("session-1", "new@example.com"))
	require.NoError(t, err)
	_, err = svc.SendInvitationEmail(context.Background(), fresh.ID, "Jordan Lee", "", "")
	require.NoError(t, err)

	// draft invitations never expire
	_, err = svc.CreateInvitation(createInput("session-1", "draft@example.com"))
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(15 * 24 * time.Hour) }
	expired, err := svc.ExpireStaleInvitations()
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	persisted, err := store.FindByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationExpired, persisted.Status)

	persisted, err = store.FindByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationSent, persisted.Status)

	// expired invitations cannot be completed
	_, err = svc.SubmitResponsesByToken(stale.ResponseToken, validSubmission())
	assert.ErrorIs(t, err, util.ErrInvalidStatusTransition)
}

func TestConcurrentCreatesRespectCap(t *testing.T) {
	svc, _, _, _ := newTestService()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			email := fmt.Sprintf("advisor%d@example.com", n)
			if _, err := svc.CreateInvitation(createInput("session-1", email)); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, created)
}
