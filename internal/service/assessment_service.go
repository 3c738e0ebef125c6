package service

import (
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SessionStore is the persistence seam for assessment sessions and their
// domain scores.
type SessionStore interface {
	Create(session *model.AssessmentSession) error
	FindByID(id string) (*model.AssessmentSession, error)
	FindByUser(userID uint) ([]model.AssessmentSession, error)
	Update(session *model.AssessmentSession) error
	UpsertScore(score *model.DomainScore) error
	FindScores(sessionID string) ([]model.DomainScore, error)
}

// AssessmentService owns the session lifecycle and self-scoring.
type AssessmentService struct {
	sessions SessionStore

	now func() time.Time
}

func NewAssessmentService(sessions SessionStore) *AssessmentService {
	return &AssessmentService{sessions: sessions, now: time.Now}
}

// CreateSession opens a new active assessment session for the user.
func (s *AssessmentService) CreateSession(userID uint, title, focusArea string) (*model.AssessmentSession, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: session title is required", util.ErrValidationFailed)
	}

	session := &model.AssessmentSession{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		FocusArea: strings.TrimSpace(focusArea),
		Status:    model.SessionActive,
		StartedAt: s.now(),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a session with its scores, enforcing ownership.
func (s *AssessmentService) GetSession(userID uint, sessionID string) (*model.AssessmentSession, error) {
	session, err := s.findOwned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *AssessmentService) ListSessions(userID uint) ([]model.AssessmentSession, error) {
	return s.sessions.FindByUser(userID)
}

// RecordDomainScore upserts the user's self score for one domain. Scores can
// be revised while the session is active; completed sessions are read-only.
func (s *AssessmentService) RecordDomainScore(userID uint, sessionID string, domain model.CareerDomain, selfScore int, notes string) (*model.DomainScore, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("%w: unknown career domain %q", util.ErrValidationFailed, domain)
	}
	if selfScore < 1 || selfScore > 5 {
		return nil, fmt.Errorf("%w: self score must be 1-5", util.ErrValidationFailed)
	}

	session, err := s.findOwned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionCompleted {
		return nil, fmt.Errorf("%w: session is completed", util.ErrInvalidStatusTransition)
	}

	score := &model.DomainScore{
		SessionID: sessionID,
		Domain:    domain,
		SelfScore: selfScore,
		Notes:     notes,
	}
	if err := s.sessions.UpsertScore(score); err != nil {
		return nil, err
	}
	return score, nil
}

// CompleteSession closes a session. Every career domain must be scored first
// so downstream synthesis always has a full self picture.
func (s *AssessmentService) CompleteSession(userID uint, sessionID string) (*model.AssessmentSession, error) {
	session, err := s.findOwned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionCompleted {
		return session, nil
	}

	scores, err := s.sessions.FindScores(sessionID)
	if err != nil {
		return nil, err
	}
	scored := make(map[model.CareerDomain]bool, len(scores))
	for _, sc := range scores {
		scored[sc.Domain] = true
	}
	var missing []string
	for _, d := range model.CareerDomains() {
		if !scored[d] {
			missing = append(missing, string(d))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unscored domains: %s", util.ErrValidationFailed, strings.Join(missing, ", "))
	}

	now := s.now()
	session.Status = model.SessionCompleted
	session.CompletedAt = &now
	if err := s.sessions.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetScores returns the session's self scores, enforcing ownership.
func (s *AssessmentService) GetScores(userID uint, sessionID string) ([]model.DomainScore, error) {
	if _, err := s.findOwned(userID, sessionID); err != nil {
		return nil, err
	}
	return s.sessions.FindScores(sessionID)
}

func (s *AssessmentService) findOwned(userID uint, sessionID string) (*model.AssessmentSession, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}
