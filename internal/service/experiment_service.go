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

// ExperimentStore is the persistence seam for experiments and milestones.
type ExperimentStore interface {
	Create(exp *model.Experiment) error
	FindByID(id string) (*model.Experiment, error)
	FindByUser(userID uint) ([]model.Experiment, error)
	FindBySession(sessionID string) ([]model.Experiment, error)
	Update(exp *model.Experiment) error
	CreateMilestone(m *model.ExperimentMilestone) error
	FindMilestone(id string) (*model.ExperimentMilestone, error)
	UpdateMilestone(m *model.ExperimentMilestone) error
	FindMilestones(experimentID string) ([]model.ExperimentMilestone, error)
}

// ExperimentService owns the experiment lifecycle. Progress is always
// derived from milestone completion, never accepted from a client.
type ExperimentService struct {
	experiments ExperimentStore

	now func() time.Time
}

func NewExperimentService(experiments ExperimentStore) *ExperimentService {
	return &ExperimentService{experiments: experiments, now: time.Now}
}

// CreateExperimentInput describes a new experiment and its initial
// milestones, in order.
type CreateExperimentInput struct {
	UserID     uint
	SessionID  string
	Title      string
	Hypothesis string
	Milestones []string
}

// CreateExperiment records a planned experiment with ordered milestones.
func (s *ExperimentService) CreateExperiment(in CreateExperimentInput) (*model.Experiment, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: experiment title is required", util.ErrValidationFailed)
	}

	exp := &model.Experiment{
		UserID:     in.UserID,
		SessionID:  in.SessionID,
		Title:      strings.TrimSpace(in.Title),
		Hypothesis: in.Hypothesis,
		Status:     model.ExperimentPlanned,
	}
	if err := s.experiments.Create(exp); err != nil {
		return nil, err
	}

	for i, title := range in.Milestones {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		m := &model.ExperimentMilestone{
			ExperimentID: exp.ID,
			Title:        title,
			Order:        i,
		}
		if err := s.experiments.CreateMilestone(m); err != nil {
			return nil, err
		}
		exp.Milestones = append(exp.Milestones, *m)
	}
	return exp, nil
}

// GetExperiment loads an experiment with milestones, enforcing ownership.
func (s *ExperimentService) GetExperiment(userID uint, id string) (*model.Experiment, error) {
	return s.findOwned(userID, id)
}

// ListExperiments returns the user's experiments, newest first.
func (s *ExperimentService) ListExperiments(userID uint) ([]model.Experiment, error) {
	return s.experiments.FindByUser(userID)
}

// ListSessionExperiments returns the experiments attached to a session.
func (s *ExperimentService) ListSessionExperiments(sessionID string) ([]model.Experiment, error) {
	return s.experiments.FindBySession(sessionID)
}

// TransitionExperiment moves an experiment along its lifecycle. StartedAt is
// stamped on the first activation, CompletedAt on completion.
func (s *ExperimentService) TransitionExperiment(userID uint, id string, next model.ExperimentStatus) (*model.Experiment, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown experiment status %q", util.ErrValidationFailed, next)
	}

	exp, err := s.findOwned(userID, id)
	if err != nil {
		return nil, err
	}
	if !exp.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidStatusTransition, exp.Status, next)
	}

	now := s.now()
	exp.Status = next
	switch next {
	case model.ExperimentActive:
		if exp.StartedAt == nil {
			exp.StartedAt = &now
		}
	case model.ExperimentCompleted:
		exp.CompletedAt = &now
	}

	if err := s.experiments.Update(exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// SetMilestoneDone toggles a milestone and recomputes the experiment's
// derived progress.
func (s *ExperimentService) SetMilestoneDone(userID uint, milestoneID string, done bool) (*model.Experiment, error) {
	m, err := s.experiments.FindMilestone(milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExperimentNotFound
		}
		return nil, err
	}

	exp, err := s.findOwned(userID, m.ExperimentID)
	if err != nil {
		return nil, err
	}
	if exp.Status.Terminal() {
		return nil, fmt.Errorf("%w: experiment is %s", util.ErrInvalidStatusTransition, exp.Status)
	}

	if m.Done != done {
		m.Done = done
		if err := s.experiments.UpdateMilestone(m); err != nil {
			return nil, err
		}
	}

	milestones, err := s.experiments.FindMilestones(exp.ID)
	if err != nil {
		return nil, err
	}
	exp.Progress = deriveProgress(milestones)
	exp.Milestones = milestones
	if err := s.experiments.Update(exp); err != nil {
		return nil, err
	}
	return exp, nil
}

func deriveProgress(milestones []model.ExperimentMilestone) float64 {
	if len(milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range milestones {
		if m.Done {
			done++
		}
	}
	return float64(done) / float64(len(milestones)) * 100
}

func (s *ExperimentService) findOwned(userID uint, id string) (*model.Experiment, error) {
	exp, err := s.experiments.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExperimentNotFound
		}
		return nil, err
	}
	if exp.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return exp, nil
}
