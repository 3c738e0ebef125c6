package service

import (
	"bytes"
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
	"career_insight_engine/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportStore is the persistence seam for report rows.
type ReportStore interface {
	Create(report *model.Report) error
	FindByID(id string) (*model.Report, error)
	FindBySession(sessionID string) ([]model.Report, error)
	Update(report *model.Report) error
}

// ReportService assembles a session report artifact and tracks its state.
// The row is created in generating state up front so a crash mid-generation
// leaves an inspectable record rather than nothing.
type ReportService struct {
	reports     ReportStore
	sessions    SessionStore
	insights    InsightStore
	experiments ExperimentStore
	advisors    *AdvisorService
	storage     StorageProvider

	now func() time.Time
}

func NewReportService(reports ReportStore, sessions SessionStore, insights InsightStore, experiments ExperimentStore, advisors *AdvisorService, storage StorageProvider) *ReportService {
	return &ReportService{
		reports:     reports,
		sessions:    sessions,
		insights:    insights,
		experiments: experiments,
		advisors:    advisors,
		storage:     storage,
		now:         time.Now,
	}
}

// reportPayload is the JSON artifact schema.
type reportPayload struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	Session     *model.AssessmentSession `json:"session"`
	Scores      []model.DomainScore      `json:"scores"`
	Analytics   *model.AdvisorAnalytics  `json:"advisorAnalytics"`
	Summary     *model.FeedbackSummary   `json:"feedbackSummary"`
	Insights    []model.Insight          `json:"insights"`
	Experiments []model.Experiment       `json:"experiments"`
}

// GenerateReport builds the artifact for a session and uploads it. The
// returned row is ready on success and failed otherwise; generation errors
// are recorded on the row, not returned, once the row exists.
func (s *ReportService) GenerateReport(ctx context.Context, userID uint, sessionID string) (*model.Report, error) {
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

	report := &model.Report{
		SessionID: sessionID,
		UserID:    userID,
		Status:    model.ReportGenerating,
	}
	if err := s.reports.Create(report); err != nil {
		return nil, err
	}

	url, genErr := s.generate(ctx, session)
	if genErr != nil {
		report.Status = model.ReportFailed
		report.Error = genErr.Error()
		if logger.Log != nil {
			logger.Log.Error("report generation failed",
				zap.String("sessionId", sessionID),
				zap.Error(genErr))
		}
	} else {
		now := s.now()
		report.Status = model.ReportReady
		report.URL = url
		report.GeneratedAt = &now
	}

	if err := s.reports.Update(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) generate(ctx context.Context, session *model.AssessmentSession) (string, error) {
	scores, err := s.sessions.FindScores(session.ID)
	if err != nil {
		return "", fmt.Errorf("load scores: %w", err)
	}
	insights, err := s.insights.FindBySession(session.ID)
	if err != nil {
		return "", fmt.Errorf("load insights: %w", err)
	}
	experiments, err := s.experiments.FindBySession(session.ID)
	if err != nil {
		return "", fmt.Errorf("load experiments: %w", err)
	}

	payload := reportPayload{
		GeneratedAt: s.now(),
		Session:     session,
		Scores:      scores,
		Analytics:   s.advisors.GetAdvisorAnalytics(session.ID),
		Summary:     s.advisors.GenerateFeedbackSummary(session.ID),
		Insights:    insights,
		Experiments: experiments,
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	filename := fmt.Sprintf("reports/%s/%d.json", session.ID, s.now().UnixNano())
	url, err := s.storage.Upload(ctx, filename, bytes.NewReader(body), int64(len(body)), "application/json")
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return url, nil
}

// GetReport returns a report row, enforcing ownership.
func (s *ReportService) GetReport(userID uint, id string) (*model.Report, error) {
	report, err := s.reports.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReportNotFound
		}
		return nil, err
	}
	if report.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return report, nil
}

// ListReports returns a session's reports, newest first.
func (s *ReportService) ListReports(sessionID string) ([]model.Report, error) {
	return s.reports.FindBySession(sessionID)
}
