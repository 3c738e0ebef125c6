package repository

import (
	"career_insight_engine/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.AssessmentSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.AssessmentSession, error) {
	var session model.AssessmentSession
	err := r.DB.Preload("Scores").First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindByUser(userID uint) ([]model.AssessmentSession, error) {
	var sessions []model.AssessmentSession
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) Update(session *model.AssessmentSession) error {
	return r.DB.Save(session).Error
}

// UpsertScore writes one domain score, replacing any prior score for the
// same (session, domain) pair.
func (r *SessionRepository) UpsertScore(score *model.DomainScore) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"self_score", "notes", "updated_at"}),
	}).Create(score).Error
}

func (r *SessionRepository) FindScores(sessionID string) ([]model.DomainScore, error) {
	var scores []model.DomainScore
	err := r.DB.Where("session_id = ?", sessionID).Find(&scores).Error
	return scores, err
}
