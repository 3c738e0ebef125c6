package repository

import (
	"career_insight_engine/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

// CreateAll persists a submission's responses in one transaction so readers
// never observe a partially written submission.
func (r *ResponseRepository) CreateAll(responses []*model.AdvisorResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, resp := range responses {
			if err := tx.Create(resp).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ResponseRepository) FindByInvitation(invitationID string) ([]model.AdvisorResponse, error) {
	var responses []model.AdvisorResponse
	err := r.DB.Where("invitation_id = ?", invitationID).
		Order("created_at ASC, question_id ASC").
		Find(&responses).Error
	return responses, err
}

// FindBySession joins through invitations to fetch every response given for
// a session.
func (r *ResponseRepository) FindBySession(sessionID string) ([]model.AdvisorResponse, error) {
	var responses []model.AdvisorResponse
	err := r.DB.
		Joins("JOIN advisor_invitations ON advisor_invitations.id = advisor_responses.invitation_id").
		Where("advisor_invitations.session_id = ?", sessionID).
		Find(&responses).Error
	return responses, err
}
