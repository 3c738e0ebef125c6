package repository

import (
	"career_insight_engine/internal/model"
	"time"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	DB *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{DB: db}
}

func (r *InvitationRepository) Create(inv *model.AdvisorInvitation) error {
	return r.DB.Create(inv).Error
}

func (r *InvitationRepository) FindByID(id string) (*model.AdvisorInvitation, error) {
	var inv model.AdvisorInvitation
	err := r.DB.First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) FindByToken(token string) (*model.AdvisorInvitation, error) {
	var inv model.AdvisorInvitation
	err := r.DB.First(&inv, "response_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindBySession returns a session's invitations, most recently created
// first. Ordering is explicit (created_at, id) rather than relying on
// insertion order.
func (r *InvitationRepository) FindBySession(sessionID string) ([]model.AdvisorInvitation, error) {
	var invs []model.AdvisorInvitation
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Find(&invs).Error
	return invs, err
}

func (r *InvitationRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AdvisorInvitation{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// ExistsForEmail reports whether the session already has an invitation for
// the advisor email, compared case-insensitively.
func (r *InvitationRepository) ExistsForEmail(sessionID, email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.AdvisorInvitation{}).
		Where("session_id = ? AND LOWER(advisor_email) = LOWER(?)", sessionID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *InvitationRepository) Update(inv *model.AdvisorInvitation) error {
	return r.DB.Save(inv).Error
}

// ListExpirable returns sent or viewed invitations whose send time is before
// the cutoff.
func (r *InvitationRepository) ListExpirable(cutoff time.Time) ([]model.AdvisorInvitation, error) {
	var invs []model.AdvisorInvitation
	err := r.DB.
		Where("status IN ?", []model.InvitationStatus{model.InvitationSent, model.InvitationViewed}).
		Where("sent_at < ?", cutoff).
		Find(&invs).Error
	return invs, err
}
