package repository

import (
	"career_insight_engine/internal/model"

	"gorm.io/gorm"
)

type InsightRepository struct {
	DB *gorm.DB
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{DB: db}
}

func (r *InsightRepository) FindBySession(sessionID string) ([]model.Insight, error) {
	var insights []model.Insight
	err := r.DB.Where("session_id = ?", sessionID).
		Order("confidence DESC, created_at ASC").
		Find(&insights).Error
	return insights, err
}

// ReplaceForSession atomically swaps a session's generated insights for a
// fresh set, so regeneration is idempotent per input state.
func (r *InsightRepository) ReplaceForSession(sessionID string, insights []*model.Insight) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).
			Delete(&model.Insight{}).Error; err != nil {
			return err
		}
		for _, ins := range insights {
			if err := tx.Create(ins).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
