package repository

import (
	"career_insight_engine/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(report *model.Report) error {
	return r.DB.Create(report).Error
}

func (r *ReportRepository) FindByID(id string) (*model.Report, error) {
	var report model.Report
	err := r.DB.First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) FindBySession(sessionID string) ([]model.Report, error) {
	var reports []model.Report
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) Update(report *model.Report) error {
	return r.DB.Save(report).Error
}
