package repository

import (
	"career_insight_engine/internal/model"

	"gorm.io/gorm"
)

type ExperimentRepository struct {
	DB *gorm.DB
}

func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{DB: db}
}

func (r *ExperimentRepository) Create(exp *model.Experiment) error {
	return r.DB.Create(exp).Error
}

func (r *ExperimentRepository) FindByID(id string) (*model.Experiment, error) {
	var exp model.Experiment
	err := r.DB.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("experiment_milestones.`order` ASC")
	}).First(&exp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (r *ExperimentRepository) FindByUser(userID uint) ([]model.Experiment, error) {
	var exps []model.Experiment
	err := r.DB.Preload("Milestones").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&exps).Error
	return exps, err
}

func (r *ExperimentRepository) FindBySession(sessionID string) ([]model.Experiment, error) {
	var exps []model.Experiment
	err := r.DB.Preload("Milestones").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&exps).Error
	return exps, err
}

func (r *ExperimentRepository) Update(exp *model.Experiment) error {
	return r.DB.Save(exp).Error
}

func (r *ExperimentRepository) CreateMilestone(m *model.ExperimentMilestone) error {
	return r.DB.Create(m).Error
}

func (r *ExperimentRepository) FindMilestone(id string) (*model.ExperimentMilestone, error) {
	var m model.ExperimentMilestone
	err := r.DB.First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ExperimentRepository) UpdateMilestone(m *model.ExperimentMilestone) error {
	return r.DB.Save(m).Error
}

func (r *ExperimentRepository) FindMilestones(experimentID string) ([]model.ExperimentMilestone, error) {
	var ms []model.ExperimentMilestone
	err := r.DB.Where("experiment_id = ?", experimentID).
		Order("`order` ASC").
		Find(&ms).Error
	return ms, err
}
