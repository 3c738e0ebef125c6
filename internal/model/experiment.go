package model

import "time"

// ExperimentStatus tracks a career experiment from plan to wrap-up.
type ExperimentStatus string

const (
	ExperimentPlanned   ExperimentStatus = "planned"
	ExperimentActive    ExperimentStatus = "active"
	ExperimentPaused    ExperimentStatus = "paused"
	ExperimentCompleted ExperimentStatus = "completed"
	ExperimentCancelled ExperimentStatus = "cancelled"
)

type ExperimentStatusMeta struct {
	Label    string
	Terminal bool
}

var experimentStatusMeta = map[ExperimentStatus]ExperimentStatusMeta{
	ExperimentPlanned:   {Label: "Planned"},
	ExperimentActive:    {Label: "Active"},
	ExperimentPaused:    {Label: "Paused"},
	ExperimentCompleted: {Label: "Completed", Terminal: true},
	ExperimentCancelled: {Label: "Cancelled", Terminal: true},
}

var experimentTransitions = map[ExperimentStatus][]ExperimentStatus{
	ExperimentPlanned:   {ExperimentActive, ExperimentCancelled},
	ExperimentActive:    {ExperimentPaused, ExperimentCompleted, ExperimentCancelled},
	ExperimentPaused:    {ExperimentActive, ExperimentCompleted, ExperimentCancelled},
	ExperimentCompleted: {},
	ExperimentCancelled: {},
}

func (s ExperimentStatus) Valid() bool {
	_, ok := experimentStatusMeta[s]
	return ok
}

func (s ExperimentStatus) Label() string {
	return experimentStatusMeta[s].Label
}

func (s ExperimentStatus) Terminal() bool {
	return experimentStatusMeta[s].Terminal
}

func (s ExperimentStatus) CanTransitionTo(next ExperimentStatus) bool {
	for _, allowed := range experimentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Experiment is a concrete behavioral experiment the user runs to act on an
// insight. Progress is derived from milestones in the service layer, never
// set directly by a client.
// swagger:model Experiment
type Experiment struct {
	UUIDBase
	UserID      uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SessionID   string           `gorm:"index;type:varchar(36)" json:"sessionId,omitempty"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Hypothesis  string           `gorm:"type:text" json:"hypothesis"`
	Status      ExperimentStatus `gorm:"size:12;default:'planned';index" json:"status"`
	Progress    float64          `gorm:"default:0" json:"progress"` // 0-100
	StartedAt   *time.Time       `json:"startedAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`

	Milestones []ExperimentMilestone `gorm:"foreignKey:ExperimentID" json:"milestones,omitempty"`
}

func (Experiment) TableName() string {
	return "experiments"
}

// swagger:model ExperimentMilestone
type ExperimentMilestone struct {
	UUIDBase
	ExperimentID string `gorm:"index;type:varchar(36);not null" json:"experimentId"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Done         bool   `gorm:"default:false" json:"done"`
	Order        int    `gorm:"default:0" json:"order"`
}

func (ExperimentMilestone) TableName() string {
	return "experiment_milestones"
}
