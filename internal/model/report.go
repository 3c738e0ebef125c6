package model

import "time"

type ReportStatus string

const (
	ReportGenerating ReportStatus = "generating"
	ReportReady      ReportStatus = "ready"
	ReportFailed     ReportStatus = "failed"
)

// Report is a generated session report artifact. The artifact itself lives
// in the configured storage backend; this row tracks its location and state.
// swagger:model Report
type Report struct {
	UUIDBase
	SessionID   string       `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	UserID      uint         `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Status      ReportStatus `gorm:"size:12;default:'generating'" json:"status"`
	URL         string       `gorm:"size:512" json:"url,omitempty"`
	Error       string       `gorm:"size:512" json:"-"`
	GeneratedAt *time.Time   `json:"generatedAt,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}
