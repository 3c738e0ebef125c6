package model

// InsightKind classifies a synthesized insight.
type InsightKind string

const (
	InsightStrength       InsightKind = "strength"
	InsightBlindSpot      InsightKind = "blind_spot"
	InsightHiddenStrength InsightKind = "hidden_strength"
	InsightTheme          InsightKind = "theme"
)

// InsightSource records which evidence produced the insight.
type InsightSource string

const (
	SourceSelf     InsightSource = "self"
	SourceAdvisor  InsightSource = "advisor"
	SourceCombined InsightSource = "combined"
)

type InsightKindMeta struct {
	Label string
}

var insightKindMeta = map[InsightKind]InsightKindMeta{
	InsightStrength:       {Label: "Strength"},
	InsightBlindSpot:      {Label: "Blind spot"},
	InsightHiddenStrength: {Label: "Hidden strength"},
	InsightTheme:          {Label: "Recurring theme"},
}

func (k InsightKind) Valid() bool {
	_, ok := insightKindMeta[k]
	return ok
}

func (k InsightKind) Label() string {
	return insightKindMeta[k].Label
}

// Insight is a synthesized observation about the user's career profile,
// derived from self scores and advisor feedback. Regeneration replaces the
// previous generated set for a session.
// swagger:model Insight
type Insight struct {
	UUIDBase
	SessionID  string        `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	Kind       InsightKind   `gorm:"size:20;not null" json:"kind"`
	Domain     CareerDomain  `gorm:"size:20" json:"domain,omitempty"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	Narrative  string        `gorm:"type:text" json:"narrative"`
	Confidence float64       `gorm:"default:0" json:"confidence"` // 0-1
	Source     InsightSource `gorm:"size:12;not null" json:"source"`
}

func (Insight) TableName() string {
	return "insights"
}
