package model

import "time"

type SessionStatus string

const (
	SessionDraft     SessionStatus = "draft"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// CareerDomain identifies one axis of the self-assessment.
type CareerDomain string

const (
	DomainLeadership    CareerDomain = "leadership"
	DomainCommunication CareerDomain = "communication"
	DomainExecution     CareerDomain = "execution"
	DomainStrategy      CareerDomain = "strategy"
	DomainRelationships CareerDomain = "relationships"
	DomainExpertise     CareerDomain = "expertise"
)

type DomainMeta struct {
	Label string
}

var domainMeta = map[CareerDomain]DomainMeta{
	DomainLeadership:    {Label: "Leadership"},
	DomainCommunication: {Label: "Communication"},
	DomainExecution:     {Label: "Execution"},
	DomainStrategy:      {Label: "Strategy"},
	DomainRelationships: {Label: "Relationships"},
	DomainExpertise:     {Label: "Expertise"},
}

func (d CareerDomain) Valid() bool {
	_, ok := domainMeta[d]
	return ok
}

func (d CareerDomain) Label() string {
	return domainMeta[d].Label
}

// CareerDomains lists every assessable domain in display order.
func CareerDomains() []CareerDomain {
	return []CareerDomain{
		DomainLeadership,
		DomainCommunication,
		DomainExecution,
		DomainStrategy,
		DomainRelationships,
		DomainExpertise,
	}
}

// AssessmentSession is the user's career-assessment working set. Invitations
// reference sessions by id only.
// swagger:model AssessmentSession
type AssessmentSession struct {
	UUIDBase
	UserID      uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	FocusArea   string        `gorm:"size:255" json:"focusArea"`
	Status      SessionStatus `gorm:"size:12;default:'active';index" json:"status"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`

	Scores []DomainScore `gorm:"foreignKey:SessionID" json:"scores,omitempty"`
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}

// DomainScore is a self-rated score for one career domain within a session.
// swagger:model DomainScore
type DomainScore struct {
	UUIDBase
	SessionID string       `gorm:"index:idx_session_domain,unique;type:varchar(36);not null" json:"sessionId"`
	Domain    CareerDomain `gorm:"index:idx_session_domain,unique;size:20;not null" json:"domain"`
	SelfScore int          `gorm:"not null" json:"selfScore"` // 1-5
	Notes     string       `gorm:"type:text" json:"notes"`
}

func (DomainScore) TableName() string {
	return "domain_scores"
}
