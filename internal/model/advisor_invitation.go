package model

import "time"

// RelationshipType describes how the advisor knows the user.
type RelationshipType string

const (
	RelationshipManager   RelationshipType = "manager"
	RelationshipColleague RelationshipType = "colleague"
	RelationshipMentor    RelationshipType = "mentor"
	RelationshipFriend    RelationshipType = "friend"
	RelationshipFamily    RelationshipType = "family"
	RelationshipClient    RelationshipType = "client"
	RelationshipSponsor   RelationshipType = "sponsor"
	RelationshipPeer      RelationshipType = "peer"
	RelationshipOther     RelationshipType = "other"
)

type RelationshipMeta struct {
	Label string
	// CredibilityWeight feeds the feedback summary: professional observers
	// weigh more than social ones.
	CredibilityWeight float64
}

var relationshipMeta = map[RelationshipType]RelationshipMeta{
	RelationshipManager:   {Label: "Manager", CredibilityWeight: 1.0},
	RelationshipColleague: {Label: "Colleague", CredibilityWeight: 0.9},
	RelationshipMentor:    {Label: "Mentor", CredibilityWeight: 0.95},
	RelationshipFriend:    {Label: "Friend", CredibilityWeight: 0.6},
	RelationshipFamily:    {Label: "Family", CredibilityWeight: 0.5},
	RelationshipClient:    {Label: "Client", CredibilityWeight: 0.85},
	RelationshipSponsor:   {Label: "Sponsor", CredibilityWeight: 0.9},
	RelationshipPeer:      {Label: "Peer", CredibilityWeight: 0.8},
	RelationshipOther:     {Label: "Other", CredibilityWeight: 0.5},
}

func (t RelationshipType) Valid() bool {
	_, ok := relationshipMeta[t]
	return ok
}

func (t RelationshipType) Label() string {
	return relationshipMeta[t].Label
}

func (t RelationshipType) CredibilityWeight() float64 {
	return relationshipMeta[t].CredibilityWeight
}

// InvitationStatus tracks the advisor invite lifecycle.
type InvitationStatus string

const (
	InvitationDraft     InvitationStatus = "draft"
	InvitationSent      InvitationStatus = "sent"
	InvitationViewed    InvitationStatus = "viewed"
	InvitationCompleted InvitationStatus = "completed"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationExpired   InvitationStatus = "expired"
)

type InvitationStatusMeta struct {
	Label    string
	Terminal bool
	// AcceptsReminders marks the states in which reminderCount may grow.
	AcceptsReminders bool
}

var invitationStatusMeta = map[InvitationStatus]InvitationStatusMeta{
	InvitationDraft:     {Label: "Draft"},
	InvitationSent:      {Label: "Sent", AcceptsReminders: true},
	InvitationViewed:    {Label: "Viewed", AcceptsReminders: true},
	InvitationCompleted: {Label: "Completed", Terminal: true},
	InvitationDeclined:  {Label: "Declined", Terminal: true},
	InvitationExpired:   {Label: "Expired", Terminal: true},
}

// invitationTransitions is the exhaustive forward transition table. Statuses
// move forward only; completed, declined and expired are terminal.
var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationDraft:     {InvitationSent},
	InvitationSent:      {InvitationViewed, InvitationCompleted, InvitationDeclined, InvitationExpired},
	InvitationViewed:    {InvitationCompleted, InvitationDeclined, InvitationExpired},
	InvitationCompleted: {},
	InvitationDeclined:  {},
	InvitationExpired:   {},
}

func (s InvitationStatus) Valid() bool {
	_, ok := invitationStatusMeta[s]
	return ok
}

func (s InvitationStatus) Label() string {
	return invitationStatusMeta[s].Label
}

func (s InvitationStatus) Terminal() bool {
	return invitationStatusMeta[s].Terminal
}

func (s InvitationStatus) AcceptsReminders() bool {
	return invitationStatusMeta[s].AcceptsReminders
}

func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	for _, allowed := range invitationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AdvisorInvitation tracks one advisor's invite from draft to a terminal
// state. The response token is the unauthenticated handle advisors use to
// open and submit the feedback form.
// swagger:model AdvisorInvitation
type AdvisorInvitation struct {
	UUIDBase
	SessionID       string           `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	AdvisorName     string           `gorm:"size:100;not null" json:"advisorName"`
	AdvisorEmail    string           `gorm:"size:100;not null;index" json:"advisorEmail"`
	AdvisorPhone    string           `gorm:"size:30" json:"advisorPhone,omitempty"`
	Relationship    RelationshipType `gorm:"size:20;not null" json:"relationshipType"`
	PersonalMessage string           `gorm:"type:text" json:"personalMessage,omitempty"`
	Status          InvitationStatus `gorm:"size:12;default:'draft';index" json:"status"`
	ResponseToken   string           `gorm:"size:80;uniqueIndex;not null" json:"-"`
	ReminderCount   int              `gorm:"default:0" json:"reminderCount"`
	SentAt          *time.Time       `json:"sentAt,omitempty"`
	ViewedAt        *time.Time       `json:"viewedAt,omitempty"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
}

func (AdvisorInvitation) TableName() string {
	return "advisor_invitations"
}
