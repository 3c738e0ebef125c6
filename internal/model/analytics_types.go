package model

// Derived analytics types. Nothing here is persisted; everything is computed
// on demand from invitations and responses.

// ResponseTimeBucket buckets sent-to-completed latency.
type ResponseTimeBucket string

const (
	BucketUnderOneDay   ResponseTimeBucket = "under_1d"
	BucketOneToThreeDay ResponseTimeBucket = "1d_to_3d"
	BucketThreeToSeven  ResponseTimeBucket = "3d_to_7d"
	BucketOverSevenDays ResponseTimeBucket = "over_7d"
)

// AdvisorAnalytics aggregates the advisor funnel for one session. Rates are
// in [0,1] and zero when there are no invitations; completion and decline
// rates need not sum to one since viewed/sent invitations count to neither.
// swagger:model AdvisorAnalytics
type AdvisorAnalytics struct {
	SessionID            string                         `json:"sessionId"`
	TotalInvitations     int                            `json:"totalInvitations"`
	CompletedInvitations int                            `json:"completedInvitations"`
	PendingInvitations   int                            `json:"pendingInvitations"`
	DeclinedInvitations  int                            `json:"declinedInvitations"`
	ExpiredInvitations   int                            `json:"expiredInvitations"`
	CompletionRate       float64                        `json:"completionRate"`
	DeclineRate          float64                        `json:"declineRate"`
	ByRelationship       map[RelationshipType]int       `json:"byRelationship"`
	ResponseTimes        map[ResponseTimeBucket]int     `json:"responseTimes"`
	AverageQuality       float64                        `json:"averageResponseQuality"`
	AverageAdvisorRating float64                        `json:"averageAdvisorRating"`
}

// FeedbackSummary condenses response quality and credibility for a session.
// HasResponses distinguishes an empty session from a populated one; an empty
// summary is a valid, zeroed result rather than an error.
// swagger:model FeedbackSummary
type FeedbackSummary struct {
	SessionID         string  `json:"sessionId"`
	HasResponses      bool    `json:"hasResponses"`
	TotalResponses    int     `json:"totalResponses"`
	AdvisorsResponded int     `json:"advisorsResponded"`
	AverageQuality    float64 `json:"averageQuality"`
	AverageConfidence float64 `json:"averageConfidence"`
	CredibilityScore  float64 `json:"credibilityScore"` // 0-1
}
