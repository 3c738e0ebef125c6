package model

import "encoding/json"

// ObservationPeriod is how long the advisor has observed the user's work.
type ObservationPeriod string

const (
	ObservedUnderSixMonths ObservationPeriod = "under_six_months"
	ObservedSixToTwelve    ObservationPeriod = "six_to_twelve_months"
	ObservedOneToTwoYears  ObservationPeriod = "one_to_two_years"
	ObservedOverTwoYears   ObservationPeriod = "over_two_years"
)

type ObservationMeta struct {
	Label string
	// Weight feeds credibility: longer observation windows carry more signal.
	Weight float64
}

var observationMeta = map[ObservationPeriod]ObservationMeta{
	ObservedUnderSixMonths: {Label: "Less than 6 months", Weight: 0.5},
	ObservedSixToTwelve:    {Label: "6-12 months", Weight: 0.7},
	ObservedOneToTwoYears:  {Label: "1-2 years", Weight: 0.85},
	ObservedOverTwoYears:   {Label: "More than 2 years", Weight: 1.0},
}

func (p ObservationPeriod) Valid() bool {
	_, ok := observationMeta[p]
	return ok
}

func (p ObservationPeriod) Label() string {
	return observationMeta[p].Label
}

func (p ObservationPeriod) Weight() float64 {
	return observationMeta[p].Weight
}

// ConfidenceContext is how directly the advisor observed what they rate.
type ConfidenceContext string

const (
	ContextWorkedDaily        ConfidenceContext = "worked_together_daily"
	ContextWorkedOccasionally ConfidenceContext = "worked_together_occasionally"
	ContextObservedResults    ConfidenceContext = "observed_results_only"
	ContextSecondhand         ConfidenceContext = "secondhand"
)

type ConfidenceContextMeta struct {
	Label  string
	Weight float64
}

var confidenceContextMeta = map[ConfidenceContext]ConfidenceContextMeta{
	ContextWorkedDaily:        {Label: "Worked together daily", Weight: 1.0},
	ContextWorkedOccasionally: {Label: "Worked together occasionally", Weight: 0.8},
	ContextObservedResults:    {Label: "Observed results only", Weight: 0.6},
	ContextSecondhand:         {Label: "Secondhand knowledge", Weight: 0.4},
}

func (c ConfidenceContext) Valid() bool {
	_, ok := confidenceContextMeta[c]
	return ok
}

func (c ConfidenceContext) Label() string {
	return confidenceContextMeta[c].Label
}

func (c ConfidenceContext) Weight() float64 {
	return confidenceContextMeta[c].Weight
}

// AdvisorResponse is one advisor's answer to one question. Responses are
// created in bulk when an invitation completes and never mutated afterwards;
// the quality score is computed once at submission time.
// swagger:model AdvisorResponse
type AdvisorResponse struct {
	UUIDBase
	InvitationID      string            `gorm:"uniqueIndex:idx_invitation_question;type:varchar(36);not null" json:"invitationId"`
	QuestionID        string            `gorm:"uniqueIndex:idx_invitation_question;size:64;not null" json:"questionId"`
	Response          string            `gorm:"type:text;not null" json:"response"`
	ConfidenceLevel   int               `gorm:"not null" json:"confidenceLevel"` // 1-5
	QualityScore      float64           `gorm:"not null" json:"responseQualityScore"`
	SpecificExamples  json.RawMessage   `gorm:"type:json" json:"specificExamples,omitempty"`
	ObservationPeriod ObservationPeriod `gorm:"size:24;not null" json:"observationPeriod"`
	ConfidenceContext ConfidenceContext `gorm:"size:32;not null" json:"confidenceContext"`
	AdditionalContext string            `gorm:"type:text" json:"additionalContext,omitempty"`
	IsAnonymous       bool              `gorm:"default:false" json:"isAnonymous"`
}

func (AdvisorResponse) TableName() string {
	return "advisor_responses"
}

// Examples decodes the stored example list; nil when absent or malformed.
func (r *AdvisorResponse) Examples() []string {
	if len(r.SpecificExamples) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(r.SpecificExamples, &out); err != nil {
		return nil
	}
	return out
}
