package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const richResponse = "Jordan consistently turns vague asks into shippable plans. " +
	"For example, when our reporting pipeline kept missing its SLA, Jordan profiled the " +
	"ingestion path, found the hot loop, and cut p95 latency by 40% in two weeks. " +
	"Teammates now route ambiguous projects through Jordan because the plan comes back " +
	"with milestones and owners attached."

func TestValidateResponseTextRejectsShortAnswers(t *testing.T) {
	res := ValidateResponseText("Good worker")
	assert.False(t, res.IsValid)
	assert.NotEmpty(t, res.Errors)
}

func TestValidateResponseTextRejectsEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		res := ValidateResponseText(text)
		assert.False(t, res.IsValid)
		assert.NotEmpty(t, res.Errors)
	}
}

func TestValidateResponseTextAcceptsDetailedAnswer(t *testing.T) {
	res := ValidateResponseText(richResponse)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateResponseTextWordBound(t *testing.T) {
	// Eight short words pass the word bound even under 40 characters.
	res := ValidateResponseText("works hard and owns it all day long")
	assert.True(t, res.IsValid)
}

func TestCalculateResponseQualityRichResponse(t *testing.T) {
	score := CalculateResponseQuality(richResponse)
	assert.Greater(t, score, 0.7)
	assert.LessOrEqual(t, score, 1.0)
}

func TestCalculateResponseQualityTerseResponse(t *testing.T) {
	assert.Less(t, CalculateResponseQuality("ok"), 0.05)
	assert.Less(t, CalculateResponseQuality("Good worker"), 0.1)
	assert.Equal(t, 0.0, CalculateResponseQuality(""))
}

func TestCalculateResponseQualityIsDeterministic(t *testing.T) {
	a := CalculateResponseQuality(richResponse)
	b := CalculateResponseQuality(richResponse)
	assert.Equal(t, a, b)
}

func TestCalculateResponseQualityMonotonicWithDetail(t *testing.T) {
	terse := "Strong communicator."
	moderate := "Jordan is a strong communicator who keeps stakeholders aligned across teams and always closes the loop."
	detailed := moderate + " For example, during the Q3 launch Jordan ran the weekly sync, " +
		"wrote the decision log, and cut escalations from 12 to 2 per month."

	qTerse := CalculateResponseQuality(terse)
	qModerate := CalculateResponseQuality(moderate)
	qDetailed := CalculateResponseQuality(detailed)

	assert.Less(t, qTerse, qModerate)
	assert.Less(t, qModerate, qDetailed)
}

func TestCalculateResponseQualityCapsAtOne(t *testing.T) {
	huge := strings.Repeat(richResponse+" ", 10)
	assert.LessOrEqual(t, CalculateResponseQuality(huge), 1.0)
}
