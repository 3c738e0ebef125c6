package service

import (
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// InsightStore is the persistence seam for synthesized insights.
type InsightStore interface {
	FindBySession(sessionID string) ([]model.Insight, error)
	ReplaceForSession(sessionID string, insights []*model.Insight) error
}

// InsightService synthesizes insights from self scores and advisor feedback.
// Synthesis is deterministic for a given input state and regeneration
// replaces the prior set, so repeated calls converge.
type InsightService struct {
	sessions SessionStore
	insights InsightStore
	advisors *AdvisorService
}

func NewInsightService(sessions SessionStore, insights InsightStore, advisors *AdvisorService) *InsightService {
	return &InsightService{
		sessions: sessions,
		insights: insights,
		advisors: advisors,
	}
}

// domainKeywords maps each career domain to the vocabulary advisors tend to
// use when talking about it. Matching is whole-word, case-insensitive.
var domainKeywords = map[model.CareerDomain][]string{
	model.DomainLeadership:    {"lead", "leads", "leader", "leadership", "mentor", "mentoring", "inspire", "inspires", "vision", "direction"},
	model.DomainCommunication: {"communicate", "communicates", "communication", "writing", "writes", "presents", "presenting", "articulate", "explains", "listening"},
	model.DomainExecution:     {"execute", "executes", "execution", "ships", "shipped", "delivers", "delivered", "deadline", "deadlines", "follow-through", "reliable"},
	model.DomainStrategy:      {"strategy", "strategic", "prioritize", "prioritizes", "roadmap", "planning", "tradeoff", "tradeoffs", "big picture"},
	model.DomainRelationships: {"relationship", "relationships", "trust", "collaborate", "collaborates", "collaboration", "network", "rapport", "empathy"},
	model.DomainExpertise:     {"expert", "expertise", "technical", "depth", "knowledge", "skilled", "mastery", "craft"},
}

const (
	highSelfScore = 4
	lowSelfScore  = 2
)

// GenerateInsights recomputes a session's insight set from its current self
// scores and advisor responses, replacing any previously generated set.
func (s *InsightService) GenerateInsights(sessionID string) ([]model.Insight, error) {
	if _, err := s.sessions.FindByID(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	scores, err := s.sessions.FindScores(sessionID)
	if err != nil {
		return nil, err
	}
	responses, err := s.advisors.responses.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	selfByDomain := make(map[model.CareerDomain]int, len(scores))
	for _, sc := range scores {
		selfByDomain[sc.Domain] = sc.SelfScore
	}

	// advisorSignal weights each domain mention by the response's quality
	// score, so one rich response outweighs several one-liners.
	advisorSignal := make(map[model.CareerDomain]float64)
	growthSignal := make(map[model.CareerDomain]float64)
	for _, r := range responses {
		text := strings.ToLower(r.Response)
		for domain, words := range domainKeywords {
			if !mentionsAny(text, words) {
				continue
			}
			weight := 0.2 + r.QualityScore
			if r.QuestionID == util.QuestionGrowthAreas || r.QuestionID == util.QuestionBlindSpots || r.QuestionID == util.QuestionOneChange {
				growthSignal[domain] += weight
			} else {
				advisorSignal[domain] += weight
			}
		}
	}

	var out []*model.Insight
	for _, domain := range model.CareerDomains() {
		self, hasSelf := selfByDomain[domain]

		if hasSelf && self >= highSelfScore {
			if growthSignal[domain] > 0 {
				// the user rates themselves highly where advisors see a gap
				out = append(out, &model.Insight{
					SessionID:  sessionID,
					Kind:       model.InsightBlindSpot,
					Domain:     domain,
					Title:      fmt.Sprintf("%s may be a blind spot", domain.Label()),
					Narrative:  fmt.Sprintf("You rated yourself %d/5 in %s, but advisors flagged it as an area to grow.", self, strings.ToLower(domain.Label())),
					Confidence: clamp01(growthSignal[domain] / 2),
					Source:     model.SourceCombined,
				})
			} else {
				out = append(out, &model.Insight{
					SessionID:  sessionID,
					Kind:       model.InsightStrength,
					Domain:     domain,
					Title:      fmt.Sprintf("%s is a self-identified strength", domain.Label()),
					Narrative:  fmt.Sprintf("You rated yourself %d/5 in %s.", self, strings.ToLower(domain.Label())),
					Confidence: float64(self) / 5,
					Source:     model.SourceSelf,
				})
			}
		}

		if hasSelf && self <= lowSelfScore && advisorSignal[domain] > 0 {
			// advisors praise a domain the user undervalues
			out = append(out, &model.Insight{
				SessionID:  sessionID,
				Kind:       model.InsightHiddenStrength,
				Domain:     domain,
				Title:      fmt.Sprintf("%s may be a hidden strength", domain.Label()),
				Narrative:  fmt.Sprintf("You rated yourself %d/5 in %s, yet advisors highlighted it positively.", self, strings.ToLower(domain.Label())),
				Confidence: clamp01(advisorSignal[domain] / 2),
				Source:     model.SourceCombined,
			})
		}
	}

	// recurring themes: domains advisors keep bringing up, regardless of
	// self assessment
	type themed struct {
		domain model.CareerDomain
		signal float64
	}
	var themes []themed
	for domain, signal := range advisorSignal {
		if signal >= 1.0 {
			themes = append(themes, themed{domain, signal})
		}
	}
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].signal != themes[j].signal {
			return themes[i].signal > themes[j].signal
		}
		return themes[i].domain < themes[j].domain
	})
	for _, th := range themes {
		out = append(out, &model.Insight{
			SessionID:  sessionID,
			Kind:       model.InsightTheme,
			Domain:     th.domain,
			Title:      fmt.Sprintf("%s keeps coming up in advisor feedback", th.domain.Label()),
			Narrative:  fmt.Sprintf("Multiple advisor responses mention %s.", strings.ToLower(th.domain.Label())),
			Confidence: clamp01(th.signal / 3),
			Source:     model.SourceAdvisor,
		})
	}

	if err := s.insights.ReplaceForSession(sessionID, out); err != nil {
		return nil, err
	}

	result := make([]model.Insight, len(out))
	for i, ins := range out {
		result[i] = *ins
	}
	return result, nil
}

// GetInsights returns the stored insight set for a session.
func (s *InsightService) GetInsights(sessionID string) ([]model.Insight, error) {
	return s.insights.FindBySession(sessionID)
}

func mentionsAny(text string, words []string) bool {
	for _, w := range words {
		idx := 0
		for {
			i := strings.Index(text[idx:], w)
			if i < 0 {
				break
			}
			start := idx + i
			end := start + len(w)
			beforeOK := start == 0 || !isWordChar(text[start-1])
			afterOK := end == len(text) || !isWordChar(text[end])
			if beforeOK && afterOK {
				return true
			}
			idx = start + 1
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return c == '-' || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9')
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
