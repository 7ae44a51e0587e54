// Package recommend selects persona-targeted content and assembles the
// immutable decision trace for each generation cycle.
package recommend

import (
	"github.com/andychuong/spendsense/internal/model"
)

// quota fixes how many items of each type a persona receives.
type quota struct {
	education int
	offers    int
}

// personaQuotas are the per-persona selection counts.
var personaQuotas = map[model.PersonaID]quota{
	model.PersonaHighUtilization:        {education: 3, offers: 1},
	model.PersonaVariableIncomeBudgeter: {education: 3, offers: 1},
	model.PersonaSubscriptionHeavy:      {education: 3, offers: 1},
	model.PersonaSavingsBuilder:         {education: 3, offers: 2},
	model.PersonaGeneralUser:            {education: 2, offers: 1},
}

// Selector picks candidates for a persona from the catalog, filtering out
// recently delivered content. Stateless; the delivery history is supplied by
// the caller.
type Selector struct{}

// NewSelector creates a selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the persona's candidates in catalog order, skipping any
// content ID in the recently-delivered set, up to the persona's fixed
// education and offer counts. When fewer eligible candidates remain than
// the target count, it returns what is available rather than failing.
func (s *Selector) Select(personaID model.PersonaID, candidates []model.Candidate, recentlyDelivered map[string]bool) []model.Candidate {
	q := personaQuotas[personaID]

	selected := make([]model.Candidate, 0, q.education+q.offers)
	education, offers := 0, 0
	for _, candidate := range candidates {
		if recentlyDelivered[candidate.ContentID] {
			continue
		}
		switch candidate.Type {
		case model.CandidateEducation:
			if education < q.education {
				selected = append(selected, candidate)
				education++
			}
		case model.CandidatePartnerOffer:
			if offers < q.offers {
				selected = append(selected, candidate)
				offers++
			}
		}
		if education == q.education && offers == q.offers {
			break
		}
	}
	return selected
}
