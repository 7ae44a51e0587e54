// Package catalog provides the static persona-to-content catalog.
// The catalog is configuration, not business logic: entries can be loaded
// from a YAML file or fall back to the built-in defaults.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/andychuong/spendsense/internal/model"
)

// Catalog maps personas to their candidate content in a stable order.
type Catalog struct {
	byPersona map[model.PersonaID][]model.Candidate
}

// file is the YAML shape of a catalog file.
type file struct {
	Candidates []model.Candidate `yaml:"candidates"`
}

// New builds a catalog from a candidate list, preserving list order per
// persona so selection stays deterministic.
func New(candidates []model.Candidate) *Catalog {
	byPersona := make(map[model.PersonaID][]model.Candidate)
	for _, c := range candidates {
		byPersona[c.PersonaID] = append(byPersona[c.PersonaID], c)
	}
	return &Catalog{byPersona: byPersona}
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	for i, c := range f.Candidates {
		if c.ContentID == "" {
			return nil, fmt.Errorf("catalog entry %d is missing content_id", i)
		}
		if c.Type != model.CandidateEducation && c.Type != model.CandidatePartnerOffer {
			return nil, fmt.Errorf("catalog entry %s has unknown type %q", c.ContentID, c.Type)
		}
		if !c.PersonaID.Valid() {
			return nil, fmt.Errorf("catalog entry %s targets unknown persona %d", c.ContentID, c.PersonaID)
		}
	}
	return New(f.Candidates), nil
}

// CandidatesFor returns the candidates targeting a persona in catalog order.
// A persona with no entries returns an empty slice, never an error.
func (c *Catalog) CandidatesFor(personaID model.PersonaID) []model.Candidate {
	out := make([]model.Candidate, len(c.byPersona[personaID]))
	copy(out, c.byPersona[personaID])
	return out
}

// Personas returns the persona IDs with at least one entry, ascending.
func (c *Catalog) Personas() []model.PersonaID {
	ids := make([]model.PersonaID, 0, len(c.byPersona))
	for id := range c.byPersona {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
