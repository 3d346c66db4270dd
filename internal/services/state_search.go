package services

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ithomeportal/unilink-energy/internal/models"
)

// foldAccents strips combining marks so "Méx" matches "Mex".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldQuery(s string) string {
	out, _, err := transform.String(foldAccents, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// stateSource exposes state aggregates to fuzzy matching as "code name".
type stateSource []models.StateEmissions

func (s stateSource) String(i int) string {
	return foldQuery(s[i].State + " " + s[i].StateName)
}

func (s stateSource) Len() int { return len(s) }

// SearchStates returns the states whose code or name fuzzily matches query,
// best match first. An exact code match always ranks first. An empty query
// returns states unchanged.
func SearchStates(states []models.StateEmissions, query string) []models.StateEmissions {
	q := foldQuery(query)
	if q == "" {
		return states
	}

	matches := fuzzy.FindFrom(q, stateSource(states))
	out := make([]models.StateEmissions, 0, len(matches))
	for _, m := range matches {
		st := states[m.Index]
		if strings.EqualFold(st.State, q) {
			out = append([]models.StateEmissions{st}, out...)
			continue
		}
		out = append(out, st)
	}
	return out
}
