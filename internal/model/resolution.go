package model

// MatchMethod identifies which resolver tier produced a resolution.
type MatchMethod string

// Resolver tiers, strongest first. The declared order is a strict total
// order used for tie-breaking.
const (
	MatchPreference MatchMethod = "preference"
	MatchExact      MatchMethod = "exact"
	MatchSynonym    MatchMethod = "synonym"
	MatchCompound   MatchMethod = "compound"
	MatchFuzzy      MatchMethod = "fuzzy"
)

var matchMethodRank = map[MatchMethod]int{
	MatchPreference: 0,
	MatchExact:      1,
	MatchSynonym:    2,
	MatchCompound:   3,
	MatchFuzzy:      4,
}

// Rank returns the tie-break rank of the method; lower is stronger.
func (m MatchMethod) Rank() int {
	if r, ok := matchMethodRank[m]; ok {
		return r
	}
	return len(matchMethodRank)
}

// ResolutionResult is the transient output of the subject resolver. It is
// never persisted; it can always be re-derived from the current category
// dictionary and preference store.
type ResolutionResult struct {
	CategoryName string
	Method       MatchMethod
	Code         CategoryCode
	Confidence   float64
}
