// Package resolver maps free-text subjects to category dictionary entries
// through a five-tier fallback matching chain.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/service"
)

// Compound-containment confidence caps. Synonym hits score slightly higher
// than name hits because synonyms are user-curated.
const (
	compoundNameCap      = 0.9
	compoundSynonymCap   = 0.95
	preferenceConfidence = 0.9
)

// Config holds tuning options for the resolver.
type Config struct {
	// FuzzyThreshold is the minimum edit-distance similarity the fuzzy
	// tier accepts. Matches below it are discarded.
	FuzzyThreshold float64
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{FuzzyThreshold: 0.65}
}

// Resolver executes the tier chain against a ledger's category dictionary
// and a user's preference store. Tiers run in order; the first hit wins and
// no lower tier is attempted.
type Resolver struct {
	categories  service.CategoryService
	preferences service.PreferenceService
	config      Config
}

// New creates a resolver with the default configuration.
func New(categories service.CategoryService, preferences service.PreferenceService) *Resolver {
	return NewWithConfig(categories, preferences, DefaultConfig())
}

// NewWithConfig creates a resolver with custom configuration.
func NewWithConfig(categories service.CategoryService, preferences service.PreferenceService, config Config) *Resolver {
	if config.FuzzyThreshold <= 0 || config.FuzzyThreshold > 1 {
		config.FuzzyThreshold = DefaultConfig().FuzzyThreshold
	}
	return &Resolver{
		categories:  categories,
		preferences: preferences,
		config:      config,
	}
}

// Resolve maps subjectText to a category entry. It returns (nil, nil) when
// every tier misses; an unmatched subject is the caller's business error,
// never a silent default category.
func (r *Resolver) Resolve(ctx context.Context, ledgerID, userID, subjectText string) (*model.ResolutionResult, error) {
	term := Normalize(subjectText)
	if term == "" {
		return nil, nil
	}

	entries, err := r.categories.ListActiveEntries(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category dictionary: %w", err)
	}

	if result, err := r.resolvePreference(ctx, userID, term, entries); err != nil {
		return nil, err
	} else if result != nil {
		return result, nil
	}

	tiers := []func(string, []model.CategoryEntry) *model.ResolutionResult{
		resolveExact,
		resolveSynonym,
		resolveCompound,
		r.resolveFuzzy,
	}
	for _, tier := range tiers {
		if result := tier(term, entries); result != nil {
			slog.Debug("subject resolved",
				"term", term,
				"method", result.Method,
				"category", result.Code,
				"confidence", result.Confidence)
			return result, nil
		}
	}

	slog.Debug("subject unresolved", "term", term, "entries", len(entries))
	return nil, nil
}

// resolvePreference consults the user's learned term biases. A stored code
// that no longer resolves against the dictionary is skipped so the scan
// tiers get their chance.
func (r *Resolver) resolvePreference(ctx context.Context, userID, term string, entries []model.CategoryEntry) (*model.ResolutionResult, error) {
	record, err := r.preferences.Lookup(ctx, userID, term)
	if err != nil {
		return nil, fmt.Errorf("failed to look up preference: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	for i := range entries {
		if entries[i].Code == record.CategoryCode {
			return &model.ResolutionResult{
				Code:         entries[i].Code,
				CategoryName: entries[i].SubName,
				Method:       model.MatchPreference,
				Confidence:   preferenceConfidence,
			}, nil
		}
	}

	slog.Debug("preference points at retired category, falling through",
		"user_id", userID, "term", term, "category", record.CategoryCode)
	return nil, nil
}

func resolveExact(term string, entries []model.CategoryEntry) *model.ResolutionResult {
	for i := range entries {
		if Normalize(entries[i].SubName) == term {
			return &model.ResolutionResult{
				Code:         entries[i].Code,
				CategoryName: entries[i].SubName,
				Method:       model.MatchExact,
				Confidence:   1.0,
			}
		}
	}
	return nil
}

func resolveSynonym(term string, entries []model.CategoryEntry) *model.ResolutionResult {
	for i := range entries {
		for _, synonym := range entries[i].Synonyms {
			if Normalize(synonym) == term {
				return &model.ResolutionResult{
					Code:         entries[i].Code,
					CategoryName: entries[i].SubName,
					Method:       model.MatchSynonym,
					Confidence:   1.0,
				}
			}
		}
	}
	return nil
}

// resolveCompound looks for entry names and synonyms contained inside the
// input. Score is matched-term length over input length; ties go to the
// longer matched term.
func resolveCompound(term string, entries []model.CategoryEntry) *model.ResolutionResult {
	inputLen := utf8.RuneCountInString(term)
	if inputLen == 0 {
		return nil
	}

	var best *model.ResolutionResult
	bestTermLen := 0

	consider := func(entry *model.CategoryEntry, candidate string, limit float64) {
		normalized := Normalize(candidate)
		candidateLen := utf8.RuneCountInString(normalized)
		if candidateLen < 2 || !strings.Contains(term, normalized) {
			return
		}

		score := float64(candidateLen) / float64(inputLen)
		if score > limit {
			score = limit
		}
		if best != nil && (score < best.Confidence ||
			(score == best.Confidence && candidateLen <= bestTermLen)) {
			return
		}

		best = &model.ResolutionResult{
			Code:         entry.Code,
			CategoryName: entry.SubName,
			Method:       model.MatchCompound,
			Confidence:   score,
		}
		bestTermLen = candidateLen
	}

	for i := range entries {
		consider(&entries[i], entries[i].SubName, compoundNameCap)
		for _, synonym := range entries[i].Synonyms {
			consider(&entries[i], synonym, compoundSynonymCap)
		}
	}
	return best
}

// resolveFuzzy scores every name and synonym by normalized edit-distance
// similarity and keeps the best candidate at or above the threshold.
func (r *Resolver) resolveFuzzy(term string, entries []model.CategoryEntry) *model.ResolutionResult {
	var best *model.ResolutionResult

	consider := func(entry *model.CategoryEntry, candidate string) {
		score := Similarity(term, Normalize(candidate))
		if score < r.config.FuzzyThreshold {
			return
		}
		if best != nil && score <= best.Confidence {
			return
		}
		best = &model.ResolutionResult{
			Code:         entry.Code,
			CategoryName: entry.SubName,
			Method:       model.MatchFuzzy,
			Confidence:   score,
		}
	}

	for i := range entries {
		consider(&entries[i], entries[i].SubName)
		for _, synonym := range entries[i].Synonyms {
			consider(&entries[i], synonym)
		}
	}
	return best
}
