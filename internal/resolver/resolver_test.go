package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitesail/pennybook/internal/model"
)

type fakeCategories struct {
	entries []model.CategoryEntry
}

func (f *fakeCategories) ListActiveEntries(_ context.Context, _ string) ([]model.CategoryEntry, error) {
	return f.entries, nil
}

func (f *fakeCategories) AppendSynonym(_ context.Context, _ string, _ model.CategoryCode, _ string) error {
	return nil
}

type fakePreferences struct {
	records map[string]*model.PreferenceRecord
}

func (f *fakePreferences) Lookup(_ context.Context, userID, term string) (*model.PreferenceRecord, error) {
	if f.records == nil {
		return nil, nil
	}
	return f.records[userID+"|"+term], nil
}

func (f *fakePreferences) Upsert(_ context.Context, _, _ string, _ model.CategoryCode) error {
	return nil
}

func testDictionary() []model.CategoryEntry {
	return []model.CategoryEntry{
		{Code: model.CategoryCode{Major: "301", Sub: "01"}, SubName: "lunch", Synonyms: []string{"meal"}},
		{Code: model.CategoryCode{Major: "301", Sub: "02"}, SubName: "dinner"},
		{Code: model.CategoryCode{Major: "402", Sub: "02"}, SubName: "taxi", Synonyms: []string{"taxi fare", "cab"}},
		{Code: model.CategoryCode{Major: "801", Sub: "01"}, SubName: "salary", Synonyms: []string{"paycheck"}},
	}
}

func newTestResolver(prefs *fakePreferences) *Resolver {
	if prefs == nil {
		prefs = &fakePreferences{}
	}
	return New(&fakeCategories{entries: testDictionary()}, prefs)
}

func TestResolveExact(t *testing.T) {
	r := newTestResolver(nil)

	result, err := r.Resolve(context.Background(), "ledger", "user", "Lunch")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchExact, result.Method)
	assert.Equal(t, "301-01", result.Code.String())
	assert.Equal(t, 1.0, result.Confidence)
}

func TestResolveSynonymExact(t *testing.T) {
	r := newTestResolver(nil)

	result, err := r.Resolve(context.Background(), "ledger", "user", "taxi fare")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchSynonym, result.Method)
	assert.Equal(t, "402-02", result.Code.String())
	assert.Equal(t, 1.0, result.Confidence)
}

func TestResolvePreferenceBeatsExact(t *testing.T) {
	prefs := &fakePreferences{records: map[string]*model.PreferenceRecord{
		"user|lunch": {
			UserID:       "user",
			InputTerm:    "lunch",
			CategoryCode: model.CategoryCode{Major: "301", Sub: "02"},
			UseCount:     4,
		},
	}}
	r := newTestResolver(prefs)

	result, err := r.Resolve(context.Background(), "ledger", "user", "lunch")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchPreference, result.Method)
	assert.Equal(t, "301-02", result.Code.String())
	assert.Equal(t, 0.9, result.Confidence)
}

func TestResolvePreferenceWithRetiredCodeFallsThrough(t *testing.T) {
	prefs := &fakePreferences{records: map[string]*model.PreferenceRecord{
		"user|lunch": {
			UserID:       "user",
			InputTerm:    "lunch",
			CategoryCode: model.CategoryCode{Major: "999", Sub: "99"},
		},
	}}
	r := newTestResolver(prefs)

	result, err := r.Resolve(context.Background(), "ledger", "user", "lunch")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchExact, result.Method)
	assert.Equal(t, "301-01", result.Code.String())
}

func TestResolveCompoundContainment(t *testing.T) {
	r := newTestResolver(nil)

	result, err := r.Resolve(context.Background(), "ledger", "user", "late night taxi home")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchCompound, result.Method)
	assert.Equal(t, "402-02", result.Code.String())
	assert.InDelta(t, 4.0/20.0, result.Confidence, 0.001)
}

func TestResolveCompoundPrefersLongerTerm(t *testing.T) {
	// Both "taxi" and "taxi fare" are contained; the synonym is longer and
	// carries the higher cap.
	r := newTestResolver(nil)

	result, err := r.Resolve(context.Background(), "ledger", "user", "taxi fare downtown")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchCompound, result.Method)
	assert.Equal(t, "402-02", result.Code.String())
	assert.InDelta(t, 9.0/18.0, result.Confidence, 0.001)
}

func TestResolveFuzzy(t *testing.T) {
	r := newTestResolver(nil)

	result, err := r.Resolve(context.Background(), "ledger", "user", "dinenr")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MatchFuzzy, result.Method)
	assert.Equal(t, "301-02", result.Code.String())
	assert.GreaterOrEqual(t, result.Confidence, 0.65)
}

func TestResolveBelowFuzzyThresholdMisses(t *testing.T) {
	r := newTestResolver(nil)

	result, err := r.Resolve(context.Background(), "ledger", "user", "xjqzzv")

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestResolveIdempotent(t *testing.T) {
	r := newTestResolver(nil)

	first, err := r.Resolve(context.Background(), "ledger", "user", "paycheck")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "ledger", "user", "paycheck")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMatchMethodOrdering(t *testing.T) {
	methods := []model.MatchMethod{
		model.MatchPreference,
		model.MatchExact,
		model.MatchSynonym,
		model.MatchCompound,
		model.MatchFuzzy,
	}
	for i := 1; i < len(methods); i++ {
		assert.Less(t, methods[i-1].Rank(), methods[i].Rank())
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"lunch", "lunch", 1.0},
		{"", "", 1.0},
		{"abcd", "abce", 0.75},
		{"a", "b", 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 0.001, "%q vs %q", tt.a, tt.b)
	}
}
