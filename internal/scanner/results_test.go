package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAll_ReferenceLedger(t *testing.T) {
	rows := exampleRows()
	results := ScanAll(rows, 100_000)

	assert.Equal(t, []string{
		LabelMissingDescription,
		LabelLargeAmounts,
		LabelWeekendEntries,
		LabelDuplicateVouchers,
	}, results.Labels())

	assert.Equal(t, map[string]int{
		"Missing description":       2,
		"Large amounts":             2,
		"Weekend entries":           2,
		"Duplicate voucher numbers": 2,
	}, results.Counts())
	assert.Equal(t, 8, results.Total())

	missing, ok := results.Get(LabelMissingDescription)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, lines(missing))

	large, ok := results.Get(LabelLargeAmounts)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, lines(large))

	weekend, ok := results.Get(LabelWeekendEntries)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, lines(weekend))

	dups, ok := results.Get(LabelDuplicateVouchers)
	require.True(t, ok)
	assert.Equal(t, []int{3, 2}, lines(dups))
}

func TestScanAll_Idempotent(t *testing.T) {
	rows := exampleRows()

	first := ScanAll(rows, DefaultThreshold)
	second := ScanAll(rows, DefaultThreshold)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Label, second[i].Label)
		require.Len(t, second[i].Rows, len(first[i].Rows))
		for j := range first[i].Rows {
			assert.Same(t, first[i].Rows[j], second[i].Rows[j])
		}
	}
}

func TestScanAll_ThresholdOnlyAffectsLargeAmounts(t *testing.T) {
	rows := exampleRows()

	low := ScanAll(rows, 1_000).Counts()
	high := ScanAll(rows, 1_000_000).Counts()

	assert.Equal(t, 4, low[LabelLargeAmounts])
	assert.Equal(t, 0, high[LabelLargeAmounts])
	for _, label := range []string{LabelMissingDescription, LabelWeekendEntries, LabelDuplicateVouchers} {
		assert.Equal(t, low[label], high[label], label)
	}
}

func TestResultsGet_UnknownLabel(t *testing.T) {
	rows, ok := ScanAll(exampleRows(), DefaultThreshold).Get("Manglende beskrivelse")
	assert.False(t, ok)
	assert.Nil(t, rows)
}

func TestChecks_MatchResultOrder(t *testing.T) {
	results := ScanAll(nil, DefaultThreshold)
	checks := Checks()

	require.Len(t, checks, len(results))
	for i, c := range checks {
		assert.Equal(t, results[i].Label, c.Label)
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Description)
	}
}
