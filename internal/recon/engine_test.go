package recon

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginrecon/internal/common"
	"loginrecon/internal/model"
	"loginrecon/internal/service"
	"loginrecon/internal/storage"
)

// fixtureRecords is the reference scenario: E001/DEV eligible with a
// partial match, E002/QA poisoned by a terminated record, E003/DEV
// eligible with a full match.
func fixtureRecords() []model.Record {
	recs := []model.Record{
		{EmpID: "E001", EmpType: "DEV", DevLogin: strPtr("john_dev"), UATLogin: strPtr("john_uat"), Status: "A", Flag: "Y"},
		{EmpID: "E001", EmpType: "DEV", DevLogin: strPtr("jdoe"), UATLogin: strPtr("jdoe"), Status: "A", Flag: "N"},
		{EmpID: "E002", EmpType: "QA", DevLogin: strPtr("amy_dev"), UATLogin: strPtr("amy_uat"), Status: "A", Flag: "Y"},
		{EmpID: "E002", EmpType: "QA", DevLogin: strPtr("amy2"), UATLogin: strPtr("amy2"), Status: "T", Flag: "N"},
		{EmpID: "E003", EmpType: "DEV", DevLogin: strPtr("bob_dev"), UATLogin: strPtr("bob_dev"), Status: "A", Flag: "Y"},
		{EmpID: "E003", EmpType: "DEV", DevLogin: strPtr("bob2"), UATLogin: strPtr("bob3"), Status: "A", Flag: "N"},
	}
	for i := range recs {
		recs[i].ImportedAt = time.Now()
		recs[i].ID = recs[i].GenerateHash()
	}
	return recs
}

func TestReconcile(t *testing.T) {
	results := Reconcile(fixtureRecords())

	require.Len(t, results, 2)

	byEmp := make(map[string]model.ReconciledRecord)
	for _, result := range results {
		byEmp[result.EmpID] = result
	}

	e001, ok := byEmp["E001"]
	require.True(t, ok, "expected a result for E001")
	assert.Equal(t, model.MatchPartial, e001.MatchType)
	assert.Equal(t, "Y", e001.Flag)

	e003, ok := byEmp["E003"]
	require.True(t, ok, "expected a result for E003")
	assert.Equal(t, model.MatchFull, e003.MatchType)

	_, ok = byEmp["E002"]
	assert.False(t, ok, "terminated group must produce no output rows")
}

func TestReconcileOutputIsStrictSubset(t *testing.T) {
	records := fixtureRecords()
	eligibility := GroupEligibility(records)
	results := Reconcile(records)

	for _, result := range results {
		key := model.GroupKey{EmpID: result.EmpID, EmpType: result.EmpType}
		assert.True(t, eligibility[key], "output row %v from ineligible group", key)
		assert.Equal(t, model.FlagSelected, result.Flag)
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	assert.Empty(t, Reconcile(nil))
	assert.Empty(t, Reconcile([]model.Record{}))
}

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestEngineRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.SaveRecords(ctx, fixtureRecords()))

	engine := NewWithConfig(store, Config{ShowProgress: false})

	run, results, err := engine.Run(ctx, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 6, run.TotalRecords)
	assert.Equal(t, 3, run.TotalGroups)
	assert.Equal(t, 2, run.EligibleGroups)
	assert.Equal(t, 1, run.FullMatches)
	assert.Equal(t, 1, run.PartialMatches)
	assert.Equal(t, 0, run.NoMatches)
	assert.Len(t, results, 2)
	assert.NotZero(t, run.ID, "run must be persisted and assigned an ID")

	// The persisted results must round-trip.
	stored, err := store.GetResults(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestEngineRunMatchesReconcile(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.SaveRecords(ctx, fixtureRecords()))

	engine := NewWithConfig(store, Config{ShowProgress: false})

	run, results, err := engine.Run(ctx, RunOptions{})
	require.NoError(t, err)

	// Run and Reconcile classify through the same pass, so the stored
	// rows must match the pure pipeline's output for the same records.
	records, err := store.GetRecords(ctx, service.RecordFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, Reconcile(records), results)

	// The run tallies are derived from that same result set.
	tally := map[model.MatchType]int{}
	for _, result := range results {
		tally[result.MatchType]++
	}
	assert.Equal(t, tally[model.MatchFull], run.FullMatches)
	assert.Equal(t, tally[model.MatchPartial], run.PartialMatches)
	assert.Equal(t, tally[model.MatchNone], run.NoMatches)
}

func TestEngineRunDryRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.SaveRecords(ctx, fixtureRecords()))

	engine := NewWithConfig(store, Config{ShowProgress: false})

	run, results, err := engine.Run(ctx, RunOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Zero(t, run.ID, "dry run must not persist")

	_, err = store.GetLatestRun(ctx)
	assert.ErrorIs(t, err, common.ErrNoRuns)
}

func TestEngineRunNoRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	engine := NewWithConfig(store, Config{ShowProgress: false})

	_, _, err := engine.Run(ctx, RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoRecords))
}

func TestEngineRunSourceFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	records := fixtureRecords()
	for i := range records {
		if records[i].EmpID == "E003" {
			records[i].Source = "other.csv"
		} else {
			records[i].Source = "main.csv"
		}
		records[i].ID = records[i].GenerateHash()
	}
	require.NoError(t, store.SaveRecords(ctx, records))

	engine := NewWithConfig(store, Config{ShowProgress: false})

	run, results, err := engine.Run(ctx, RunOptions{Source: "other.csv"})
	require.NoError(t, err)
	assert.Equal(t, 2, run.TotalRecords)
	require.Len(t, results, 1)
	assert.Equal(t, "E003", results[0].EmpID)
	assert.Equal(t, model.MatchFull, results[0].MatchType)
}
