package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginrecon/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testRecord(empID, empType, dev, uat, status, flag string) model.Record {
	rec := model.Record{
		EmpID:      empID,
		EmpType:    empType,
		Status:     status,
		Flag:       flag,
		Source:     "test.csv",
		ImportedAt: time.Now().UTC(),
	}
	if dev != "" {
		rec.DevLogin = &dev
	}
	if uat != "" {
		rec.UATLogin = &uat
	}
	rec.ID = rec.GenerateHash()
	return rec
}

func TestNewSQLiteStorageValidation(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrateReachesExpectedVersion(t *testing.T) {
	store := newTestStorage(t)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Migrating again is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}
