package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSNMySQLForcesParseTime(t *testing.T) {
	got, err := normalizeDSN(MySQL, "user:pw@tcp(db:3306)/tierzero")
	require.NoError(t, err)
	assert.Contains(t, got, "parseTime=true")
}

func TestNormalizeDSNSQLiteAddsForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "leads.db")

	got, err := normalizeDSN(SQLite, path)
	require.NoError(t, err)
	assert.Equal(t, path+"?_pragma=foreign_keys(1)", got)

	got, err = normalizeDSN(SQLite, "file:"+path+"?cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "file:"+path+"?cache=shared&_pragma=foreign_keys(1)", got)
}

func TestNormalizeDSNRejectsUnknownDriver(t *testing.T) {
	_, err := normalizeDSN("postgres", "x")
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(SQLite, filepath.Join(t.TempDir(), "t.db"))
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, SQLite, db.DriverName())
}
