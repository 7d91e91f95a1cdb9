package lead

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "lead_type", "domain", "email", "first_name", "last_name", "phone", "company",
	"message", "metadata", "ip_address", "user_agent", "referrer", "utm_source", "utm_medium",
	"utm_campaign", "status", "notes", "created_at", "updated_at",
}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	s := NewStore(sqlx.NewDb(raw, "mysql"))
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestCreateFillsDefaults(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leads (")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	l := &Lead{Type: TypeDomain, Domain: " Brewhaus.com.au ", Email: "buyer@example.com"}
	id, err := s.Create(context.Background(), l)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, l.ID)
	assert.Equal(t, StatusNew, l.Status)
	assert.Equal(t, "brewhaus.com.au", l.Domain)
	assert.JSONEq(t, `{}`, string(l.Metadata))
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvalid(t *testing.T) {
	s, mock := newMock(t)

	cases := []*Lead{
		{Type: TypeDomain, Domain: "x.com", Email: "not-an-email"},
		{Type: "partner", Domain: "x.com", Email: "a@b.co"},
		{Type: TypeConsumer, Email: "a@b.co"},
	}
	for _, l := range cases {
		_, err := s.Create(context.Background(), l)
		assert.ErrorIs(t, err, ErrInvalid)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesAllFilters(t *testing.T) {
	s, mock := newMock(t)
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM leads WHERE domain = ? AND lead_type = ? ORDER BY created_at DESC LIMIT ?",
	)).
		WithArgs("x.com", "business", DefaultLimit).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"id-1", "business", "x.com", "owner@venue.com", "", "", "", "Venue Co",
			"hi", `{"ua":"Chrome"}`, "10.0.0.1", "curl", "", "", "", "",
			"new", "", at, at,
		))

	got, err := s.List(context.Background(), Filter{Domain: "X.com", Type: TypeBusiness})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeBusiness, got[0].Type)
	assert.Equal(t, "Venue Co", got[0].Company)
	assert.JSONEq(t, `{"ua":"Chrome"}`, string(got[0].Metadata))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutFilters(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM leads ORDER BY created_at DESC LIMIT ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := s.List(context.Background(), Filter{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusRecordsInteraction(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs("contacted", sqlmock.AnyArg(), "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lead_interactions")).
		WithArgs(sqlmock.AnyArg(), "id-1", "status_change", "status → contacted", "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpdateStatus(context.Background(), "id-1", StatusContacted, "", "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET status = ?, notes = ?, updated_at = ? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.UpdateStatus(context.Background(), "nope", StatusArchived, "dup", "admin")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	s, _ := newMock(t)
	err := s.UpdateStatus(context.Background(), "id-1", "won", "", "admin")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMigrateUnsupportedDriver(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	err = Migrate(context.Background(), sqlx.NewDb(raw, "postgres"))
	assert.Error(t, err)
}

func TestMigrateSQLite(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	for range sqliteDDL {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(raw, "sqlite")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
