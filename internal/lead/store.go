// internal/lead/store.go
//
// sqlx-backed persistence for leads and their interactions.
//
// Context
// -------
// Store is shared by the form handler, the JSON submissions API, and the
// admin pages.  Queries use `?` placeholders, which both MySQL and SQLite
// accept, so one Store serves either driver.
//
// Workflow
// --------
//   - Create fills id, status, and timestamps, validates, then inserts.
//   - List applies every set Filter field together, newest first.
//   - UpdateStatus changes the status and records a "status_change"
//     interaction in one transaction.
package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const leadColumns = `id, lead_type, domain, email, first_name, last_name, phone, company,
	message, metadata, ip_address, user_agent, referrer, utm_source, utm_medium,
	utm_campaign, status, notes, created_at, updated_at`

// Store reads and writes leads.
type Store struct {
	db       *sqlx.DB
	validate *validator.Validate
	now      func() time.Time
}

// NewStore wraps an open pool.  Call Migrate once before first use.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, validate: validator.New(), now: time.Now}
}

// Create validates l, assigns its id, and inserts it.  The returned id is
// also written back to l.ID.
func (s *Store) Create(ctx context.Context, l *Lead) (string, error) {
	l.Domain = strings.ToLower(strings.TrimSpace(l.Domain))
	l.Email = strings.TrimSpace(l.Email)
	if err := s.validate.Struct(l); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	now := s.now().UTC()
	l.ID = uuid.NewString()
	if l.Status == "" {
		l.Status = StatusNew
	}
	if len(l.Metadata) == 0 {
		l.Metadata = []byte("{}")
	}
	l.CreatedAt, l.UpdatedAt = now, now

	const q = `INSERT INTO leads (` + leadColumns + `)
		VALUES (:id, :lead_type, :domain, :email, :first_name, :last_name, :phone, :company,
			:message, :metadata, :ip_address, :user_agent, :referrer, :utm_source, :utm_medium,
			:utm_campaign, :status, :notes, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, q, l); err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}
	zap.L().Info("lead stored",
		zap.String("id", l.ID),
		zap.String("type", string(l.Type)),
		zap.String("domain", l.Domain))
	return l.ID, nil
}

// Get loads one lead by id.
func (s *Store) Get(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	err := s.db.GetContext(ctx, &l, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return &l, nil
}

// List returns leads matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Lead, error) {
	var (
		where []string
		args  []any
	)
	if f.Domain != "" {
		where = append(where, "domain = ?")
		args = append(args, strings.ToLower(f.Domain))
	}
	if f.Type != "" {
		where = append(where, "lead_type = ?")
		args = append(args, string(f.Type))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	out := make([]Lead, 0, 16)
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return out, nil
}

// UpdateStatus moves a lead to st and logs the change as an interaction.
// Non-empty notes replace the lead's notes as well.
func (s *Store) UpdateStatus(ctx context.Context, id string, st Status, notes, by string) error {
	if !st.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalid, st)
	}
	now := s.now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var res sql.Result
	if notes != "" {
		res, err = tx.ExecContext(ctx,
			`UPDATE leads SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
			string(st), notes, now, id)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE leads SET status = ?, updated_at = ? WHERE id = ?`,
			string(st), now, id)
	}
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lead_interactions (id, lead_id, interaction_type, notes, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), id, "status_change", "status → "+string(st)+noteSuffix(notes), by, now,
	); err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return tx.Commit()
}

// Interactions lists a lead's follow-ups, oldest first.
func (s *Store) Interactions(ctx context.Context, leadID string) ([]Interaction, error) {
	out := make([]Interaction, 0, 4)
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, lead_id, interaction_type, notes, created_by, created_at
		   FROM lead_interactions WHERE lead_id = ? ORDER BY created_at`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return out, nil
}

func noteSuffix(n string) string {
	if n == "" {
		return ""
	}
	return ": " + n
}
