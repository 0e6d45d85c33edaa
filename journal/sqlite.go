package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/pkg/id"
)

// SQLite is the local, single-user entry store.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(SQLiteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) AddEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
	if err := e.Validate(); err != nil {
		return ledger.Entry{}, err
	}
	if e.ID == "" {
		e.ID = id.New()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries
		(id, pair, direction, pnl, fee, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Pair, string(e.Direction), e.PnL, e.Fee, e.Date, e.Notes, time.Now().UTC(),
	)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("insert entry %q: %w", e.ID, err)
	}
	return e, nil
}

// PutEntries inserts or replaces entries by ID in one transaction. It is how
// the local cache takes in a remote snapshot.
func (j *SQLite) PutEntries(ctx context.Context, entries []ledger.Entry) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(id, pair, direction, pnl, fee, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pair = excluded.pair,
			direction = excluded.direction,
			pnl = excluded.pnl,
			fee = excluded.fee,
			date = excluded.date,
			notes = excluded.notes`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("put entry without id: %w", ledger.ErrInvalidEntry)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Pair, string(e.Direction), e.PnL, e.Fee, e.Date, e.Notes, now); err != nil {
			return fmt.Errorf("put entry %q: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %q: %w", entryID, ErrNotFound)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
