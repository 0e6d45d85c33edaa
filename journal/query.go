package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/sltp/ledger"
)

const selectEntries = `
	SELECT id, pair, direction, pnl, fee, date, notes
	FROM entries`

// GetEntry returns a single entry by ID.
func (j *SQLite) GetEntry(ctx context.Context, entryID string) (ledger.Entry, error) {
	row := j.db.QueryRowContext(ctx, selectEntries+`
		WHERE id = ?`, entryID)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Entry{}, fmt.Errorf("entry %q: %w", entryID, ErrNotFound)
		}
		return ledger.Entry{}, err
	}
	return e, nil
}

// ListEntries returns every entry, oldest date first. Entries sharing a date
// come back in insertion order.
func (j *SQLite) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := j.db.QueryContext(ctx, selectEntries+`
		ORDER BY date ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListEntriesBetween returns entries whose date is within [from, to).
func (j *SQLite) ListEntriesBetween(ctx context.Context, from, to string) ([]ledger.Entry, error) {
	rows, err := j.db.QueryContext(ctx, selectEntries+`
		WHERE date >= ? AND date < ?
		ORDER BY date ASC, rowid ASC`, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (ledger.Entry, error) {
	var (
		e   ledger.Entry
		dir string
	)
	if err := s.Scan(&e.ID, &e.Pair, &dir, &e.PnL, &e.Fee, &e.Date, &e.Notes); err != nil {
		return ledger.Entry{}, err
	}
	e.Direction = ledger.Direction(dir)
	return e, nil
}

func collect(rows *sql.Rows) ([]ledger.Entry, error) {
	defer rows.Close()

	out := []ledger.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
