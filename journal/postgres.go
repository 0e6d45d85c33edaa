package journal

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/pkg/id"
)

// Postgres is the remote store. Every query is scoped to one user; a store
// opened without a user refuses all work with ErrNotAuthenticated.
type Postgres struct {
	pool   *pgxpool.Pool
	userID string
	log    zerolog.Logger
}

// NewPostgres connects, verifies connectivity and creates the trades table
// when missing.
func NewPostgres(ctx context.Context, dbURL, userID string, log zerolog.Logger) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal for NUMERIC columns
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Postgres{pool: pool, userID: userID, log: log.With().Str("store", "postgres").Logger()}, nil
}

const selectTrades = `
	SELECT id, pair, direction, pnl, fee, date::text, notes
	FROM trades`

func (p *Postgres) authed() error {
	if p.userID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func (p *Postgres) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	if err := p.authed(); err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, selectTrades+`
		WHERE user_id = $1
		ORDER BY date ASC, created_at ASC`, p.userID)
	if err != nil {
		return nil, err
	}
	return collectPg(rows)
}

func (p *Postgres) ListEntriesBetween(ctx context.Context, from, to string) ([]ledger.Entry, error) {
	if err := p.authed(); err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, selectTrades+`
		WHERE user_id = $1 AND date >= $2::text::date AND date < $3::text::date
		ORDER BY date ASC, created_at ASC`, p.userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectPg(rows)
}

func (p *Postgres) GetEntry(ctx context.Context, entryID string) (ledger.Entry, error) {
	if err := p.authed(); err != nil {
		return ledger.Entry{}, err
	}
	row := p.pool.QueryRow(ctx, selectTrades+`
		WHERE user_id = $1 AND id = $2`, p.userID, entryID)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Entry{}, fmt.Errorf("entry %q: %w", entryID, ErrNotFound)
		}
		return ledger.Entry{}, err
	}
	return e, nil
}

const insertTrade = `
	INSERT INTO trades (id, user_id, pair, direction, pnl, fee, date, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7::text::date, $8)`

func (p *Postgres) AddEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
	if err := p.authed(); err != nil {
		return ledger.Entry{}, err
	}
	if err := e.Validate(); err != nil {
		return ledger.Entry{}, err
	}
	if e.ID == "" {
		e.ID = id.New()
	}

	_, err := p.pool.Exec(ctx, insertTrade,
		e.ID, p.userID, e.Pair, string(e.Direction), e.PnL, e.Fee, e.Date, e.Notes)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("insert entry %q: %w", e.ID, err)
	}
	return e, nil
}

func (p *Postgres) DeleteEntry(ctx context.Context, entryID string) error {
	if err := p.authed(); err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM trades WHERE user_id = $1 AND id = $2`, p.userID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %q: %w", entryID, ErrNotFound)
	}
	return nil
}

// Sync uploads the local entries whose IDs the remote has not seen. Rows that
// appear concurrently are skipped rather than overwritten.
func (p *Postgres) Sync(ctx context.Context, local []ledger.Entry) (int, error) {
	if err := p.authed(); err != nil {
		return 0, err
	}

	rows, err := p.pool.Query(ctx, `SELECT id FROM trades WHERE user_id = $1`, p.userID)
	if err != nil {
		return 0, err
	}
	remote, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, err
	}
	missing := MissingFrom(local, remote)
	if len(missing) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range missing {
		batch.Queue(insertTrade+` ON CONFLICT (id) DO NOTHING`,
			e.ID, p.userID, e.Pair, string(e.Direction), e.PnL, e.Fee, e.Date, e.Notes)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upload %d entries: %w", len(missing), err)
	}

	p.log.Info().Int("uploaded", len(missing)).Msg("synced local entries")
	return len(missing), nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// MissingFrom returns the entries of local whose IDs are not in remote, in
// local order. Entries without an ID are skipped.
func MissingFrom(local []ledger.Entry, remote []string) []ledger.Entry {
	seen := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		seen[r] = struct{}{}
	}
	var out []ledger.Entry
	for _, e := range local {
		if e.ID == "" {
			continue
		}
		if _, ok := seen[e.ID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

func collectPg(rows pgx.Rows) ([]ledger.Entry, error) {
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
