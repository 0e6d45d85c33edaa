package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/sony/gobreaker"
)

// Resilient puts a remote store behind a circuit breaker and keeps a local
// SQLite copy. Reads that fail remotely are served from the local copy;
// writes that fail remotely land locally and can be pushed later with Sync.
//
// Lookups for an ID the remote does not know are not failures and are never
// answered from the local copy.
type Resilient struct {
	remote Store
	local  *SQLite
	cb     *gobreaker.CircuitBreaker
	log    zerolog.Logger
}

type BreakerConfig struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "remote-journal",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

func NewResilient(remote Store, local *SQLite, bc BreakerConfig, log zerolog.Logger) *Resilient {
	log = log.With().Str("store", "resilient").Logger()
	settings := gobreaker.Settings{
		Name:        bc.Name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("remote journal breaker changed state")
		},
		// a missing entry is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}
	return &Resilient{remote: remote, local: local, cb: gobreaker.NewCircuitBreaker(settings), log: log}
}

// State reports the breaker state, e.g. "closed" or "open".
func (r *Resilient) State() string {
	return r.cb.State().String()
}

func (r *Resilient) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.remote.ListEntries(ctx)
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("remote list failed, serving local copy")
		return r.local.ListEntries(ctx)
	}

	entries := out.([]ledger.Entry)
	if err := r.local.PutEntries(ctx, entries); err != nil {
		r.log.Warn().Err(err).Msg("refresh local copy")
	}
	return entries, nil
}

func (r *Resilient) ListEntriesBetween(ctx context.Context, from, to string) ([]ledger.Entry, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.remote.ListEntriesBetween(ctx, from, to)
	})
	if err != nil {
		r.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("remote range failed, serving local copy")
		return r.local.ListEntriesBetween(ctx, from, to)
	}
	return out.([]ledger.Entry), nil
}

func (r *Resilient) GetEntry(ctx context.Context, entryID string) (ledger.Entry, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.remote.GetEntry(ctx, entryID)
	})
	switch {
	case err == nil:
		return out.(ledger.Entry), nil
	case errors.Is(err, ErrNotFound):
		return ledger.Entry{}, err
	}
	r.log.Warn().Err(err).Str("id", entryID).Msg("remote get failed, serving local copy")
	return r.local.GetEntry(ctx, entryID)
}

func (r *Resilient) AddEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
	if err := e.Validate(); err != nil {
		return ledger.Entry{}, err
	}

	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.remote.AddEntry(ctx, e)
	})
	if err != nil {
		r.log.Warn().Err(err).Str("pair", e.Pair).Msg("remote add failed, keeping entry locally")
		return r.local.AddEntry(ctx, e)
	}

	saved := out.(ledger.Entry)
	if err := r.local.PutEntries(ctx, []ledger.Entry{saved}); err != nil {
		r.log.Warn().Err(err).Str("id", saved.ID).Msg("mirror entry locally")
	}
	return saved, nil
}

// DeleteEntry removes the entry from both copies. It succeeds when either
// copy had it.
func (r *Resilient) DeleteEntry(ctx context.Context, entryID string) error {
	_, remoteErr := r.cb.Execute(func() (interface{}, error) {
		return nil, r.remote.DeleteEntry(ctx, entryID)
	})
	localErr := r.local.DeleteEntry(ctx, entryID)

	switch {
	case remoteErr == nil || localErr == nil:
		if remoteErr != nil && !errors.Is(remoteErr, ErrNotFound) {
			r.log.Warn().Err(remoteErr).Str("id", entryID).Msg("remote delete failed, removed locally only")
		}
		return nil
	case errors.Is(remoteErr, ErrNotFound):
		return localErr
	}
	return remoteErr
}

// Sync pushes local-only entries to the remote when it supports syncing.
func (r *Resilient) Sync(ctx context.Context) (int, error) {
	syncer, ok := r.remote.(Syncer)
	if !ok {
		return 0, nil
	}
	local, err := r.local.ListEntries(ctx)
	if err != nil {
		return 0, err
	}
	out, err := r.cb.Execute(func() (interface{}, error) {
		return syncer.Sync(ctx, local)
	})
	if err != nil {
		return 0, err
	}
	return out.(int), nil
}

func (r *Resilient) Close() error {
	return errors.Join(r.remote.Close(), r.local.Close())
}
