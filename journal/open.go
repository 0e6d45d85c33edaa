package journal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/sltp/config"
)

// Open builds the store described by cfg.
func Open(ctx context.Context, cfg config.JournalConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLite(cfg.DBPath)

	case "postgres":
		return NewPostgres(ctx, cfg.PostgresURL, cfg.UserID, log)

	case "resilient":
		local, err := NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open local journal: %w", err)
		}
		remote, err := NewPostgres(ctx, cfg.PostgresURL, cfg.UserID, log)
		if err != nil {
			// keep working offline; the local copy is the journal until the
			// remote comes back on a later run
			log.Warn().Err(err).Msg("remote journal unavailable, using local only")
			return local, nil
		}
		return NewResilient(remote, local, DefaultBreakerConfig(), log), nil
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}
