package engine

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/puckdraft/go/internal/draft/draft"
	"github.com/mcdev12/puckdraft/go/internal/draft/order"
	"github.com/mcdev12/puckdraft/go/internal/draft/outbox"
	"github.com/mcdev12/puckdraft/go/internal/draft/pick"
	"github.com/mcdev12/puckdraft/go/internal/leagues"
	"github.com/mcdev12/puckdraft/go/internal/player"
	"github.com/mcdev12/puckdraft/go/internal/roster"
	"github.com/mcdev12/puckdraft/go/internal/sqlutil"
	"github.com/mcdev12/puckdraft/go/internal/teams"
)

// PgRunner binds the pgx repositories to a single transaction per operation.
type PgRunner struct {
	pool *pgxpool.Pool
}

func NewPgRunner(pool *pgxpool.Pool) *PgRunner {
	return &PgRunner{pool: pool}
}

func (p *PgRunner) InTx(ctx context.Context, fn func(r Repos) error) error {
	return sqlutil.Run(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(Repos{
			Drafts:  draft.NewRepository(tx),
			Picks:   pick.NewRepository(tx),
			Orders:  order.NewRepository(tx),
			Leagues: leagues.NewRepository(tx),
			Teams:   teams.NewRepository(tx),
			Players: player.NewRepository(tx),
			Rosters: roster.NewRepository(tx),
			Events:  outbox.NewWriter(tx),
		})
	})
}

// NewPgReader returns pool-bound repositories for lock-free reads.
func NewPgReader(pool *pgxpool.Pool) Reader {
	return Reader{
		Drafts: draft.NewRepository(pool),
		Picks:  pick.NewRepository(pool),
		Teams:  teams.NewRepository(pool),
		Orders: order.NewRepository(pool),
	}
}
