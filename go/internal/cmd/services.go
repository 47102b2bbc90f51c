package main

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/puckdraft/go/internal/draft"
	draftrepo "github.com/mcdev12/puckdraft/go/internal/draft/draft"
	"github.com/mcdev12/puckdraft/go/internal/draft/engine"
	"github.com/mcdev12/puckdraft/go/internal/draft/outbox"
	"github.com/rs/zerolog"
)

type Services struct {
	Draft    *draft.Service
	Listener *outbox.Listener
}

// setupServices wires the dependency chain: pool -> tx runner -> engine ->
// HTTP service, plus the outbox listener on the database/sql side.
func setupServices(pool *pgxpool.Pool, database *sql.DB, cfg *Config, dsn string, log zerolog.Logger) (*Services, error) {
	runner := engine.NewPgRunner(pool)
	reader := engine.NewPgReader(pool)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	eng := engine.New(runner, reader, clockwork.NewRealClock(), rng, log)

	draftService := draft.NewService(eng, reader, draftrepo.NewRepository(pool), log)

	publisher, err := outbox.NewJetStreamPublisher(cfg.jetStreamConfig(), log)
	if err != nil {
		return nil, err
	}
	listener, err := outbox.NewListener(
		outbox.NewRepository(database),
		publisher,
		cfg.listenerConfig(dsn),
		log,
	)
	if err != nil {
		publisher.Close()
		return nil, err
	}

	return &Services{
		Draft:    draftService,
		Listener: listener,
	}, nil
}
