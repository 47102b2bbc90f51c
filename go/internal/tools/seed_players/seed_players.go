// Seeds the players table from the NHL web API: every club's current roster,
// with positions and a fantasy score derived from this season's stats.
// Re-running refreshes names, positions and scores in place.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/puckdraft/go/clients"
	"github.com/mcdev12/puckdraft/go/clients/nhl"
	"github.com/mcdev12/puckdraft/go/internal/dbconfig"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/player"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: no .env file loaded: %v\n", err)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := player.NewRepository(pool)
	client := nhl.NewClient()

	total, upserted, errs := 0, 0, 0
	for _, abbrev := range nhl.TeamAbbrevs {
		players, err := client.GetTeamPlayers(ctx, abbrev)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch %s: %v\n", abbrev, err)
			errs++
			continue
		}

		for _, p := range players {
			total++
			err := repo.UpsertPlayer(ctx, models.Player{
				ID:           uuid.New(),
				ExternalID:   clients.ExternalID(clients.ExternalSourceNHL, p.ID),
				FullName:     p.FullName,
				Position:     p.Position,
				IsActive:     true,
				FantasyScore: p.FantasyScore,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "upsert %s: %v\n", p.FullName, err)
				errs++
				continue
			}
			upserted++
		}
	}

	fmt.Printf("Players seed: total=%d upserted=%d errors=%d\n", total, upserted, errs)
	if errs > 0 {
		os.Exit(1)
	}
}
