package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/convoset/internal/api"
	"github.com/MikeSquared-Agency/convoset/internal/config"
	"github.com/MikeSquared-Agency/convoset/internal/hermes"
	"github.com/MikeSquared-Agency/convoset/internal/pipeline"
	"github.com/MikeSquared-Agency/convoset/internal/store"
)

// backends holds the optional Postgres and NATS connections. Fields stay nil
// when the matching URL is not configured.
type backends struct {
	store  *store.Store
	hermes *hermes.Client
}

func openBackends(ctx context.Context, c config.Config, logger *slog.Logger) (*backends, error) {
	b := &backends{}

	if c.DatabaseURL != "" {
		db, err := store.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		b.store = db
		logger.Info("database connected")
	} else {
		logger.Info("DATABASE_URL not set, runs will not be persisted")
	}

	if c.NatsURL != "" {
		hc, err := hermes.NewClient(ctx, c.NatsURL, c.NatsToken, logger)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		b.hermes = hc
		logger.Info("NATS connected", "url", c.NatsURL)
	} else {
		logger.Info("NATS_URL not set, events disabled")
	}

	return b, nil
}

// recorder returns the store as a RunRecorder, or nil.
func (b *backends) recorder() pipeline.RunRecorder {
	if b.store == nil {
		return nil
	}
	return b.store
}

// history returns the store as an api.RunStore, or nil.
func (b *backends) history() api.RunStore {
	if b.store == nil {
		return nil
	}
	return b.store
}

// publisher returns the NATS client as a Publisher, or nil.
func (b *backends) publisher() pipeline.Publisher {
	if b.hermes == nil {
		return nil
	}
	return b.hermes
}

func (b *backends) Close() {
	if b.hermes != nil {
		b.hermes.Close()
	}
	if b.store != nil {
		b.store.Close()
	}
}
