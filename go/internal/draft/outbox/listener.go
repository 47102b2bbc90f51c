package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type ListenerConfig struct {
	DatabaseURL      string        // Postgres DSN for the LISTEN socket
	FallbackInterval time.Duration // how often to sweep for missed events
	MaxRetries       int
	RetryDelay       time.Duration
	PingInterval     time.Duration
	BatchSize        int32
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		FallbackInterval: 30 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		PingInterval:     90 * time.Second,
		BatchSize:        100,
	}
}

// Listener drains the outbox into the publisher. Normally woken per event by
// NOTIFY; the fallback sweep republishes anything a dropped notification or a
// crashed publish left behind.
type Listener struct {
	repo      *Repository
	listener  *pq.Listener
	publisher Publisher
	cfg       ListenerConfig
	log       zerolog.Logger
}

func NewListener(repo *Repository, publisher Publisher, cfg ListenerConfig, log zerolog.Logger) (*Listener, error) {
	logger := log.With().Str("component", "outbox_listener").Logger()
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Error().Err(err).Msg("listener connection event")
			}
		},
	)
	if err := l.Listen(NotifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}

	logger.Info().Str("channel", NotifyChannel).Msg("listening for outbox notifications")

	return &Listener{
		repo:      repo,
		listener:  l,
		publisher: publisher,
		cfg:       cfg,
		log:       logger,
	}, nil
}

func (l *Listener) Start(ctx context.Context) error {
	l.log.Info().
		Dur("fallback_interval", l.cfg.FallbackInterval).
		Dur("ping_interval", l.cfg.PingInterval).
		Msg("outbox listener started")

	pingTicker := time.NewTicker(l.cfg.PingInterval)
	fallbackTicker := time.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	// drain whatever accumulated before we came up
	if err := l.processUnsent(ctx); err != nil {
		l.log.Error().Err(err).Msg("initial outbox sweep failed")
	}

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("outbox listener shutting down")
			return l.Stop()
		case note := <-l.listener.Notify:
			if note == nil {
				// nil means the connection dropped and pq is reconnecting;
				// the fallback sweep covers anything missed meanwhile
				continue
			}
			if err := l.handleNotification(ctx, note.Extra); err != nil {
				l.log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.C:
			if err := l.processUnsent(ctx); err != nil {
				l.log.Error().Err(err).Msg("fallback sweep failed")
			}
		case <-pingTicker.C:
			if err := l.listener.Ping(); err != nil {
				l.log.Error().Err(err).Msg("failed to ping listen socket")
			}
		}
	}
}

func (l *Listener) Stop() error {
	return l.listener.Close()
}

// handleNotification publishes the single event named in the NOTIFY payload.
func (l *Listener) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event id in notification %q: %w", extra, err)
	}

	event, err := l.repo.FetchByID(ctx, id)
	if err != nil {
		return err
	}

	if err := l.publishWithRetry(ctx, *event); err != nil {
		return err
	}
	if err := l.repo.MarkSent(ctx, id); err != nil {
		return err
	}

	l.log.Debug().
		Str("event_id", id.String()).
		Str("event_type", event.EventType).
		Msg("published outbox event")
	return nil
}

func (l *Listener) processUnsent(ctx context.Context) error {
	unsent, err := l.repo.FetchUnsent(ctx, l.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range unsent {
		if err := l.publishWithRetry(ctx, event); err != nil {
			l.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to publish event")
			continue
		}
		if err := l.repo.MarkSent(ctx, event.ID); err != nil {
			l.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to mark event sent")
			continue
		}
	}
	return nil
}

func (l *Listener) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error
	for attempt := 0; attempt <= l.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := l.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			l.log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish failed, retrying")
			continue
		}
		return nil
	}
	return fmt.Errorf("publish failed after %d attempts: %w", l.cfg.MaxRetries+1, lastErr)
}
