// Package api implements the HTTP surface of the webhook gateway.
package api

import (
	"context"
	"time"

	"hookgate/internal/config"
	"hookgate/internal/model"
	"hookgate/internal/sendseven"
	"hookgate/internal/store"
	"hookgate/internal/webhooks"
)

// ReplySender is the outbound messaging capability used by the echo
// handler. Nil disables replies; message.received events are then log-only.
type ReplySender interface {
	SendMessage(ctx context.Context, conversationID, text string) (*model.Message, error)
}

type Server struct {
	Ledger   store.Ledger
	Verifier webhooks.Verifier
	Replier  ReplySender
	Broker   EventBroker
	Cfg      config.Config
}

// NewServer wires the ledger, verifier, broker, and optional reply client
// from configuration. Ledger selection: Postgres if DATABASE_URL is set,
// else Redis if REDIS_URL is set, else in-memory. Redis additionally backs
// the event broker whenever it is configured.
func NewServer(cfg config.Config) (*Server, error) {
	var ledger store.Ledger
	switch {
	case cfg.DatabaseURL != "":
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		ledger = pg
	case cfg.RedisURL != "":
		rl, err := store.NewRedis(cfg.RedisURL, cfg.LedgerTTL)
		if err != nil {
			return nil, err
		}
		ledger = rl
	default:
		ledger = store.NewMemory()
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		}
	}
	if broker == nil {
		broker = NewBroker()
	}

	var replier ReplySender
	if cfg.EchoEnabled() {
		replier = sendseven.NewClient(cfg.APIURL, cfg.APIToken, cfg.TenantID)
	}

	return &Server{
		Ledger:   ledger,
		Verifier: webhooks.Verifier{Secret: cfg.WebhookSecret},
		Replier:  replier,
		Broker:   broker,
		Cfg:      cfg,
	}, nil
}
