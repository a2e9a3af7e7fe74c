package store

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	"hookgate/internal/model"
)

// Postgres is the persistent ledger, selected when DATABASE_URL is set.
// Dedup survives restarts and is shared across gateway instances.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate ensures the ledger schema exists (dev helper; production
// deployments typically manage schema out of band).
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS processed_deliveries (
    delivery_id  text PRIMARY KEY,
    event_type   text NOT NULL DEFAULT '',
    processed_at timestamptz NOT NULL DEFAULT now()
)`)
	return err
}

func (p *Postgres) Seen(ctx context.Context, deliveryID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM processed_deliveries WHERE delivery_id=$1`, deliveryID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Postgres) Mark(ctx context.Context, deliveryID, eventType string) error {
	// ON CONFLICT keeps check-then-act atomic across concurrent instances.
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO processed_deliveries (delivery_id, event_type) VALUES ($1, $2)
		 ON CONFLICT (delivery_id) DO NOTHING`, deliveryID, eventType)
	return err
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]model.ProcessedDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT delivery_id, event_type, processed_at FROM processed_deliveries
		 ORDER BY processed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ProcessedDelivery
	for rows.Next() {
		var d model.ProcessedDelivery
		if err := rows.Scan(&d.DeliveryID, &d.EventType, &d.ProcessedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
