package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the durable Store backend. Artifacts and their TTLs survive
// process restarts; expiry is evaluated against the database clock so every
// instance sharing the table agrees on it.
type Postgres struct {
	pool      *pgxpool.Pool
	singleUse bool
	logger    *slog.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// NewPostgres connects to dsn, verifies connectivity, and starts the
// background expiry sweep. Call Close to release the pool.
func NewPostgres(ctx context.Context, dsn string, opts Options, logger *slog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	interval := opts.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	p := &Postgres{
		pool:      pool,
		singleUse: opts.SingleUse,
		logger:    logger,
		done:      make(chan struct{}),
	}
	go p.sweepLoop(interval)
	return p, nil
}

// Pool returns the underlying connection pool for migrations and tests.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// Put implements Store.
func (p *Postgres) Put(ctx context.Context, data []byte, ttl time.Duration) (string, error) {
	id := uuid.New()
	ttlSeconds := int64(ttl.Truncate(time.Second) / time.Second)

	if _, err := p.pool.Exec(ctx,
		`INSERT INTO artifacts (id, data, created_at, ttl_seconds)
		 VALUES ($1, $2, now(), $3)`,
		id, data, ttlSeconds,
	); err != nil {
		return "", fmt.Errorf("store: put artifact: %w", err)
	}
	return id.String(), nil
}

// Get implements Store. Under single-use, the lookup is one conditional
// DELETE ... RETURNING: of any number of concurrent Gets for the same ID,
// the row-level lock guarantees exactly one returns the data.
func (p *Postgres) Get(ctx context.Context, id string) ([]byte, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		// IDs are always UUIDs we minted; anything else can't exist.
		return nil, ErrNotFound
	}

	query := `SELECT data FROM artifacts
	          WHERE id = $1 AND now() < created_at + make_interval(secs => ttl_seconds)`
	if p.singleUse {
		query = `DELETE FROM artifacts
		         WHERE id = $1 AND now() < created_at + make_interval(secs => ttl_seconds)
		         RETURNING data`
	}

	var data []byte
	if err := p.pool.QueryRow(ctx, query, parsed).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get artifact: %w", err)
	}
	return data, nil
}

// Sweep deletes expired rows and reports how many were removed. The
// background loop calls it periodically; Put and Get never wait on it.
func (p *Postgres) Sweep(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM artifacts
		 WHERE now() >= created_at + make_interval(secs => ttl_seconds)`,
	)
	if err != nil {
		return 0, fmt.Errorf("store: sweep artifacts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close stops the sweep goroutine and closes the pool.
// Safe to call multiple times.
func (p *Postgres) Close(context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
		p.pool.Close()
	})
	return nil
}

func (p *Postgres) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := p.Sweep(ctx); err != nil {
				p.logger.Warn("artifact sweep failed", "error", err)
			} else if n > 0 {
				p.logger.Debug("artifact sweep removed expired entries", "count", n)
			}
			cancel()
		}
	}
}
