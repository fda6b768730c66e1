package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quietnest/noise-event-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the default durable backend for readings.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if the database
// is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

func (p *PostgresStore) Insert(ctx context.Context, r models.Reading) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO readings(id, device_id, decibels, ts, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, r.ID, r.DeviceID, r.Decibels, r.Timestamp, r.CreatedAt)
	return err
}

// whereClause translates a Filter into SQL. Placeholders start at $1.
func whereClause(f Filter) (string, []any) {
	var conds []string
	var args []any

	if f.DeviceID != "" {
		args = append(args, f.DeviceID)
		conds = append(conds, fmt.Sprintf("device_id = $%d", len(args)))
	}
	if !f.Before.IsZero() {
		args = append(args, f.Before)
		conds = append(conds, fmt.Sprintf("ts < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (p *PostgresStore) Query(ctx context.Context, f Filter, limit int) ([]models.Reading, error) {
	where, args := whereClause(f)

	sql := "SELECT id, device_id, decibels, ts, created_at FROM readings" +
		where + " ORDER BY ts DESC"
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Reading
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.ID, &r.DeviceID, &r.Decibels, &r.Timestamp, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := whereClause(f)

	var count int64
	err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM readings"+where, args...).Scan(&count)
	return count, err
}

func (p *PostgresStore) DeleteByID(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := p.pool.Exec(ctx, "DELETE FROM readings WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
