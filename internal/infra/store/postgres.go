package store

import (
	"context"
	"errors"
	"log/slog"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used here; *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	snapshotRowID = 1

	createSnapshotTable = `
CREATE TABLE IF NOT EXISTS cdk_snapshots (
    id       SMALLINT PRIMARY KEY,
    document JSONB NOT NULL,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	selectSnapshot = `SELECT document FROM cdk_snapshots WHERE id = $1`

	upsertSnapshot = `
INSERT INTO cdk_snapshots (id, document, saved_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE
SET document = EXCLUDED.document,
    saved_at = EXCLUDED.saved_at`
)

// PostgresStore keeps the snapshot document in a single jsonb row.
type PostgresStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresStore(db DBTX, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createSnapshotTable); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "create snapshot table", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) map[pool.ID]*pool.Pool {
	var data []byte
	err := s.db.QueryRow(ctx, selectSnapshot, snapshotRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("no pool snapshot row yet, starting empty")
			return make(map[pool.ID]*pool.Pool)
		}
		_ = infra.WrapRepoErr(s.logger, infra.KindDBFailure, "read pool snapshot", err)
		return make(map[pool.ID]*pool.Pool)
	}

	pools, err := Decode(data)
	if err != nil {
		_ = infra.WrapRepoErr(s.logger, infra.KindCorruptDocument, "malformed pool snapshot, starting empty", err)
		return make(map[pool.ID]*pool.Pool)
	}

	s.logger.Info("pool snapshot loaded", slog.Int("pools", len(pools)))
	return pools
}

func (s *PostgresStore) Save(ctx context.Context, pools map[pool.ID]*pool.Pool) error {
	data, err := Encode(pools)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCorruptDocument, "encode pool snapshot", err)
	}

	if _, err := s.db.Exec(ctx, upsertSnapshot, snapshotRowID, string(data)); err != nil {
		kind := infra.KindDBFailure
		if errors.Is(err, context.DeadlineExceeded) {
			kind = infra.KindTimeout
		}
		return infra.WrapRepoErr(s.logger, kind, "upsert pool snapshot", err)
	}
	return nil
}
