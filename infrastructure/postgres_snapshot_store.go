package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"wagerbot/database"
	"wagerbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// DefaultSnapshotHistory is how many previous documents the postgres store keeps
const DefaultSnapshotHistory = 20

// PostgresSnapshotStore keeps the state document in a JSONB row and a
// bounded history of previous documents
type PostgresSnapshotStore struct {
	db           *database.DB
	name         string
	historyLimit int
}

// NewPostgresSnapshotStore creates a store for the named document
func NewPostgresSnapshotStore(db *database.DB, name string, historyLimit int) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{
		db:           db,
		name:         name,
		historyLimit: historyLimit,
	}
}

func (s *PostgresSnapshotStore) Backend() string {
	return "postgres"
}

// Load returns the current document
func (s *PostgresSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	var document []byte
	err := s.db.QueryRow(ctx,
		`SELECT document FROM engine_snapshots WHERE name = $1`,
		s.name,
	).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", s.name, err)
	}
	return document, nil
}

// Save upserts the current document and appends it to the history
func (s *PostgresSnapshotStore) Save(ctx context.Context, document []byte) error {
	return s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO engine_snapshots (name, document, size_bytes, saved_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (name) DO UPDATE
			SET document = EXCLUDED.document,
			    size_bytes = EXCLUDED.size_bytes,
			    saved_at = EXCLUDED.saved_at`,
			s.name, document, len(document),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert snapshot: %w", err)
		}

		if s.historyLimit <= 0 {
			return nil
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO engine_snapshot_history (name, document) VALUES ($1, $2)`,
			s.name, document,
		); err != nil {
			return fmt.Errorf("failed to append snapshot history: %w", err)
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM engine_snapshot_history
			WHERE name = $1 AND id NOT IN (
				SELECT id FROM engine_snapshot_history
				WHERE name = $1
				ORDER BY id DESC
				LIMIT $2
			)`,
			s.name, s.historyLimit,
		)
		if err != nil {
			return fmt.Errorf("failed to prune snapshot history: %w", err)
		}
		return nil
	})
}

// HistoryCount returns how many previous documents are retained
func (s *PostgresSnapshotStore) HistoryCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM engine_snapshot_history WHERE name = $1`,
		s.name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshot history: %w", err)
	}
	return count, nil
}
