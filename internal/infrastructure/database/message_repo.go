package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"msgsimple/pkg/msgbundle"
)

// DBTX is the subset of *pgxpool.Pool (and pgx.Tx) the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MessageRepository stores messages in the messages table, grouped by
// catalog name.
type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

type messageRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

const upsertMessage = `
INSERT INTO messages (catalog, key, value)
VALUES ($1, $2, $3)
ON CONFLICT (catalog, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

// Put inserts or replaces one message.
func (r *MessageRepository) Put(ctx context.Context, catalog, key, value string) error {
	return put(ctx, r.db, catalog, key, value)
}

func put(ctx context.Context, db DBTX, catalog, key, value string) error {
	if _, err := db.Exec(ctx, upsertMessage, catalog, key, value); err != nil {
		return fmt.Errorf("put message: %w", err)
	}
	return nil
}

// PutAll upserts every message of the map into catalog in one transaction:
// either all messages are written or none are.
func (r *MessageRepository) PutAll(ctx context.Context, catalog string, messages map[string]string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for key, value := range messages {
			if err := put(ctx, tx, catalog, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put messages: %w", err)
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, catalog, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM messages WHERE catalog = $1 AND key = $2`, catalog, key); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// FindByCatalog returns every message of catalog.
func (r *MessageRepository) FindByCatalog(ctx context.Context, catalog string) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM messages WHERE catalog = $1`, catalog)
	if err != nil {
		return nil, fmt.Errorf("find messages by catalog: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[messageRow])
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}

	out := make(map[string]string, len(found))
	for _, m := range found {
		out[m.Key] = m.Value
	}
	return out, nil
}

// NewMessageSource snapshots catalog into an immutable message source.
// Rows written afterwards are not visible through the returned source.
func NewMessageSource(ctx context.Context, repo *MessageRepository, catalog string) (*msgbundle.MapSource, error) {
	if repo == nil || catalog == "" {
		return nil, fmt.Errorf("%w: repository and catalog are required", msgbundle.ErrInvalidArgument)
	}
	messages, err := repo.FindByCatalog(ctx, catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	return msgbundle.NewMapSource(messages), nil
}
