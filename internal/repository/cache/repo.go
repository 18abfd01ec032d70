package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/model"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id                TEXT PRIMARY KEY,
		space_id          TEXT NOT NULL,
		client_message_id TEXT NOT NULL DEFAULT '',
		sender_id         TEXT NOT NULL,
		content           TEXT NOT NULL,
		content_type      TEXT NOT NULL,
		seq               BIGINT NOT NULL DEFAULT 0,
		parent_message_id TEXT,
		metadata          TEXT,
		reactions         TEXT NOT NULL DEFAULT '[]',
		is_delivered      BOOLEAN NOT NULL DEFAULT FALSE,
		is_read           BOOLEAN NOT NULL DEFAULT FALSE,
		created_at        TIMESTAMP NOT NULL,
		updated_at        TIMESTAMP NOT NULL,
		edited_at         TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS messages_space_seq_idx ON messages (space_id, seq, created_at)`,
	`CREATE TABLE IF NOT EXISTS read_cursors (
		space_id             TEXT PRIMARY KEY,
		last_read_message_id TEXT NOT NULL,
		last_read_seq        BIGINT NOT NULL
	)`,
}

type key string

const keyTx = key("tx")

type queryer interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Repository mirrors confirmed messages and own read cursors so a restart starts warm.
type Repository struct {
	connection  *sqlx.DB
	placeholder sq.PlaceholderFormat
}

func New(cfg *config.Config) *Repository {
	repo, err := Open(cfg.Cache.Driver, cfg.Cache.DSN)
	if err != nil {
		log.Fatal("error connect: ", err)
	}
	return repo
}

func Open(driver, dsn string) (*Repository, error) {
	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s cache: %w", driver, err)
	}

	repo := &Repository{
		connection:  conn,
		placeholder: sq.Dollar,
	}
	if driver == DriverSQLite {
		// sqlite serialises writers; one connection also keeps :memory: databases intact
		conn.SetMaxOpenConns(1)
		repo.placeholder = sq.Question
	}
	return repo, nil
}

func (r *Repository) Close() {
	_ = r.connection.Close()
}

func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.connection.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate cache schema: %w", err)
		}
	}
	return nil
}

// WithTx runs cb in a transaction; repository calls made with the callback context join it.
func (r *Repository) WithTx(ctx context.Context, cb func(ctx context.Context) error) error {
	if _, ok := ctx.Value(keyTx).(*sqlx.Tx); ok {
		return cb(ctx)
	}

	tx, err := r.connection.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := cb(context.WithValue(ctx, keyTx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) Chk(ctx context.Context) queryer {
	if tx, ok := ctx.Value(keyTx).(*sqlx.Tx); ok {
		return tx
	}
	return r.connection
}

type messageRow struct {
	ID              string     `db:"id"`
	SpaceID         string     `db:"space_id"`
	ClientMessageID string     `db:"client_message_id"`
	SenderID        string     `db:"sender_id"`
	Content         string     `db:"content"`
	ContentType     string     `db:"content_type"`
	Seq             int64      `db:"seq"`
	ParentMessageID *string    `db:"parent_message_id"`
	Metadata        *string    `db:"metadata"`
	Reactions       string     `db:"reactions"`
	Delivered       bool       `db:"is_delivered"`
	Read            bool       `db:"is_read"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	EditedAt        *time.Time `db:"edited_at"`
}

func toRow(m model.Message) (messageRow, error) {
	reactions := m.Reactions
	if reactions == nil {
		reactions = []model.Reaction{}
	}
	rawReactions, err := json.Marshal(reactions)
	if err != nil {
		return messageRow{}, fmt.Errorf("failed to marshal reactions: %w", err)
	}

	row := messageRow{
		ID:              m.ID,
		SpaceID:         m.SpaceID,
		ClientMessageID: m.ClientMessageID,
		SenderID:        m.SenderID,
		Content:         m.Content,
		ContentType:     m.ContentType,
		Seq:             m.Seq,
		ParentMessageID: m.ParentMessageID,
		Reactions:       string(rawReactions),
		Delivered:       m.Delivered,
		Read:            m.Read,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.Metadata != nil {
		rawMetadata, err := json.Marshal(m.Metadata)
		if err != nil {
			return messageRow{}, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata := string(rawMetadata)
		row.Metadata = &metadata
	}
	if m.EditedAt != nil {
		editedAt := m.EditedAt.UTC()
		row.EditedAt = &editedAt
	}
	return row, nil
}

func (row messageRow) toMessage() (model.Message, error) {
	m := model.Message{
		ID:              row.ID,
		ClientMessageID: row.ClientMessageID,
		SpaceID:         row.SpaceID,
		SenderID:        row.SenderID,
		Content:         row.Content,
		ContentType:     row.ContentType,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
		ParentMessageID: row.ParentMessageID,
		State:           model.StateConfirmed,
		Seq:             row.Seq,
		Delivered:       row.Delivered,
		Read:            row.Read,
		Reactions:       []model.Reaction{},
	}
	if row.EditedAt != nil {
		editedAt := row.EditedAt.UTC()
		m.EditedAt = &editedAt
	}
	if err := json.Unmarshal([]byte(row.Reactions), &m.Reactions); err != nil {
		return model.Message{}, fmt.Errorf("failed to unmarshal reactions of %s: %w", row.ID, err)
	}
	if row.Metadata != nil {
		m.Metadata = &model.Metadata{}
		if err := json.Unmarshal([]byte(*row.Metadata), m.Metadata); err != nil {
			return model.Message{}, fmt.Errorf("failed to unmarshal metadata of %s: %w", row.ID, err)
		}
	}
	return m, nil
}

// SaveMessages upserts confirmed messages; pending ones are skipped.
func (r *Repository) SaveMessages(ctx context.Context, messages []model.Message) error {
	rows := make([]messageRow, 0, len(messages))
	index := make(map[string]int, len(messages))
	for _, m := range messages {
		if m.IsPending() || m.ID == "" {
			continue
		}
		row, err := toRow(m)
		if err != nil {
			return err
		}
		if i, ok := index[row.ID]; ok {
			rows[i] = row
			continue
		}
		index[row.ID] = len(rows)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	query := sq.Insert("messages").
		Columns(
			"id",
			"space_id",
			"client_message_id",
			"sender_id",
			"content",
			"content_type",
			"seq",
			"parent_message_id",
			"metadata",
			"reactions",
			"is_delivered",
			"is_read",
			"created_at",
			"updated_at",
			"edited_at",
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			client_message_id = excluded.client_message_id,
			content = excluded.content,
			content_type = excluded.content_type,
			seq = excluded.seq,
			metadata = excluded.metadata,
			reactions = excluded.reactions,
			is_delivered = excluded.is_delivered,
			is_read = excluded.is_read,
			updated_at = excluded.updated_at,
			edited_at = excluded.edited_at`).
		PlaceholderFormat(r.placeholder)

	for _, row := range rows {
		query = query.Values(
			row.ID,
			row.SpaceID,
			row.ClientMessageID,
			row.SenderID,
			row.Content,
			row.ContentType,
			row.Seq,
			row.ParentMessageID,
			row.Metadata,
			row.Reactions,
			row.Delivered,
			row.Read,
			row.CreatedAt,
			row.UpdatedAt,
			row.EditedAt,
		)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to save messages: %v", err)
	}

	return nil
}

func (r *Repository) DeleteMessages(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := sq.Delete("messages").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to delete messages: %v", err)
	}

	return nil
}

func (r *Repository) GetSpaceIDs(ctx context.Context) ([]string, error) {
	sql, args, err := sq.Select("DISTINCT space_id").
		From("messages").
		OrderBy("space_id").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var spaceIDs []string
	err = r.Chk(ctx).SelectContext(ctx, &spaceIDs, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get space ids: %v", err)
	}

	return spaceIDs, nil
}

// GetRecentMessages returns the newest cached messages of a space, oldest first.
func (r *Repository) GetRecentMessages(ctx context.Context, spaceID string, limit int) (model.MessageList, error) {
	queryBuilder := sq.Select(
		"id",
		"space_id",
		"client_message_id",
		"sender_id",
		"content",
		"content_type",
		"seq",
		"parent_message_id",
		"metadata",
		"reactions",
		"is_delivered",
		"is_read",
		"created_at",
		"updated_at",
		"edited_at",
	).
		From("messages").
		Where(sq.Eq{"space_id": spaceID}).
		OrderBy("seq DESC", "created_at DESC")

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	} else {
		queryBuilder = queryBuilder.Limit(50)
	}

	sql, args, err := queryBuilder.PlaceholderFormat(r.placeholder).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var rows []messageRow
	err = r.Chk(ctx).SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %v", err)
	}

	messages := make(model.MessageList, len(rows))
	for i, row := range rows {
		m, err := row.toMessage()
		if err != nil {
			return nil, err
		}
		messages[len(rows)-1-i] = m
	}

	return messages, nil
}

// SaveReadCursor stores the cursor unless a higher one is already stored.
func (r *Repository) SaveReadCursor(ctx context.Context, spaceID string, cursor model.ReadCursor) error {
	sql, args, err := sq.Insert("read_cursors").
		Columns("space_id", "last_read_message_id", "last_read_seq").
		Values(spaceID, cursor.LastReadMessageID, cursor.LastReadSeq).
		Suffix(`ON CONFLICT (space_id) DO UPDATE SET
			last_read_message_id = excluded.last_read_message_id,
			last_read_seq = excluded.last_read_seq
			WHERE read_cursors.last_read_seq < excluded.last_read_seq`).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to save read cursor: %v", err)
	}

	return nil
}

type readCursorRow struct {
	SpaceID string `db:"space_id"`
	model.ReadCursor
}

func (r *Repository) GetReadCursors(ctx context.Context) (map[string]model.ReadCursor, error) {
	sql, args, err := sq.Select("space_id", "last_read_message_id", "last_read_seq").
		From("read_cursors").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var rows []readCursorRow
	err = r.Chk(ctx).SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get read cursors: %v", err)
	}

	cursors := make(map[string]model.ReadCursor, len(rows))
	for _, row := range rows {
		cursors[row.SpaceID] = row.ReadCursor
	}

	return cursors, nil
}
