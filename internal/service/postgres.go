package service

import (
	"context"
	"fmt"

	"github.com/genui/genui/internal/security"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createAuditTableSQL = `
CREATE TABLE IF NOT EXISTS chat_audit (
	id                BIGSERIAL PRIMARY KEY,
	request_id        TEXT        NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL,
	conversation_hash TEXT        NOT NULL,
	message_count     INTEGER     NOT NULL,
	provider          TEXT        NOT NULL,
	model             TEXT        NOT NULL,
	outcome           TEXT        NOT NULL,
	tool_name         TEXT,
	error_kind        TEXT,
	status_code       INTEGER     NOT NULL,
	duration_ms       BIGINT      NOT NULL
);`

const insertAuditSQL = `
INSERT INTO chat_audit (request_id, created_at, conversation_hash, message_count, provider, model,
	outcome, tool_name, error_kind, status_code, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11);`

// PostgresAuditSink stores audit events in the chat_audit table.
type PostgresAuditSink struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditSink connects to dsn and creates the audit table if needed.
func NewPostgresAuditSink(ctx context.Context, dsn string) (*PostgresAuditSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if _, err := pool.Exec(ctx, createAuditTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create chat_audit: %w", err)
	}
	return &PostgresAuditSink{pool: pool}, nil
}

func (s *PostgresAuditSink) Name() string { return "postgres" }

func (s *PostgresAuditSink) Write(ctx context.Context, evt security.AuditEvent) error {
	_, err := s.pool.Exec(ctx, insertAuditSQL,
		evt.RequestID,
		evt.Timestamp,
		evt.ConversationHash,
		evt.MessageCount,
		evt.Provider,
		evt.Model,
		evt.Outcome,
		evt.ToolName,
		evt.ErrorKind,
		evt.StatusCode,
		evt.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert chat_audit: %w", err)
	}
	return nil
}

func (s *PostgresAuditSink) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresAuditSink) Close() error {
	s.pool.Close()
	return nil
}
