package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/genui/genui/internal/security"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// bigQueryAuditRow is the streamed row layout of the audit table.
type bigQueryAuditRow struct {
	RequestID        string    `bigquery:"request_id"`
	Timestamp        time.Time `bigquery:"timestamp"`
	ConversationHash string    `bigquery:"conversation_hash"`
	MessageCount     int       `bigquery:"message_count"`
	Provider         string    `bigquery:"provider"`
	Model            string    `bigquery:"model"`
	Outcome          string    `bigquery:"outcome"`
	ToolName         string    `bigquery:"tool_name"`
	ErrorKind        string    `bigquery:"error_kind"`
	StatusCode       int       `bigquery:"status_code"`
	DurationMs       int64     `bigquery:"duration_ms"`
}

func newBigQueryAuditRow(evt security.AuditEvent) *bigQueryAuditRow {
	return &bigQueryAuditRow{
		RequestID:        evt.RequestID,
		Timestamp:        evt.Timestamp,
		ConversationHash: evt.ConversationHash,
		MessageCount:     evt.MessageCount,
		Provider:         evt.Provider,
		Model:            evt.Model,
		Outcome:          evt.Outcome,
		ToolName:         evt.ToolName,
		ErrorKind:        evt.ErrorKind,
		StatusCode:       evt.StatusCode,
		DurationMs:       evt.DurationMs,
	}
}

// BigQueryAuditSink streams audit events into a BigQuery table.
type BigQueryAuditSink struct {
	client *bigquery.Client
	table  *bigquery.Table
}

// NewBigQueryAuditSink creates the client and the audit table when it does
// not exist yet.
func NewBigQueryAuditSink(ctx context.Context, projectID, credentialsFile, location, dataset, table string) (*BigQueryAuditSink, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	client.Location = location

	s := &BigQueryAuditSink{
		client: client,
		table:  client.Dataset(dataset).Table(table),
	}
	if err := s.ensureTable(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *BigQueryAuditSink) ensureTable(ctx context.Context) error {
	_, err := s.table.Metadata(ctx)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("table metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(bigQueryAuditRow{})
	if err != nil {
		return fmt.Errorf("infer schema: %w", err)
	}
	meta := &bigquery.TableMetadata{
		Schema: schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Field: "timestamp",
		},
	}
	if err := s.table.Create(ctx, meta); err != nil {
		return fmt.Errorf("create table %s.%s: %w", s.table.DatasetID, s.table.TableID, err)
	}
	log.Info().Str("table", s.table.FullyQualifiedName()).Msg("created BigQuery audit table")
	return nil
}

func (s *BigQueryAuditSink) Name() string { return "bigquery" }

func (s *BigQueryAuditSink) Write(ctx context.Context, evt security.AuditEvent) error {
	if err := s.table.Inserter().Put(ctx, newBigQueryAuditRow(evt)); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

// Ping verifies BigQuery connectivity
func (s *BigQueryAuditSink) Ping(ctx context.Context) error {
	if _, err := s.table.Metadata(ctx); err != nil {
		return fmt.Errorf("table metadata: %w", err)
	}
	return nil
}

// Close releases the BigQuery client
func (s *BigQueryAuditSink) Close() error {
	return s.client.Close()
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
