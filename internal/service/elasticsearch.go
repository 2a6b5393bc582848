package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/genui/genui/internal/security"
)

// ElasticsearchAuditSink indexes audit events, one document per request.
type ElasticsearchAuditSink struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchAuditSink creates an ES client using go-elasticsearch/v8.
// Retries are disabled; a failed write is logged and dropped.
func NewElasticsearchAuditSink(scheme, host string, port int, user, password string, verifyCerts bool, index string) (*ElasticsearchAuditSink, error) {
	addr := fmt.Sprintf("%s://%s:%d", scheme, host, port)

	cfg := elasticsearch.Config{
		Addresses:    []string{addr},
		DisableRetry: true,
	}
	if user != "" {
		cfg.Username = user
		cfg.Password = password
	}
	if !verifyCerts {
		cfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402 - user explicitly disabled cert verification
			},
		}
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &ElasticsearchAuditSink{client: client, index: index}, nil
}

func (s *ElasticsearchAuditSink) Name() string { return "elasticsearch" }

func (s *ElasticsearchAuditSink) Write(ctx context.Context, evt security.AuditEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	opts := []func(*esapi.IndexRequest){
		s.client.Index.WithContext(ctx),
	}
	if evt.RequestID != "" {
		opts = append(opts, s.client.Index.WithDocumentID(evt.RequestID))
	}
	res, err := s.client.Index(s.index, bytes.NewReader(body), opts...)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("index %s: %s: %s", s.index, res.Status(), msg)
	}
	return nil
}

// Ping pings the cluster
func (s *ElasticsearchAuditSink) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.Status())
	}
	return nil
}

func (s *ElasticsearchAuditSink) Close() error { return nil }
