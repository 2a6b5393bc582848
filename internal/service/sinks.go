package service

import (
	"context"

	"github.com/genui/genui/internal/config"
	"github.com/genui/genui/internal/security"
	"github.com/rs/zerolog/log"
)

// NewAuditSinks builds every configured audit sink. A sink that fails to
// initialise is logged and skipped so the chat endpoint stays available.
func NewAuditSinks(ctx context.Context, cfg config.AuditConfig) []security.AuditSink {
	var sinks []security.AuditSink

	if cfg.PostgresDSN != "" {
		pg, err := NewPostgresAuditSink(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Warn().Err(err).Msg("Postgres audit sink unavailable")
		} else {
			sinks = append(sinks, pg)
		}
	}

	if es := cfg.Elasticsearch; es.Enabled {
		sink, err := NewElasticsearchAuditSink(es.Scheme, es.Host, es.Port, es.User, es.Password, es.VerifyCerts, es.Index)
		if err != nil {
			log.Warn().Err(err).Msg("Elasticsearch audit sink unavailable")
		} else {
			sinks = append(sinks, sink)
		}
	}

	if bq := cfg.BigQuery; bq.ProjectID != "" {
		sink, err := NewBigQueryAuditSink(ctx, bq.ProjectID, bq.Credentials, bq.Location, bq.Dataset, bq.Table)
		if err != nil {
			log.Warn().Err(err).Msg("BigQuery audit sink unavailable")
		} else {
			sinks = append(sinks, sink)
		}
	} else {
		log.Debug().Msg("GCP project not set - BigQuery audit disabled")
	}

	return sinks
}
