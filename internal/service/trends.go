// Package service implements the rising-terms use cases on top of the
// BigQuery client.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trends-gateway/internal/bigquery"
	"trends-gateway/internal/config"
	"trends-gateway/internal/domain"
	"trends-gateway/internal/query"
)

// QueryRunner executes one parameterized statement against the warehouse.
type QueryRunner interface {
	RunQuery(ctx context.Context, stmt query.Statement) (*bigquery.QueryResponse, error)
}

// TrendsService inserts and lists weekly rising-term observations.
type TrendsService struct {
	runner QueryRunner
	cfg    config.BigQueryConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewTrendsService creates a TrendsService.
func NewTrendsService(runner QueryRunner, cfg config.BigQueryConfig, logger *slog.Logger) *TrendsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendsService{
		runner: runner,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// InsertTerm writes one observation to the rising-terms table.
func (s *TrendsService) InsertTerm(ctx context.Context, term *domain.RisingTerm) error {
	if err := term.Validate(); err != nil {
		return err
	}

	stmt := query.BuildInsert(s.cfg.ProjectID, s.cfg.DatasetTable, term)
	if _, err := s.runner.RunQuery(ctx, stmt); err != nil {
		// Keep the statement text with the error for operator diagnosis.
		return fmt.Errorf("insert rising term: %w (query: %s)", err, stmt.SQL)
	}
	s.logger.Info("rising term inserted", "term", term.Term, "week", term.Week)
	return nil
}

// ListTerms returns the observations within the optional from/to week bounds,
// decoded into schema-ordered records. An empty result is an empty slice.
func (s *TrendsService) ListTerms(ctx context.Context, from, to string) ([]bigquery.Record, error) {
	filter, err := query.BuildWeekFilter(s.now(), from, to)
	if err != nil {
		return nil, err
	}

	stmt := query.BuildSelect(s.cfg.ProjectID, s.cfg.DatasetTable, filter)
	resp, err := s.runner.RunQuery(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("select rising terms: %w (query: %s)", err, stmt.SQL)
	}

	records, err := bigquery.Decode(resp)
	if err != nil {
		return nil, fmt.Errorf("%w (query: %s)", err, stmt.SQL)
	}
	return records, nil
}
