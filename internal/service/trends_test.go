package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trends-gateway/internal/bigquery"
	"trends-gateway/internal/config"
	"trends-gateway/internal/domain"
	"trends-gateway/internal/query"
)

var testCfg = config.BigQueryConfig{
	ProjectID:    "test-project",
	DatasetTable: "trends.top_rising_terms",
	Location:     "US",
}

// fakeRunner records executed statements and returns a canned response.
type fakeRunner struct {
	stmts []query.Statement
	resp  *bigquery.QueryResponse
	err   error
}

func (f *fakeRunner) RunQuery(_ context.Context, stmt query.Statement) (*bigquery.QueryResponse, error) {
	f.stmts = append(f.stmts, stmt)
	return f.resp, f.err
}

func validTerm() *domain.RisingTerm {
	return &domain.RisingTerm{
		RefreshDate: "2024-06-10",
		DmaName:     "Portland OR",
		DmaID:       820,
		Term:        "coffee",
		Week:        "2024-06-09",
		Score:       87,
		Rank:        3,
		PercentGain: 250,
	}
}

func TestInsertTerm(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{resp: &bigquery.QueryResponse{}}
	svc := NewTrendsService(runner, testCfg, nil)

	require.NoError(t, svc.InsertTerm(context.Background(), validTerm()))
	require.Len(t, runner.stmts, 1)
	assert.Contains(t, runner.stmts[0].SQL, "INSERT INTO test-project.trends.top_rising_terms")
	assert.Len(t, runner.stmts[0].Params, 8)
}

func TestInsertTerm_InvalidPayload(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := NewTrendsService(runner, testCfg, nil)

	term := validTerm()
	term.Term = ""
	err := svc.InsertTerm(context.Background(), term)

	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Empty(t, runner.stmts, "invalid payload must not reach the warehouse")
}

func TestInsertTerm_UpstreamFailureKeepsQueryText(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: &domain.UpstreamError{Status: 403, Body: "denied"}}
	svc := NewTrendsService(runner, testCfg, nil)

	err := svc.InsertTerm(context.Background(), validTerm())
	require.Error(t, err)

	var upstream *domain.UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "INSERT INTO test-project.trends.top_rising_terms")
}

func TestListTerms(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{resp: &bigquery.QueryResponse{
		Schema: &bigquery.Schema{Fields: []bigquery.SchemaField{
			{Name: "term", Type: "STRING"},
			{Name: "score", Type: "INTEGER"},
		}},
		Rows: []bigquery.Row{
			{F: []bigquery.Cell{{V: strPtr("coffee")}, {V: strPtr("42")}}},
		},
	}}
	svc := NewTrendsService(runner, testCfg, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC) }

	records, err := svc.ListTerms(context.Background(), "2024-01-01", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "coffee", records[0][0].Value)
	assert.Equal(t, int64(42), records[0][1].Value)

	require.Len(t, runner.stmts, 1)
	assert.Equal(t,
		"SELECT * FROM test-project.trends.top_rising_terms WHERE date >= @from AND date <= @to",
		runner.stmts[0].SQL)
}

func TestListTerms_BadRangeNeverQueries(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := NewTrendsService(runner, testCfg, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC) }

	_, err := svc.ListTerms(context.Background(), "2024-01-01", "2023-12-31")
	require.Error(t, err)

	var rangeErr *domain.RangeError
	assert.ErrorAs(t, err, &rangeErr)
	assert.Empty(t, runner.stmts)
}

func TestListTerms_EmptyResult(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{resp: &bigquery.QueryResponse{
		Schema: &bigquery.Schema{Fields: []bigquery.SchemaField{{Name: "term", Type: "STRING"}}},
	}}
	svc := NewTrendsService(runner, testCfg, nil)

	records, err := svc.ListTerms(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListTerms_MissingSchemaKeepsQueryText(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{resp: &bigquery.QueryResponse{}}
	svc := NewTrendsService(runner, testCfg, nil)

	_, err := svc.ListTerms(context.Background(), "", "")
	require.Error(t, err)

	var decodeErr *domain.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, err.Error(), "SELECT * FROM test-project.trends.top_rising_terms")
}

func strPtr(s string) *string { return &s }
