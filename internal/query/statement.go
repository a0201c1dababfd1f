// Package query builds parameterized BigQuery statements for the rising-terms
// table. Caller-supplied values always travel as named query parameters; only
// configured identifiers (project, dataset.table) appear in the SQL text.
package query

import (
	"fmt"

	"trends-gateway/internal/domain"
)

// BigQuery standard SQL parameter types used by this service.
const (
	TypeString = "STRING"
	TypeInt64  = "INT64"
	TypeDate   = "DATE"
)

// Parameter is one named query parameter.
type Parameter struct {
	Name  string
	Type  string
	Value string
}

// Statement is a single SQL statement plus its named parameters.
type Statement struct {
	SQL    string
	Params []Parameter
}

// BuildInsert renders the INSERT for one rising-term observation.
func BuildInsert(project, datasetTable string, t *domain.RisingTerm) Statement {
	sql := fmt.Sprintf(
		"INSERT INTO %s.%s (refresh_date, dma_name, dma_id, term, week, score, rank, percent_gain)"+
			" VALUES (@refresh_date, @dma_name, @dma_id, @term, @week, @score, @rank, @percent_gain)",
		project, datasetTable,
	)
	return Statement{
		SQL: sql,
		Params: []Parameter{
			{Name: "refresh_date", Type: TypeDate, Value: t.RefreshDate},
			{Name: "dma_name", Type: TypeString, Value: t.DmaName},
			{Name: "dma_id", Type: TypeInt64, Value: fmt.Sprintf("%d", t.DmaID)},
			{Name: "term", Type: TypeString, Value: t.Term},
			{Name: "week", Type: TypeDate, Value: t.Week},
			{Name: "score", Type: TypeInt64, Value: fmt.Sprintf("%d", t.Score)},
			{Name: "rank", Type: TypeInt64, Value: fmt.Sprintf("%d", t.Rank)},
			{Name: "percent_gain", Type: TypeInt64, Value: fmt.Sprintf("%d", t.PercentGain)},
		},
	}
}

// BuildSelect renders the SELECT for the given week filter.
func BuildSelect(project, datasetTable string, f Filter) Statement {
	return Statement{
		SQL:    fmt.Sprintf("SELECT * FROM %s.%s WHERE %s", project, datasetTable, f.Clause),
		Params: f.Params,
	}
}
