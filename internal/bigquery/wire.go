// Package bigquery submits query jobs to the BigQuery REST API and decodes
// the schema-tagged tabular responses into typed records.
package bigquery

// queryRequest is the body POSTed to the jobs.query endpoint.
type queryRequest struct {
	Kind            string           `json:"kind"`
	Query           string           `json:"query"`
	Location        string           `json:"location"`
	UseLegacySQL    bool             `json:"useLegacySql"`
	ParameterMode   string           `json:"parameterMode,omitempty"`
	QueryParameters []queryParameter `json:"queryParameters,omitempty"`
}

// queryParameter is one named parameter in the REST wire format.
type queryParameter struct {
	Name           string         `json:"name"`
	ParameterType  parameterType  `json:"parameterType"`
	ParameterValue parameterValue `json:"parameterValue"`
}

type parameterType struct {
	Type string `json:"type"`
}

type parameterValue struct {
	Value string `json:"value"`
}

// SchemaField describes one result column. Cell values are paired with
// fields positionally.
type SchemaField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the column list of a query response.
type Schema struct {
	Fields []SchemaField `json:"fields"`
}

// Cell is one untyped result value. BigQuery renders every scalar as a JSON
// string; NULL arrives as a null `v`.
type Cell struct {
	V *string `json:"v"`
}

// Row is one result row: cells in schema order.
type Row struct {
	F []Cell `json:"f"`
}

// QueryResponse is the subset of the jobs.query response this service reads.
// A response may legitimately omit `rows` when the result set is empty.
type QueryResponse struct {
	Schema *Schema `json:"schema"`
	Rows   []Row   `json:"rows"`
}
