package bigquery

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"

	"trends-gateway/internal/domain"
)

// updateColumn is the reserved column whose text arrives percent-encoded.
const updateColumn = "update"

// Field is one decoded column value.
type Field struct {
	Name  string
	Value interface{}
}

// Record is one decoded row. Fields keep schema order, which a plain map
// would lose on marshalling.
type Record []Field

// MarshalJSON renders the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode walks the response schema and rows and produces one typed record per
// row. INTEGER columns are parsed as int64 (absent or unparsable cells fall
// back to zero); everything else is text, with the reserved update column
// percent-decoded. A response without a schema is malformed; a response
// without rows is a defined empty result.
func Decode(resp *QueryResponse) ([]Record, error) {
	if resp == nil || resp.Schema == nil || len(resp.Schema.Fields) == 0 {
		return nil, domain.ErrDecode("query response does not include schema.fields")
	}
	if resp.Rows == nil {
		return []Record{}, nil
	}

	fields := resp.Schema.Fields
	records := make([]Record, 0, len(resp.Rows))
	for i, row := range resp.Rows {
		if len(row.F) != len(fields) {
			return nil, domain.ErrDecode("row %d has %d cells, schema has %d fields", i, len(row.F), len(fields))
		}
		record := make(Record, len(fields))
		for j, field := range fields {
			value, err := decodeCell(field, row.F[j])
			if err != nil {
				return nil, err
			}
			record[j] = Field{Name: field.Name, Value: value}
		}
		records = append(records, record)
	}
	return records, nil
}

func decodeCell(field SchemaField, cell Cell) (interface{}, error) {
	raw := ""
	if cell.V != nil {
		raw = *cell.V
	}

	switch field.Type {
	case "INTEGER", "INT64":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return int64(0), nil
		}
		return n, nil
	default:
		if field.Name == updateColumn {
			decoded, err := url.QueryUnescape(raw)
			if err != nil {
				return nil, domain.ErrDecode("percent-decode %s column: %v", updateColumn, err)
			}
			return decoded, nil
		}
		return raw, nil
	}
}
