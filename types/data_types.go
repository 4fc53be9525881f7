package types

// DataType follows JSON Schema type vocabulary since records are emitted
// as newline-delimited JSON messages.
type DataType string

const (
	NULL    DataType = "null"
	INT64   DataType = "integer"
	FLOAT64 DataType = "number"
	STRING  DataType = "string"
	BOOL    DataType = "boolean"
	OBJECT  DataType = "object"
	ARRAY   DataType = "array"
	UNKNOWN DataType = "unknown"
)

type Record map[string]any
