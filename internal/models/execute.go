// Package models defines the request and result shapes shared by the REST
// endpoint, the MCP tool and the BigQuery service.
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Operation is a controlled BigQuery operation.
type Operation string

const (
	OperationSelect      Operation = "SELECT"
	OperationCreateTable Operation = "CREATE_TABLE"
	OperationInsert      Operation = "INSERT"
	OperationUpdate      Operation = "UPDATE"
	OperationDelete      Operation = "DELETE"
)

// Operations lists every supported operation in declaration order.
var Operations = []Operation{
	OperationSelect,
	OperationCreateTable,
	OperationInsert,
	OperationUpdate,
	OperationDelete,
}

// Field modes accepted by CREATE_TABLE.
const (
	ModeNullable = "NULLABLE"
	ModeRequired = "REQUIRED"
	ModeRepeated = "REPEATED"
)

// TableField describes one column of a CREATE_TABLE schema.
type TableField struct {
	Name string `json:"name" validate:"required,bqident" jsonschema:"required"`
	Type string `json:"type" validate:"required,bqtype" jsonschema:"required" jsonschema_description:"BigQuery type, e.g. STRING, INT64"`
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=NULLABLE REQUIRED REPEATED" jsonschema_description:"NULLABLE | REQUIRED | REPEATED"`
}

// ExecuteArgs is the input of a controlled BigQuery operation.
type ExecuteArgs struct {
	Operation Operation `json:"operation" validate:"required,oneof=SELECT CREATE_TABLE INSERT UPDATE DELETE" jsonschema:"required,enum=SELECT,enum=CREATE_TABLE,enum=INSERT,enum=UPDATE,enum=DELETE"`
	Dataset   string    `json:"dataset" validate:"required,bqident" jsonschema:"required"`
	Table     string    `json:"table" validate:"required,bqident" jsonschema:"required"`

	Columns []string       `json:"columns,omitempty" validate:"omitempty,dive,bqident"`
	Filters map[string]any `json:"filters,omitempty"`
	Limit   int            `json:"limit,omitempty" jsonschema:"default=100"`

	Schema      []TableField     `json:"schema,omitempty" validate:"omitempty,dive"`
	IfNotExists *bool            `json:"if_not_exists,omitempty" jsonschema:"default=true"`
	Rows        []map[string]any `json:"rows,omitempty"`
	SetValues   map[string]any   `json:"set_values,omitempty"`
}

// Normalize applies the field defaults and case rules: schema types and modes
// are upper-cased and an empty mode becomes NULLABLE.
func (a *ExecuteArgs) Normalize() {
	for i := range a.Schema {
		a.Schema[i].Type = strings.ToUpper(strings.TrimSpace(a.Schema[i].Type))
		mode := strings.ToUpper(strings.TrimSpace(a.Schema[i].Mode))
		if mode == "" {
			mode = ModeNullable
		}
		a.Schema[i].Mode = mode
	}
}

// CreateIfNotExists reports the effective if_not_exists flag (default true).
func (a ExecuteArgs) CreateIfNotExists() bool {
	return a.IfNotExists == nil || *a.IfNotExists
}

// DecodeExecuteArgs decodes a JSON payload keeping numbers as json.Number so
// integers and floats bind to INT64 and FLOAT64 parameters respectively.
func DecodeExecuteArgs(data []byte) (ExecuteArgs, error) {
	var args ExecuteArgs
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return ExecuteArgs{}, err
	}
	return args, nil
}

// SelectResult is returned by SELECT.
type SelectResult struct {
	Operation Operation        `json:"operation"`
	RowCount  int              `json:"row_count"`
	Rows      []map[string]any `json:"rows"`
	JobID     string           `json:"job_id"`
}

// CreateTableResult is returned by CREATE_TABLE.
type CreateTableResult struct {
	Operation Operation `json:"operation"`
	Table     string    `json:"table"`
	Created   bool      `json:"created"`
}

// InsertResult is returned by INSERT.
type InsertResult struct {
	Operation    Operation `json:"operation"`
	InsertedRows int       `json:"inserted_rows"`
}

// DMLResult is returned by UPDATE and DELETE.
type DMLResult struct {
	Operation    Operation `json:"operation"`
	AffectedRows int64     `json:"affected_rows"`
	JobID        string    `json:"job_id"`
}

// ExecuteResponse wraps a result with the principal that ran it.
type ExecuteResponse struct {
	Principal string `json:"principal"`
	Result    any    `json:"result"`
}
