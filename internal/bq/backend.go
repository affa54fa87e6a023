package bq

import (
	"context"

	"github.com/vinodismyname/mcpbigquery/internal/models"
)

//go:generate mockgen -source=backend.go -destination=../mock/backend_mock.go -package=mock

// QueryResult is the outcome of a finished query job.
type QueryResult struct {
	JobID        string
	Rows         []map[string]any
	AffectedRows int64
}

// Backend is the slice of BigQuery the service drives.
type Backend interface {
	// Query runs stmt and waits for the job. Rows are read only when
	// stmt.ReturnsRows is set, and come back JSON-ready.
	Query(ctx context.Context, stmt Statement) (*QueryResult, error)
	// CreateTable creates ref with schema. When ifNotExists is set an
	// existing table is not an error and created is false.
	CreateTable(ctx context.Context, ref TableRef, schema []models.TableField, ifNotExists bool) (fullID string, created bool, err error)
	// InsertRows streams rows into ref.
	InsertRows(ctx context.Context, ref TableRef, rows []map[string]any) error
}
