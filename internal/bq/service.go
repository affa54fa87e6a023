// Package bq turns controlled operations into parameterized BigQuery
// statements and runs them through a Backend.
package bq

import (
	"context"
	"errors"

	"github.com/vinodismyname/mcpbigquery/internal/logger"
	"github.com/vinodismyname/mcpbigquery/internal/models"
	"github.com/vinodismyname/mcpbigquery/pkg/validation"
)

// DefaultLimit applies when a SELECT carries no limit.
const DefaultLimit = 100

// Options configures a Service.
type Options struct {
	ProjectID            string
	MaxSelectLimit       int
	AllowFullTableDelete bool
}

// Service executes controlled operations against one project.
type Service struct {
	backend              Backend
	project              string
	maxSelectLimit       int
	allowFullTableDelete bool
}

// NewService returns a Service over backend.
func NewService(backend Backend, opts Options) *Service {
	maxLimit := opts.MaxSelectLimit
	if maxLimit < 1 {
		maxLimit = 1
	}
	return &Service{
		backend:              backend,
		project:              opts.ProjectID,
		maxSelectLimit:       maxLimit,
		allowFullTableDelete: opts.AllowFullTableDelete,
	}
}

// Execute dispatches args to the operation it names.
func (s *Service) Execute(ctx context.Context, args models.ExecuteArgs) (any, error) {
	switch args.Operation {
	case models.OperationSelect:
		return s.selectRows(ctx, args)
	case models.OperationCreateTable:
		return s.createTable(ctx, args)
	case models.OperationInsert:
		return s.insert(ctx, args)
	case models.OperationUpdate:
		return s.update(ctx, args)
	case models.OperationDelete:
		return s.delete(ctx, args)
	}
	return nil, invalidf("Unsupported operation: %s", args.Operation)
}

// Ping runs a trivial query to prove credentials and connectivity. Any
// failure matches ErrUnavailable.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.backend.Query(ctx, Statement{SQL: pingSQL, ReturnsRows: true})
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return &UnavailableError{Err: err}
}

// clampLimit applies min(max(limit or 100, 1), MAX_SELECT_LIMIT). Only an
// omitted limit takes the default; negative values clamp to 1.
func (s *Service) clampLimit(limit int) int {
	if limit == 0 {
		limit = DefaultLimit
	}
	return min(max(limit, 1), s.maxSelectLimit)
}

func (s *Service) run(ctx context.Context, stmt Statement) (*QueryResult, error) {
	logger.FromContext(ctx).Debug().
		Str("sql", stmt.SQL).
		Int("params", len(stmt.Params)).
		Msg("bigquery statement")
	return s.backend.Query(ctx, stmt)
}

func (s *Service) selectRows(ctx context.Context, args models.ExecuteArgs) (*models.SelectResult, error) {
	ref, err := s.tableRef(args.Dataset, args.Table)
	if err != nil {
		return nil, err
	}
	stmt, err := buildSelect(ref, args.Columns, args.Filters, s.clampLimit(args.Limit))
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, stmt)
	if err != nil {
		return nil, err
	}
	rows := res.Rows
	if rows == nil {
		rows = []map[string]any{}
	}
	return &models.SelectResult{
		Operation: models.OperationSelect,
		RowCount:  len(rows),
		Rows:      rows,
		JobID:     res.JobID,
	}, nil
}

func (s *Service) createTable(ctx context.Context, args models.ExecuteArgs) (*models.CreateTableResult, error) {
	if len(args.Schema) == 0 {
		return nil, invalidf("schema is required for CREATE_TABLE")
	}
	ref, err := s.tableRef(args.Dataset, args.Table)
	if err != nil {
		return nil, err
	}
	for _, f := range args.Schema {
		if !validation.IsAllowedType(f.Type) {
			return nil, invalidf("Unsupported BigQuery type: %s", f.Type)
		}
		if err := ensureIdent(f.Name, "field name"); err != nil {
			return nil, err
		}
	}

	fullID, created, err := s.backend.CreateTable(ctx, ref, args.Schema, args.CreateIfNotExists())
	if err != nil {
		return nil, err
	}
	return &models.CreateTableResult{
		Operation: models.OperationCreateTable,
		Table:     fullID,
		Created:   created,
	}, nil
}

func (s *Service) insert(ctx context.Context, args models.ExecuteArgs) (*models.InsertResult, error) {
	if len(args.Rows) == 0 {
		return nil, invalidf("rows is required for INSERT")
	}
	ref, err := s.tableRef(args.Dataset, args.Table)
	if err != nil {
		return nil, err
	}
	if err := s.backend.InsertRows(ctx, ref, args.Rows); err != nil {
		return nil, err
	}
	return &models.InsertResult{
		Operation:    models.OperationInsert,
		InsertedRows: len(args.Rows),
	}, nil
}

func (s *Service) update(ctx context.Context, args models.ExecuteArgs) (*models.DMLResult, error) {
	if len(args.SetValues) == 0 {
		return nil, invalidf("set_values is required for UPDATE")
	}
	if len(args.Filters) == 0 {
		return nil, invalidf("filters are required for UPDATE (safe default)")
	}
	ref, err := s.tableRef(args.Dataset, args.Table)
	if err != nil {
		return nil, err
	}
	stmt, err := buildUpdate(ref, args.SetValues, args.Filters)
	if err != nil {
		return nil, err
	}
	return s.dml(ctx, models.OperationUpdate, stmt)
}

func (s *Service) delete(ctx context.Context, args models.ExecuteArgs) (*models.DMLResult, error) {
	ref, err := s.tableRef(args.Dataset, args.Table)
	if err != nil {
		return nil, err
	}
	if len(args.Filters) == 0 && !s.allowFullTableDelete {
		return nil, invalidf("DELETE without filters is blocked by policy")
	}
	stmt, err := buildDelete(ref, args.Filters)
	if err != nil {
		return nil, err
	}
	return s.dml(ctx, models.OperationDelete, stmt)
}

func (s *Service) dml(ctx context.Context, op models.Operation, stmt Statement) (*models.DMLResult, error) {
	res, err := s.run(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return &models.DMLResult{
		Operation:    op,
		AffectedRows: res.AffectedRows,
		JobID:        res.JobID,
	}, nil
}
