package bq

import (
	"fmt"

	"github.com/vinodismyname/mcpbigquery/pkg/validation"
)

// TableRef identifies a table by project, dataset and table name.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// ID returns project.dataset.table.
func (r TableRef) ID() string {
	return fmt.Sprintf("%s.%s.%s", r.Project, r.Dataset, r.Table)
}

// Quoted returns the table reference as used in SQL.
func (r TableRef) Quoted() string {
	return "`" + r.ID() + "`"
}

func ensureIdent(name, label string) error {
	if !validation.IsIdentifier(name) {
		return invalidf("Invalid %s: %s", label, name)
	}
	return nil
}

func (s *Service) tableRef(dataset, table string) (TableRef, error) {
	if err := ensureIdent(dataset, "dataset"); err != nil {
		return TableRef{}, err
	}
	if err := ensureIdent(table, "table"); err != nil {
		return TableRef{}, err
	}
	return TableRef{Project: s.project, Dataset: dataset, Table: table}, nil
}

func colRef(col string) (string, error) {
	if err := ensureIdent(col, "column"); err != nil {
		return "", err
	}
	return "`" + col + "`", nil
}
