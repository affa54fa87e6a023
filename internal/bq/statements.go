package bq

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Ping is the readiness probe query.
const pingSQL = "SELECT 1 AS ok"

// Statement is a parameterized GoogleSQL statement.
type Statement struct {
	SQL         string
	Params      []Param
	ReturnsRows bool
}

func finish(b sq.Sqlizer, returnsRows bool) (Statement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("build statement: %w", err)
	}
	params := make([]Param, len(args))
	for i, a := range args {
		v := bindValue(a)
		params[i] = Param{Name: fmt.Sprintf("p%d", i+1), Type: paramType(v), Value: v}
	}
	return Statement{SQL: sql, Params: params, ReturnsRows: returnsRows}, nil
}

// equalities turns filters into an AND of column equalities. A null value
// matches IS NULL, a list matches IN.
func equalities(filters map[string]any) (sq.Eq, error) {
	eq := make(sq.Eq, len(filters))
	for col, v := range filters {
		ref, err := colRef(col)
		if err != nil {
			return nil, err
		}
		if !isFilterValue(v) {
			return nil, invalidf("Unsupported filter value for column %s", col)
		}
		eq[ref] = v
	}
	return eq, nil
}

func buildSelect(ref TableRef, columns []string, filters map[string]any, limit int) (Statement, error) {
	cols := []string{"*"}
	if len(columns) > 0 {
		cols = make([]string, len(columns))
		for i, c := range columns {
			r, err := colRef(c)
			if err != nil {
				return Statement{}, err
			}
			cols[i] = r
		}
	}

	b := sq.Select(cols...).From(ref.Quoted()).PlaceholderFormat(sq.AtP)
	if len(filters) > 0 {
		eq, err := equalities(filters)
		if err != nil {
			return Statement{}, err
		}
		b = b.Where(eq)
	}
	b = b.Suffix("LIMIT ?", limit)
	return finish(b, true)
}

func buildUpdate(ref TableRef, set, filters map[string]any) (Statement, error) {
	values := make(map[string]any, len(set))
	for col, v := range set {
		r, err := colRef(col)
		if err != nil {
			return Statement{}, err
		}
		switch {
		case v == nil:
			values[r] = sq.Expr("NULL")
		case isScalar(v):
			values[r] = v
		default:
			return Statement{}, invalidf("Unsupported value for column %s", col)
		}
	}
	eq, err := equalities(filters)
	if err != nil {
		return Statement{}, err
	}

	b := sq.Update(ref.Quoted()).SetMap(values).Where(eq).PlaceholderFormat(sq.AtP)
	return finish(b, false)
}

// buildDelete deletes the rows matching filters, or every row when filters
// is empty. BigQuery DML requires a WHERE clause, hence WHERE TRUE.
func buildDelete(ref TableRef, filters map[string]any) (Statement, error) {
	b := sq.Delete(ref.Quoted()).PlaceholderFormat(sq.AtP)
	if len(filters) == 0 {
		return finish(b.Where("TRUE"), false)
	}
	eq, err := equalities(filters)
	if err != nil {
		return Statement{}, err
	}
	return finish(b.Where(eq), false)
}
