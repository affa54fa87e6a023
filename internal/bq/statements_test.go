package bq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = TableRef{Project: "proj", Dataset: "sales", Table: "orders"}

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		filters map[string]any
		limit   int
		sql     string
		params  []Param
	}{
		{
			name:   "all columns",
			limit:  100,
			sql:    "SELECT * FROM `proj.sales.orders` LIMIT @p1",
			params: []Param{{Name: "p1", Type: "INT64", Value: int64(100)}},
		},
		{
			name:    "columns and filter",
			columns: []string{"id", "total"},
			filters: map[string]any{"id": json.Number("7")},
			limit:   5,
			sql:     "SELECT `id`, `total` FROM `proj.sales.orders` WHERE `id` = @p1 LIMIT @p2",
			params: []Param{
				{Name: "p1", Type: "INT64", Value: int64(7)},
				{Name: "p2", Type: "INT64", Value: int64(5)},
			},
		},
		{
			name:    "null and list filters",
			filters: map[string]any{"status": "open", "deleted_at": nil, "region": []any{"eu", "us"}},
			limit:   10,
			sql:     "SELECT * FROM `proj.sales.orders` WHERE `deleted_at` IS NULL AND `region` IN (@p1,@p2) AND `status` = @p3 LIMIT @p4",
			params: []Param{
				{Name: "p1", Type: "STRING", Value: "eu"},
				{Name: "p2", Type: "STRING", Value: "us"},
				{Name: "p3", Type: "STRING", Value: "open"},
				{Name: "p4", Type: "INT64", Value: int64(10)},
			},
		},
		{
			name:    "typed scalars",
			filters: map[string]any{"paid": true, "ratio": 0.5, "qty": float64(3)},
			limit:   1,
			sql:     "SELECT * FROM `proj.sales.orders` WHERE `paid` = @p1 AND `qty` = @p2 AND `ratio` = @p3 LIMIT @p4",
			params: []Param{
				{Name: "p1", Type: "BOOL", Value: true},
				{Name: "p2", Type: "INT64", Value: int64(3)},
				{Name: "p3", Type: "FLOAT64", Value: 0.5},
				{Name: "p4", Type: "INT64", Value: int64(1)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := buildSelect(testRef, tt.columns, tt.filters, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, stmt.SQL)
			assert.Equal(t, tt.params, stmt.Params)
			assert.True(t, stmt.ReturnsRows)
		})
	}
}

func TestBuildSelect_Rejects(t *testing.T) {
	_, err := buildSelect(testRef, []string{"ok", "bad col"}, nil, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "Invalid column: bad col", err.Error())

	_, err = buildSelect(testRef, nil, map[string]any{"x;--": 1.0}, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "Invalid column: x;--", err.Error())

	_, err = buildSelect(testRef, nil, map[string]any{"meta": map[string]any{"a": 1.0}}, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "Unsupported filter value for column meta", err.Error())
}

func TestBuildUpdate(t *testing.T) {
	stmt, err := buildUpdate(testRef,
		map[string]any{"status": "shipped", "total": 12.5},
		map[string]any{"id": json.Number("42")},
	)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `proj.sales.orders` SET `status` = @p1, `total` = @p2 WHERE `id` = @p3", stmt.SQL)
	assert.Equal(t, []Param{
		{Name: "p1", Type: "STRING", Value: "shipped"},
		{Name: "p2", Type: "FLOAT64", Value: 12.5},
		{Name: "p3", Type: "INT64", Value: int64(42)},
	}, stmt.Params)
	assert.False(t, stmt.ReturnsRows)
}

func TestBuildUpdate_NullValue(t *testing.T) {
	stmt, err := buildUpdate(testRef, map[string]any{"note": nil}, map[string]any{"id": 1.0})
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "SET `note` = NULL")
	assert.Equal(t, []Param{{Name: "p1", Type: "INT64", Value: int64(1)}}, stmt.Params)
}

func TestBuildUpdate_Rejects(t *testing.T) {
	_, err := buildUpdate(testRef, map[string]any{"tags": []any{"a"}}, map[string]any{"id": 1.0})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "Unsupported value for column tags", err.Error())

	_, err = buildUpdate(testRef, map[string]any{"1st": "x"}, map[string]any{"id": 1.0})
	assert.EqualError(t, err, "Invalid column: 1st")
}

func TestBuildDelete(t *testing.T) {
	stmt, err := buildDelete(testRef, map[string]any{"id": "a"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `proj.sales.orders` WHERE `id` = @p1", stmt.SQL)
	assert.Len(t, stmt.Params, 1)

	stmt, err = buildDelete(testRef, nil)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `proj.sales.orders` WHERE TRUE", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBindValue(t *testing.T) {
	assert.Equal(t, int64(3), bindValue(json.Number("3")))
	assert.Equal(t, 3.25, bindValue(json.Number("3.25")))
	assert.Equal(t, int64(-2), bindValue(-2.0))
	assert.Equal(t, 1e300, bindValue(1e300))
	assert.Equal(t, int64(9), bindValue(9))
	assert.Equal(t, "s", bindValue("s"))
	assert.Equal(t, []any{int64(1), "x"}, bindValue([]any{1.0, "x"}))
	assert.Equal(t, map[string]any{"n": int64(2)}, bindValue(map[string]any{"n": json.Number("2")}))
}
