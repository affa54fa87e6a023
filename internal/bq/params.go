package bq

import (
	"encoding/json"
	"math"
	"time"

	"cloud.google.com/go/civil"
)

// Param is a named query parameter. Names match the @pN placeholders.
type Param struct {
	Name  string
	Type  string
	Value any
}

// bindValue converts decoded JSON values into the Go types the BigQuery
// client maps to parameter types. Integral numbers become int64.
func bindValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return bindValue(f)
		}
		return x.String()
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x)
		}
		return x
	case float32:
		return bindValue(float64(x))
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = bindValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = bindValue(e)
		}
		return out
	}
	return v
}

// paramType names the BigQuery type a bound value is sent as.
func paramType(v any) string {
	switch v.(type) {
	case bool:
		return "BOOL"
	case int64:
		return "INT64"
	case float64:
		return "FLOAT64"
	case time.Time:
		return "TIMESTAMP"
	case civil.Date:
		return "DATE"
	}
	return "STRING"
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string, json.Number, float64, float32, int, int32, int64, time.Time, civil.Date:
		return true
	}
	return false
}

// isFilterValue accepts scalars and non-empty lists of non-null scalars.
func isFilterValue(v any) bool {
	if isScalar(v) {
		return true
	}
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, e := range list {
		if e == nil || !isScalar(e) {
			return false
		}
	}
	return true
}
