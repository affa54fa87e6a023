package bq

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// normalizeRow makes a result row JSON-ready: NUMERIC values become decimal
// strings, dates and times ISO-8601 strings. Records and arrays are
// normalized recursively.
func normalizeRow(row map[string]bigquery.Value, schema bigquery.Schema) map[string]any {
	out := make(map[string]any, len(row))
	fields := make(map[string]*bigquery.FieldSchema, len(schema))
	for _, f := range schema {
		fields[f.Name] = f
	}
	for k, v := range row {
		out[k] = normalizeValue(v, fields[k])
	}
	return out
}

func normalizeValue(v bigquery.Value, f *bigquery.FieldSchema) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *big.Rat:
		if f != nil && f.Type == bigquery.BigNumericFieldType {
			return bigquery.BigNumericString(x)
		}
		return bigquery.NumericString(x)
	case time.Time:
		return isoTimestamp(x)
	case civil.Date:
		return x.String()
	case civil.Time:
		return isoClock(x)
	case civil.DateTime:
		return x.Date.String() + "T" + isoClock(x.Time)
	case []bigquery.Value:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e, f)
		}
		return out
	case map[string]bigquery.Value:
		var sub bigquery.Schema
		if f != nil {
			sub = f.Schema
		}
		return normalizeRow(x, sub)
	}
	return v
}

// isoTimestamp renders t in UTC as 2006-01-02T15:04:05[.000000]+00:00.
// Microseconds appear only when non-zero.
func isoTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}

// isoClock renders t as 15:04:05[.000000] with the same microsecond rule.
func isoClock(t civil.Time) string {
	clock := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if us := t.Nanosecond / 1000; us != 0 {
		clock += fmt.Sprintf(".%06d", us)
	}
	return clock
}
