package bq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/vinodismyname/mcpbigquery/internal/models"
)

// Client is the Backend backed by the BigQuery API.
type Client struct {
	bq       *bigquery.Client
	location string
}

// NewClient connects with Application Default Credentials.
func NewClient(ctx context.Context, projectID, location string) (*Client, error) {
	c, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	c.Location = location
	return &Client{bq: c, location: location}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.bq.Close()
}

// Query runs stmt as a standard SQL job in the configured location.
func (c *Client) Query(ctx context.Context, stmt Statement) (*QueryResult, error) {
	res, err := c.query(ctx, stmt)
	return res, classify(err)
}

func (c *Client) query(ctx context.Context, stmt Statement) (*QueryResult, error) {
	q := c.bq.Query(stmt.SQL)
	q.Location = c.location
	q.Parameters = make([]bigquery.QueryParameter, len(stmt.Params))
	for i, p := range stmt.Params {
		q.Parameters[i] = bigquery.QueryParameter{Name: p.Name, Value: p.Value}
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for job %s: %w", job.ID(), err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("job %s: %w", job.ID(), err)
	}

	res := &QueryResult{JobID: job.ID()}
	if status.Statistics != nil {
		if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
			res.AffectedRows = qs.NumDMLAffectedRows
		}
	}
	if !stmt.ReturnsRows {
		return res, nil
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", job.ID(), err)
	}
	res.Rows = []map[string]any{}
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		res.Rows = append(res.Rows, normalizeRow(row, it.Schema))
	}
	return res, nil
}

var fieldTypes = map[string]bigquery.FieldType{
	"STRING":     bigquery.StringFieldType,
	"BYTES":      bigquery.BytesFieldType,
	"INT64":      bigquery.IntegerFieldType,
	"FLOAT64":    bigquery.FloatFieldType,
	"NUMERIC":    bigquery.NumericFieldType,
	"BIGNUMERIC": bigquery.BigNumericFieldType,
	"BOOL":       bigquery.BooleanFieldType,
	"TIMESTAMP":  bigquery.TimestampFieldType,
	"DATE":       bigquery.DateFieldType,
	"TIME":       bigquery.TimeFieldType,
	"DATETIME":   bigquery.DateTimeFieldType,
	"JSON":       bigquery.JSONFieldType,
}

func toSchema(fields []models.TableField) (bigquery.Schema, error) {
	schema := make(bigquery.Schema, 0, len(fields))
	for _, f := range fields {
		t, ok := fieldTypes[f.Type]
		if !ok {
			return nil, invalidf("Unsupported BigQuery type: %s", f.Type)
		}
		schema = append(schema, &bigquery.FieldSchema{
			Name:     f.Name,
			Type:     t,
			Required: f.Mode == models.ModeRequired,
			Repeated: f.Mode == models.ModeRepeated,
		})
	}
	return schema, nil
}

// CreateTable creates the table and returns its full id (project:dataset.table).
func (c *Client) CreateTable(ctx context.Context, ref TableRef, fields []models.TableField, ifNotExists bool) (string, bool, error) {
	id, created, err := c.createTable(ctx, ref, fields, ifNotExists)
	return id, created, classify(err)
}

func (c *Client) createTable(ctx context.Context, ref TableRef, fields []models.TableField, ifNotExists bool) (string, bool, error) {
	schema, err := toSchema(fields)
	if err != nil {
		return "", false, err
	}

	table := c.bq.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table)
	created := true
	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		var gerr *googleapi.Error
		if !ifNotExists || !errors.As(err, &gerr) || gerr.Code != http.StatusConflict {
			return "", false, fmt.Errorf("create table %s: %w", ref.ID(), err)
		}
		created = false
	}

	md, err := table.Metadata(ctx)
	if err != nil {
		return "", false, fmt.Errorf("table metadata %s: %w", ref.ID(), err)
	}
	return md.FullID, created, nil
}

// jsonRow saves a decoded JSON object as a streaming insert row. The empty
// insert id lets the client generate one.
type jsonRow map[string]any

func (r jsonRow) Save() (map[string]bigquery.Value, string, error) {
	out := make(map[string]bigquery.Value, len(r))
	for k, v := range r {
		out[k] = bindValue(v)
	}
	return out, "", nil
}

// InsertRows streams rows; per-row failures come back as an invalid
// argument listing each rejected row.
func (c *Client) InsertRows(ctx context.Context, ref TableRef, rows []map[string]any) error {
	return classify(c.insertRows(ctx, ref, rows))
}

func (c *Client) insertRows(ctx context.Context, ref TableRef, rows []map[string]any) error {
	savers := make([]bigquery.ValueSaver, len(rows))
	for i, r := range rows {
		savers[i] = jsonRow(r)
	}

	ins := c.bq.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table).Inserter()
	err := ins.Put(ctx, savers)
	if err == nil {
		return nil
	}

	var multi bigquery.PutMultiError
	if errors.As(err, &multi) {
		parts := make([]string, 0, len(multi))
		for _, rowErr := range multi {
			parts = append(parts, fmt.Sprintf("row %d: %v", rowErr.RowIndex, rowErr.Errors))
		}
		return invalidf("BigQuery insert errors: [%s]", strings.Join(parts, "; "))
	}
	return fmt.Errorf("insert into %s: %w", ref.ID(), err)
}
