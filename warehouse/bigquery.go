package warehouse

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BigQuery führt Statements gegen ein Dataset in Google BigQuery aus.
type BigQuery struct {
	client  *bigquery.Client
	project string
	dataset string
}

// NewBigQuery erstellt einen BigQuery-Client. Ist credentialsFile leer,
// greifen die Application Default Credentials.
func NewBigQuery(ctx context.Context, project, dataset, credentialsFile string) (*BigQuery, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}
	return &BigQuery{client: client, project: project, dataset: dataset}, nil
}

func (b *BigQuery) Table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", b.project, b.dataset, name)
}

func (b *BigQuery) Query(ctx context.Context, query string, params ...Param) ([]Row, error) {
	it, err := b.newQuery(query, params).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery query failed: %w", err)
	}

	var rows []Row
	for {
		var values map[string]bigquery.Value
		err := it.Next(&values)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery row iteration failed: %w", err)
		}
		row := make(Row, len(values))
		for k, v := range values {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (b *BigQuery) Exec(ctx context.Context, query string, params ...Param) error {
	job, err := b.newQuery(query, params).Run(ctx)
	if err != nil {
		return fmt.Errorf("bigquery job start failed: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("bigquery job wait failed: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("bigquery job failed: %w", err)
	}
	return nil
}

func (b *BigQuery) Close() error {
	return b.client.Close()
}

func (b *BigQuery) newQuery(query string, params []Param) *bigquery.Query {
	q := b.client.Query(query)
	for _, p := range params {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
	}
	return q
}
