package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
)

// Repository implements LeadRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

var _ repository.LeadRepository = (*Repository)(nil)

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// createLeadsTable keys rows by source_event_id alone. A redelivered change feed entry
// carries the same source event id, so ReplacingMergeTree keeps one row per intent.
// The table is unpartitioned because merges never cross partitions.
const createLeadsTable = `
	CREATE TABLE IF NOT EXISTS leads (
		source_event_id String,
		customer_id String,
		advertiser_name LowCardinality(String),
		original_question String,
		intent LowCardinality(String),
		status LowCardinality(String),
		identified_at Int64,
		inserted_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	ORDER BY (source_event_id)
	SETTINGS index_granularity = 8192
	`

// InitSchema creates the leads table
func (r *Repository) InitSchema(ctx context.Context) error {
	query := createLeadsTable

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertLeads inserts a batch of leads into ClickHouse
func (r *Repository) InsertLeads(ctx context.Context, leads []*domain.LeadRecord) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, `INSERT INTO leads (
		source_event_id, customer_id, advertiser_name, original_question,
		intent, status, identified_at, version
	)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	version := uint64(time.Now().UnixNano())
	for _, lead := range leads {
		identifiedAt := lead.IdentifiedAt
		if identifiedAt.IsZero() {
			identifiedAt = time.Now()
		}

		err := batch.Append(
			lead.SourceEventID,
			lead.CustomerID,
			lead.PotentialAdvertiserName,
			lead.OriginalQuestion,
			string(lead.Intent),
			string(lead.Status),
			identifiedAt.Unix(),
			version,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append lead to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return len(leads), nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

type statsQueries struct {
	overall string
	grouped string
	args    []interface{}
}

func buildStatsQueries(query repository.LeadStatsQuery) (*statsQueries, error) {
	conditions := []string{"identified_at >= ?", "identified_at <= ?"}
	args := []interface{}{query.From, query.To}
	if query.CustomerID != "" {
		conditions = append(conditions, "customer_id = ?")
		args = append(args, query.CustomerID)
	}
	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	q := &statsQueries{
		overall: fmt.Sprintf(`
		SELECT
			count() as total_count,
			uniq(customer_id) as unique_customers
		FROM leads FINAL
		%s
	`, whereClause),
		args: args,
	}

	if query.GroupBy == "" {
		return q, nil
	}

	var selectField, groupByClause, orderBy string
	switch query.GroupBy {
	case repository.GroupByAdvertiser:
		selectField = "advertiser_name"
		groupByClause = "GROUP BY advertiser_name"
		orderBy = "ORDER BY total_count DESC"
	case repository.GroupByHour:
		selectField = "formatDateTime(toStartOfHour(toDateTime(identified_at)), '%Y-%m-%d %H:00:00')"
		groupByClause = "GROUP BY toStartOfHour(toDateTime(identified_at))"
		orderBy = "ORDER BY group_value ASC"
	case repository.GroupByDay:
		selectField = "formatDateTime(toStartOfDay(toDateTime(identified_at)), '%Y-%m-%d')"
		groupByClause = "GROUP BY toStartOfDay(toDateTime(identified_at))"
		orderBy = "ORDER BY group_value ASC"
	default:
		return nil, fmt.Errorf("unsupported group_by value: %s (supported: advertiser, hour, day)", query.GroupBy)
	}

	q.grouped = fmt.Sprintf(`
			SELECT
				%s as group_value,
				count() as total_count
			FROM leads FINAL
			%s
			%s
			%s
		`, selectField, whereClause, groupByClause, orderBy)

	return q, nil
}

// GetLeadStats retrieves aggregated lead statistics from ClickHouse
func (r *Repository) GetLeadStats(ctx context.Context, query repository.LeadStatsQuery) (*repository.LeadStats, error) {
	queries, err := buildStatsQueries(query)
	if err != nil {
		return nil, err
	}

	result := &repository.LeadStats{
		Groups: []repository.LeadGroupResult{},
	}

	row := r.client.Conn().QueryRow(ctx, queries.overall, queries.args...)
	if err := row.Scan(&result.TotalCount, &result.UniqueCustomers); err != nil {
		return nil, fmt.Errorf("failed to query overall lead stats: %w", err)
	}

	if queries.grouped == "" {
		return result, nil
	}

	rows, err := r.client.Conn().Query(ctx, queries.grouped, queries.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped lead stats: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close grouped lead stats rows", zap.Error(err))
		}
	}(rows)

	for rows.Next() {
		var group repository.LeadGroupResult
		if err := rows.Scan(&group.GroupValue, &group.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan grouped lead stats row: %w", err)
		}
		result.Groups = append(result.Groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped lead stats rows: %w", err)
	}

	return result, nil
}
