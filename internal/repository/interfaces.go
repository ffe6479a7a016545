package repository

import (
	"context"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// Lead statistics groupings
const (
	GroupByAdvertiser = "advertiser"
	GroupByDay        = "day"
	GroupByHour       = "hour"
)

// LeadStatsQuery represents lead statistics query parameters
type LeadStatsQuery struct {
	CustomerID string
	From       int64
	To         int64
	GroupBy    string
}

// LeadGroupResult represents aggregated leads for a specific group
type LeadGroupResult struct {
	GroupValue string
	TotalCount uint64
}

// LeadStats represents the result of a lead statistics query
type LeadStats struct {
	TotalCount      uint64
	UniqueCustomers uint64
	Groups          []LeadGroupResult
}

// IntentRepository persists classified intent records
type IntentRepository interface {
	// PutIntent writes one record keyed by (customerId, eventId)
	PutIntent(ctx context.Context, record *domain.IntentRecord) error
}

// LeadRepository defines the interface for lead storage operations
type LeadRepository interface {
	// InsertLeads inserts a batch of leads into the storage
	InsertLeads(ctx context.Context, leads []*domain.LeadRecord) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error

	// GetLeadStats retrieves aggregated lead statistics based on the query
	GetLeadStats(ctx context.Context, query LeadStatsQuery) (*LeadStats, error)
}
