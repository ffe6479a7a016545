package service

import (
	"context"

	"github.com/BarkinBalci/ad-scouter-service/internal/dto"
)

// IngestServicer defines the interface for event ingestion
type IngestServicer interface {
	Ingest(ctx context.Context, body []byte) error
}

// AdServicer defines the interface for ad composition
type AdServicer interface {
	ComposeAd(ctx context.Context, query string) (*dto.AdResponse, error)
}

// StatsServicer defines the interface for lead statistics
type StatsServicer interface {
	GetLeadStats(ctx context.Context, req *dto.GetLeadStatsRequest) (*dto.GetLeadStatsResponse, error)
}
